package payments

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Daraja stamps TransactionDate as yyyyMMddHHmmss in Nairobi local time.
const mpesaDateLayout = "20060102150405"

var nairobi = time.FixedZone("EAT", 3*60*60)

// STKCallback is the body Safaricom posts to the STK push callback URL.
type STKCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []callbackItem `json:"Item"`
			} `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type callbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// CallbackResult is the flattened outcome of an STK callback.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            *types.Money
	ReceiptNumber     string
	TransactionDate   *time.Time
	PhoneNumber       string
}

func (r CallbackResult) Succeeded() bool { return r.ResultCode == 0 }

// Parse flattens the callback metadata. Failed pushes carry no metadata.
func (c STKCallback) Parse() (CallbackResult, error) {
	cb := c.Body.StkCallback
	res := CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: strings.TrimSpace(cb.CheckoutRequestID),
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	if res.CheckoutRequestID == "" {
		return res, fmt.Errorf("callback is missing CheckoutRequestID")
	}
	if cb.CallbackMetadata == nil {
		return res, nil
	}

	for _, item := range cb.CallbackMetadata.Item {
		raw := rawString(item.Value)
		if raw == "" {
			continue
		}
		switch item.Name {
		case "Amount":
			amount, err := types.ParseMoney(raw)
			if err != nil {
				return res, fmt.Errorf("parse Amount: %w", err)
			}
			res.Amount = &amount
		case "MpesaReceiptNumber":
			res.ReceiptNumber = raw
		case "TransactionDate":
			at, err := time.ParseInLocation(mpesaDateLayout, raw, nairobi)
			if err != nil {
				return res, fmt.Errorf("parse TransactionDate: %w", err)
			}
			at = at.UTC()
			res.TransactionDate = &at
		case "PhoneNumber":
			res.PhoneNumber = raw
		}
	}
	return res, nil
}

// rawString renders a JSON scalar without quotes. Numbers keep their
// literal digits so long phone numbers and dates survive.
func rawString(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		return unquoted
	}
	return text
}
