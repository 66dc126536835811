package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Payment records an M-Pesa STK push and its callback outcome. OrderID is
// nullable so a payment can be initiated before the order is finalised.
type Payment struct {
	ID                 uint                `gorm:"column:id;primaryKey" json:"id"`
	UserID             uint                `gorm:"column:user_id;not null;index" json:"userId"`
	User               *User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	OrderID            *uint               `gorm:"column:order_id;index" json:"orderId"`
	Order              *Order              `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"-"`
	Amount             types.Money         `gorm:"column:amount;type:numeric(10,2);not null;check:chk_payments_amount,amount >= 0" json:"amount"`
	Status             enums.PaymentStatus `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	IsApproved         bool                `gorm:"column:is_approved;not null;default:false" json:"isApproved"`
	PhoneNumber        string              `gorm:"column:phone_number;type:varchar(20)" json:"phoneNumber"`
	MpesaReceiptNumber *string             `gorm:"column:mpesa_receipt_number" json:"mpesaReceiptNumber"`
	CheckoutRequestID  *string             `gorm:"column:checkout_request_id;index" json:"checkoutRequestId"`
	MerchantRequestID  *string             `gorm:"column:merchant_request_id" json:"merchantRequestId"`
	TransactionDate    *time.Time          `gorm:"column:transaction_date" json:"transactionDate"`
	ResultCode         *int                `gorm:"column:result_code" json:"resultCode"`
	ResultDesc         *string             `gorm:"column:result_desc" json:"resultDesc"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }
