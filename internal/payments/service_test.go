package payments

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const successCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "Balance"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254708374149}
        ]
      }
    }
  }
}`

const cancelledCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "8555-67195-1",
      "CheckoutRequestID": "ws_CO_27072017151044001",
      "ResultCode": 1032,
      "ResultDesc": "Request cancelled by user"
    }
  }
}`

type fixture struct {
	svc      Service
	conn     *gorm.DB
	customer *models.User
	order    *models.Order
}

func setup(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	customer := &models.User{Name: "Payer", Email: "payer@example.com", PasswordHash: "x", UserType: enums.UserTypeCustomer}
	require.NoError(t, conn.Create(customer).Error)
	order := &models.Order{UserID: customer.ID, TotalPrice: types.MoneyFromInt(1), OrderStatus: enums.OrderStatusPending, PaymentStatus: enums.OrderPaymentPending}
	require.NoError(t, conn.Create(order).Error)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(conn, client, logg)
	require.NoError(t, err)
	return fixture{svc: svc, conn: conn, customer: customer, order: order}
}

func (f fixture) actor() access.Actor {
	return access.Actor{UserID: f.customer.ID, UserType: enums.UserTypeCustomer}
}

// finance records gateway ids on the customer's behalf.
func (f fixture) finance() access.Actor {
	return access.Actor{UserID: 77, UserType: enums.UserTypeFinanceManager}
}

func decode(t *testing.T, body string) STKCallback {
	t.Helper()
	var cb STKCallback
	require.NoError(t, json.Unmarshal([]byte(body), &cb))
	return cb
}

func TestParseSuccessCallback(t *testing.T) {
	res, err := decode(t, successCallback).Parse()
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "ws_CO_191220191020363925", res.CheckoutRequestID)
	assert.Equal(t, "NLJ7RT61SV", res.ReceiptNumber)
	assert.Equal(t, "254708374149", res.PhoneNumber)
	require.NotNil(t, res.Amount)
	assert.Equal(t, "1.00", res.Amount.String())
	require.NotNil(t, res.TransactionDate)
	assert.Equal(t, time.Date(2019, 12, 19, 7, 21, 15, 0, time.UTC), *res.TransactionDate)
}

func TestParseRejectsMissingCheckoutID(t *testing.T) {
	_, err := decode(t, `{"Body":{"stkCallback":{"ResultCode":0}}}`).Parse()
	assert.Error(t, err)
}

func TestCallbackCompletesPaymentAndOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	checkout := "ws_CO_191220191020363925"

	payment, err := f.svc.Create(ctx, f.finance(), CreatePaymentRequest{
		UserID:            f.customer.ID,
		OrderID:           &f.order.ID,
		Amount:            types.MoneyFromInt(1),
		PhoneNumber:       "254708374149",
		CheckoutRequestID: &checkout,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, payment.Status)

	updated, err := f.svc.HandleCallback(ctx, decode(t, successCallback))
	require.NoError(t, err)
	assert.Equal(t, payment.ID, updated.ID)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.Status)
	require.NotNil(t, updated.MpesaReceiptNumber)
	assert.Equal(t, "NLJ7RT61SV", *updated.MpesaReceiptNumber)
	require.NotNil(t, updated.ResultCode)
	assert.Equal(t, 0, *updated.ResultCode)
	assert.NotNil(t, updated.TransactionDate)

	var order models.Order
	require.NoError(t, f.conn.First(&order, f.order.ID).Error)
	assert.Equal(t, enums.OrderPaymentPaid, order.PaymentStatus)
}

func TestCallbackFailureMarksPaymentFailed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	checkout := "ws_CO_27072017151044001"

	_, err := f.svc.Create(ctx, f.finance(), CreatePaymentRequest{
		UserID:            f.customer.ID,
		OrderID:           &f.order.ID,
		Amount:            types.MoneyFromInt(1),
		PhoneNumber:       "254700000000",
		CheckoutRequestID: &checkout,
	})
	require.NoError(t, err)

	updated, err := f.svc.HandleCallback(ctx, decode(t, cancelledCallback))
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, updated.Status)
	assert.Nil(t, updated.MpesaReceiptNumber)

	var order models.Order
	require.NoError(t, f.conn.First(&order, f.order.ID).Error)
	assert.Equal(t, enums.OrderPaymentPending, order.PaymentStatus)
}

func TestCustomerCannotForgeGatewayIDsOrPayForeignOrders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	forged := "forged"

	_, err := f.svc.Create(ctx, f.actor(), CreatePaymentRequest{
		OrderID:           &f.order.ID,
		Amount:            types.MoneyFromInt(1),
		PhoneNumber:       "254708374149",
		CheckoutRequestID: &forged,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	other := &models.User{Name: "Other", Email: "other@example.com", PasswordHash: "x", UserType: enums.UserTypeCustomer}
	require.NoError(t, f.conn.Create(other).Error)
	stranger := access.Actor{UserID: other.ID, UserType: enums.UserTypeCustomer}
	_, err = f.svc.Create(ctx, stranger, CreatePaymentRequest{OrderID: &f.order.ID, Amount: types.MoneyFromInt(1), PhoneNumber: "254711111111"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Create(ctx, f.finance(), CreatePaymentRequest{UserID: other.ID, OrderID: &f.order.ID, Amount: types.MoneyFromInt(1), PhoneNumber: "254711111111"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := f.order.ID + 100
	_, err = f.svc.Create(ctx, f.actor(), CreatePaymentRequest{OrderID: &missing, Amount: types.MoneyFromInt(1), PhoneNumber: "254711111111"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	own, err := f.svc.Create(ctx, f.actor(), CreatePaymentRequest{OrderID: &f.order.ID, Amount: types.MoneyFromInt(1), PhoneNumber: "0712345678"})
	require.NoError(t, err)
	assert.Nil(t, own.CheckoutRequestID)
}

func TestOrderPaidOnlyWhenCompletedPaymentsCoverTotal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := &models.Order{UserID: f.customer.ID, TotalPrice: types.MoneyFromInt(5000), OrderStatus: enums.OrderStatusPending, PaymentStatus: enums.OrderPaymentPending}
	require.NoError(t, f.conn.Create(order).Error)

	first := "ws_CO_191220191020363925"
	_, err := f.svc.Create(ctx, f.finance(), CreatePaymentRequest{
		UserID:            f.customer.ID,
		OrderID:           &order.ID,
		Amount:            types.MoneyFromInt(1),
		PhoneNumber:       "254708374149",
		CheckoutRequestID: &first,
	})
	require.NoError(t, err)

	updated, err := f.svc.HandleCallback(ctx, decode(t, successCallback))
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, updated.Status)

	var reloaded models.Order
	require.NoError(t, f.conn.First(&reloaded, order.ID).Error)
	assert.Equal(t, enums.OrderPaymentPending, reloaded.PaymentStatus, "KES 1 does not settle a KES 5000 order")

	second := "ws_CO_191220191020363999"
	_, err = f.svc.Create(ctx, f.finance(), CreatePaymentRequest{
		UserID:            f.customer.ID,
		OrderID:           &order.ID,
		Amount:            types.MoneyFromInt(4999),
		PhoneNumber:       "254708374149",
		CheckoutRequestID: &second,
	})
	require.NoError(t, err)

	balance := strings.NewReplacer(first, second, `"Value": 1.00`, `"Value": 4999.00`).Replace(successCallback)
	_, err = f.svc.HandleCallback(ctx, decode(t, balance))
	require.NoError(t, err)

	require.NoError(t, f.conn.First(&reloaded, order.ID).Error)
	assert.Equal(t, enums.OrderPaymentPaid, reloaded.PaymentStatus)
}

func TestCallbackUnknownCheckout(t *testing.T) {
	f := setup(t)
	_, err := f.svc.HandleCallback(context.Background(), decode(t, successCallback))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestApproveAndScope(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, f.actor(), CreatePaymentRequest{Amount: types.MoneyFromInt(300), PhoneNumber: "254711111111", UserID: 4242})
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, payment.UserID)
	assert.False(t, payment.IsApproved)

	approved, err := f.svc.Approve(ctx, payment.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	_, err = f.svc.Approve(ctx, payment.ID+10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	stranger := access.Actor{UserID: f.customer.ID + 1, UserType: enums.UserTypeCustomer}
	_, err = f.svc.Get(ctx, stranger, payment.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	yes := true
	finance := access.Actor{UserID: 77, UserType: enums.UserTypeFinanceManager}
	page, err := f.svc.List(ctx, finance, ListFilter{IsApproved: &yes}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.svc.Create(ctx, f.actor(), CreatePaymentRequest{Amount: types.MoneyFromInt(-1), PhoneNumber: "2547"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
