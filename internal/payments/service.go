package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type CreatePaymentRequest struct {
	UserID            uint        `json:"userId"`
	OrderID           *uint       `json:"orderId"`
	Amount            types.Money `json:"amount"`
	PhoneNumber       string      `json:"phoneNumber" validate:"required,ke_phone"`
	CheckoutRequestID *string     `json:"checkoutRequestId"`
	MerchantRequestID *string     `json:"merchantRequestId"`
}

type UpdatePaymentRequest struct {
	OrderID     types.NullableID     `json:"orderId"`
	Amount      *types.Money         `json:"amount"`
	Status      *enums.PaymentStatus `json:"status" validate:"omitempty,enum"`
	PhoneNumber *string              `json:"phoneNumber" validate:"omitempty,ke_phone"`
}

type ListFilter struct {
	UserID     *uint
	OrderID    *uint
	Status     *enums.PaymentStatus
	IsApproved *bool
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreatePaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Payment, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Payment], error)
	Update(ctx context.Context, id uint, req UpdatePaymentRequest) (*models.Payment, error)
	Delete(ctx context.Context, id uint) error
	Approve(ctx context.Context, id uint) (*models.Payment, error)
	HandleCallback(ctx context.Context, cb STKCallback) (*models.Payment, error)
}

type service struct {
	store repo.Store[models.Payment]
	tx    txRunner
	logg  *logger.Logger
}

func NewService(db *gorm.DB, tx txRunner, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{store: paymentStore(db), tx: tx, logg: logg}, nil
}

func paymentStore(db *gorm.DB) repo.Store[models.Payment] {
	return repo.NewStore[models.Payment](db, "payment", func(p *models.Payment) uint { return p.ID })
}

// Create records a pending payment. Customers always pay for themselves.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreatePaymentRequest) (*models.Payment, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phoneNumber is required")
	}
	if !actor.IsStaff() && (trimmed(req.CheckoutRequestID) != nil || trimmed(req.MerchantRequestID) != nil) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "checkout and merchant request ids are assigned by the payment gateway")
	}
	userID := req.UserID
	if !actor.IsStaff() || userID == 0 {
		userID = actor.UserID
	}
	if req.OrderID != nil {
		if err := s.checkOrderPayer(ctx, actor, *req.OrderID, userID); err != nil {
			return nil, err
		}
	}

	payment := &models.Payment{
		UserID:            userID,
		OrderID:           req.OrderID,
		Amount:            req.Amount,
		Status:            enums.PaymentStatusPending,
		PhoneNumber:       phone,
		CheckoutRequestID: trimmed(req.CheckoutRequestID),
		MerchantRequestID: trimmed(req.MerchantRequestID),
	}
	if err := s.store.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// checkOrderPayer rejects payments against an order the payer does not own.
// Customers get NotFound for foreign orders so their existence does not leak.
func (s *service) checkOrderPayer(ctx context.Context, actor access.Actor, orderID, payerID uint) error {
	var order models.Order
	err := s.store.DB(ctx).Select("id", "user_id").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return repo.MapError(err, "order")
	}
	if err := actor.Check(order.UserID, "order"); err != nil {
		return err
	}
	if order.UserID != payerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "order belongs to a different user than the payment")
	}
	return nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Payment, error) {
	payment, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(payment.UserID, "payment"); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, f ListFilter, params pagination.Params) (*repo.Page[models.Payment], error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if scope := actor.Scope(); scope != nil {
		f.UserID = scope
	}
	filter := repo.Filter{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.OrderID != nil {
		filter["order_id"] = *f.OrderID
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *f.Status)
		}
		filter["status"] = *f.Status
	}
	if f.IsApproved != nil {
		filter["is_approved"] = *f.IsApproved
	}
	return s.store.List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, id uint, req UpdatePaymentRequest) (*models.Payment, error) {
	fields := map[string]any{}
	if req.OrderID.Valid {
		fields["order_id"] = req.OrderID.Column()
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
		}
		fields["amount"] = *req.Amount
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phoneNumber cannot be empty")
		}
		fields["phone_number"] = phone
	}
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

// Approve marks a payment as reviewed by finance.
func (s *service) Approve(ctx context.Context, id uint) (*models.Payment, error) {
	return s.store.Update(ctx, id, map[string]any{"is_approved": true})
}

// HandleCallback applies an STK push outcome to the payment it belongs to.
// A successful push also marks the linked order as paid.
func (s *service) HandleCallback(ctx context.Context, cb STKCallback) (*models.Payment, error) {
	result, err := cb.Parse()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mpesa callback")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"checkout_request_id": result.CheckoutRequestID,
		"result_code":         result.ResultCode,
	})

	var (
		paymentID uint
		settled   bool
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.WithContext(ctx).Where("checkout_request_id = ?", result.CheckoutRequestID).First(&payment).Error; err != nil {
			return repo.MapError(err, "payment")
		}
		paymentID = payment.ID

		fields := map[string]any{
			"result_code": result.ResultCode,
			"result_desc": result.ResultDesc,
		}
		if result.MerchantRequestID != "" {
			fields["merchant_request_id"] = result.MerchantRequestID
		}
		if !result.Succeeded() {
			fields["status"] = enums.PaymentStatusFailed
			_, err := paymentStore(tx).Update(ctx, payment.ID, fields)
			return err
		}

		fields["status"] = enums.PaymentStatusCompleted
		if result.ReceiptNumber != "" {
			fields["mpesa_receipt_number"] = result.ReceiptNumber
		}
		if result.TransactionDate != nil {
			fields["transaction_date"] = *result.TransactionDate
		}
		if result.PhoneNumber != "" {
			fields["phone_number"] = result.PhoneNumber
		}
		if result.Amount != nil {
			fields["amount"] = *result.Amount
		}
		if _, err := paymentStore(tx).Update(ctx, payment.ID, fields); err != nil {
			return err
		}
		if payment.OrderID == nil {
			return nil
		}
		ok, settleErr := settleOrder(ctx, tx, *payment.OrderID)
		settled = ok
		return settleErr
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.Succeeded() && settled:
		s.logg.Info(ctx, "mpesa payment completed, order paid")
	case result.Succeeded():
		s.logg.Info(ctx, "mpesa payment completed")
	default:
		s.logg.Warn(ctx, "mpesa payment failed: "+result.ResultDesc)
	}
	return s.store.FindByID(ctx, paymentID)
}

// settleOrder marks the order Paid once its completed payments cover the
// order total. It reports whether the order was settled.
func settleOrder(ctx context.Context, tx *gorm.DB, orderID uint) (bool, error) {
	var order models.Order
	if err := tx.WithContext(ctx).Select("id", "total_price").Where("id = ?", orderID).First(&order).Error; err != nil {
		return false, repo.MapError(err, "order")
	}
	var completed []models.Payment
	err := tx.WithContext(ctx).Select("id", "amount").
		Where("order_id = ? AND status = ?", orderID, enums.PaymentStatusCompleted).
		Find(&completed).Error
	if err != nil {
		return false, repo.MapError(err, "payment")
	}
	paid := types.MoneyFromInt(0)
	for _, p := range completed {
		paid = paid.Add(p.Amount)
	}
	if paid.LessThan(order.TotalPrice.Decimal) {
		return false, nil
	}
	err = tx.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_status", enums.OrderPaymentPaid).Error
	return err == nil, repo.MapError(err, "order")
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
