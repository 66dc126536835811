package orders

import (
	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// OrderItemInput is one requested line. Prices are never taken from the
// client; they are snapshotted from the product at order time.
type OrderItemInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest builds an order from explicit items or from a cart.
// Exactly one source must be provided.
type CreateOrderRequest struct {
	CartID        *uint            `json:"cartId"`
	UserAddressID *uint            `json:"userAddressId"`
	Items         []OrderItemInput `json:"items" validate:"omitempty,dive"`
}

// UpdateOrderRequest is the partial update staff apply while fulfilling.
type UpdateOrderRequest struct {
	OrderStatus   *enums.OrderStatus        `json:"orderStatus" validate:"omitempty,enum"`
	PaymentStatus *enums.OrderPaymentStatus `json:"paymentStatus" validate:"omitempty,enum"`
	UserAddressID types.NullableID          `json:"userAddressId"`
}

type ListFilter struct {
	UserID        *uint
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.OrderPaymentStatus
}
