package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Order is a placed purchase. TotalPrice always equals the sum of its item
// snapshots; the orders service computes it.
type Order struct {
	ID            uint                     `gorm:"column:id;primaryKey" json:"id"`
	UserID        uint                     `gorm:"column:user_id;not null;index" json:"userId"`
	User          *User                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CartID        *uint                    `gorm:"column:cart_id;index" json:"cartId"`
	Cart          *Cart                    `gorm:"foreignKey:CartID;constraint:OnDelete:SET NULL" json:"-"`
	UserAddressID *uint                    `gorm:"column:user_address_id;index" json:"userAddressId"`
	UserAddress   *UserAddress             `gorm:"foreignKey:UserAddressID;constraint:OnDelete:SET NULL" json:"address,omitempty"`
	TotalPrice    types.Money              `gorm:"column:total_price;type:numeric(10,2);not null;default:0;check:chk_orders_total,total_price >= 0" json:"totalPrice"`
	OrderStatus   enums.OrderStatus        `gorm:"column:order_status;type:varchar(16);not null;default:Pending" json:"orderStatus"`
	PaymentStatus enums.OrderPaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;default:Pending" json:"paymentStatus"`
	Items         []OrderItem              `gorm:"-" json:"items"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the unit price at the moment the order was placed.
type OrderItem struct {
	ID        uint        `gorm:"column:id;primaryKey" json:"id"`
	OrderID   uint        `gorm:"column:order_id;not null;index" json:"orderId"`
	Order     *Order      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint        `gorm:"column:product_id;not null;index" json:"productId"`
	Product   *Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int         `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity >= 1" json:"quantity"`
	Price     types.Money `gorm:"column:price;type:numeric(10,2);not null;check:chk_order_items_price,price >= 0" json:"price"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() types.Money {
	return i.Price.Times(i.Quantity)
}
