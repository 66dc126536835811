package models

import "time"

// Cart holds items a user intends to order. Uniqueness per user is not enforced.
type Cart struct {
	ID        uint       `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint       `gorm:"column:user_id;not null;index" json:"userId"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items     []CartItem `gorm:"-" json:"items"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	CartID    uint      `gorm:"column:cart_id;not null;index" json:"cartId"`
	Cart      *Cart     `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint      `gorm:"column:product_id;not null;index" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"column:quantity;not null;default:1;check:chk_cart_items_quantity,quantity >= 1" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_items" }
