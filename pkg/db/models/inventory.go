package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
)

// Inventory is one entry in the stock movement log. It never changes
// Product.StockQuantity.
type Inventory struct {
	ID         uint                      `gorm:"column:id;primaryKey" json:"id"`
	ProductID  uint                      `gorm:"column:product_id;not null;index" json:"productId"`
	Product    *Product                  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	OrderID    *uint                     `gorm:"column:order_id;index" json:"orderId"`
	Order      *Order                    `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"-"`
	Quantity   int                       `gorm:"column:quantity;not null" json:"quantity"`
	ChangeType enums.InventoryChangeType `gorm:"column:change_type;type:varchar(16);not null" json:"changeType"`
	Reason     string                    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt  time.Time                 `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Inventory) TableName() string { return "inventories" }
