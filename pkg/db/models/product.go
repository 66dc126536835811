package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Product is a catalog item. ImagePublicID is the storage key of the product
// image; it keeps the cloudinaryId wire name used by existing clients.
type Product struct {
	ID            uint                  `gorm:"column:id;primaryKey" json:"id"`
	Name          string                `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description   string                `gorm:"column:description;type:text" json:"description"`
	Price         types.Money           `gorm:"column:price;type:numeric(10,2);not null;check:chk_products_price,price >= 0" json:"price"`
	Category      enums.ProductCategory `gorm:"column:category;type:varchar(32);not null;index" json:"category"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0;check:chk_products_stock,stock_quantity >= 0" json:"stockQuantity"`
	ImageURL      string                `gorm:"column:image_url;type:text" json:"imageUrl"`
	ImagePublicID string                `gorm:"column:cloudinary_id;type:varchar(255)" json:"cloudinaryId"`
	SupplierID    *uint                 `gorm:"column:supplier_id;index" json:"supplierId"`
	Supplier      *User                 `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
