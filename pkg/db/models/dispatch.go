package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
)

type Dispatch struct {
	ID           uint                 `gorm:"column:id;primaryKey" json:"id"`
	DriverID     uint                 `gorm:"column:driver_id;not null;index" json:"driverId"`
	Driver       *User                `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"-"`
	OrderID      uint                 `gorm:"column:order_id;not null;index" json:"orderId"`
	Order        *Order               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Status       enums.DispatchStatus `gorm:"column:status;type:varchar(16);not null;default:assigned" json:"status"`
	DeliveryDate *time.Time           `gorm:"column:delivery_date" json:"deliveryDate"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Dispatch) TableName() string { return "dispatches" }
