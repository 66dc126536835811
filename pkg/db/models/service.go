package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Service is a workshop offering (fitting, servicing) that customers book.
type Service struct {
	ID          uint        `gorm:"column:id;primaryKey" json:"id"`
	Name        string      `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string      `gorm:"column:description;type:text" json:"description"`
	Price       types.Money `gorm:"column:price;type:numeric(10,2);not null;check:chk_services_price,price >= 0" json:"price"`
	UserID      *uint       `gorm:"column:user_id;index" json:"userId"`
	User        *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Service) TableName() string { return "services" }

type Booking struct {
	ID          uint                `gorm:"column:id;primaryKey" json:"id"`
	ServiceID   uint                `gorm:"column:service_id;not null;index" json:"serviceId"`
	Service     *Service            `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
	UserID      uint                `gorm:"column:user_id;not null;index" json:"userId"`
	User        *User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTo  *uint               `gorm:"column:assigned_to;index" json:"assignedTo"`
	Assignee    *User               `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`
	ScheduledAt *time.Time          `gorm:"column:scheduled_at" json:"scheduledAt"`
	Notes       string              `gorm:"column:notes;type:text" json:"notes"`
	Status      enums.BookingStatus `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }
