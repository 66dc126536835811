package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
)

// Report stores an arbitrary JSON document in Content; see pkg/jsonfield.
type Report struct {
	ID        uint             `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint             `gorm:"column:user_id;not null;index" json:"userId"`
	User      *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string           `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Type      enums.ReportType `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Content   string           `gorm:"column:content;type:text;not null;default:'{}'" json:"-"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Report) TableName() string { return "reports" }
