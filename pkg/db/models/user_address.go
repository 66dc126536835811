package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
)

type UserAddress struct {
	ID          uint         `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint         `gorm:"column:user_id;not null;index" json:"userId"`
	User        *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	County      enums.County `gorm:"column:county;type:varchar(32);not null" json:"county"`
	SubCounty   string       `gorm:"column:sub_county;type:varchar(100)" json:"subCounty"`
	Ward        string       `gorm:"column:ward;type:varchar(100)" json:"ward"`
	Street      string       `gorm:"column:street;type:varchar(255)" json:"street"`
	PhoneNumber string       `gorm:"column:phone_number;type:varchar(20);not null" json:"phoneNumber"`
	PostalCode  string       `gorm:"column:postal_code;type:varchar(10)" json:"postalCode"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (UserAddress) TableName() string { return "user_addresses" }
