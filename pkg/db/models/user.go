package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
)

// User is any account on the platform, from customers to drivers.
type User struct {
	ID                  uint           `gorm:"column:id;primaryKey" json:"id"`
	Name                string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email               string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash        string         `gorm:"column:password;not null" json:"-"`
	UserType            enums.UserType `gorm:"column:user_type;type:varchar(32);not null;default:customer" json:"userType"`
	IsApproved          bool           `gorm:"column:is_approved;not null;default:false" json:"isApproved"`
	IsVerified          bool           `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	VerificationCode    *string        `gorm:"column:verification_code" json:"-"`
	VerificationExpires *time.Time     `gorm:"column:verification_expires" json:"-"`
	ResetToken          *string        `gorm:"column:reset_password_token;index" json:"-"`
	ResetExpires        *time.Time     `gorm:"column:reset_password_expires" json:"-"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
