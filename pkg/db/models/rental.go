package models

import (
	"time"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

// Rental lends a product to a user for a time window. FineID has no GORM
// association because fines reference rentals too; the SET NULL foreign key is
// declared in the SQL migration and emulated by the fines service on SQLite.
type Rental struct {
	ID        uint               `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint               `gorm:"column:user_id;not null;index" json:"userId"`
	User      *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint               `gorm:"column:product_id;not null;index" json:"productId"`
	Product   *Product           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	StaffID   *uint              `gorm:"column:staff_id;index" json:"staffId"`
	Staff     *User              `gorm:"foreignKey:StaffID;constraint:OnDelete:SET NULL" json:"-"`
	FineID    *uint              `gorm:"column:fine_id;index" json:"fineId"`
	RentStart time.Time          `gorm:"column:rent_start;not null" json:"rentStart"`
	RentEnd   time.Time          `gorm:"column:rent_end;not null" json:"rentEnd"`
	Status    enums.RentalStatus `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Rental) TableName() string { return "rentals" }

type Fine struct {
	ID        uint        `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint        `gorm:"column:user_id;not null;index" json:"userId"`
	User      *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RentalID  uint        `gorm:"column:rental_id;not null;index" json:"rentalId"`
	Rental    *Rental     `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"-"`
	Amount    types.Money `gorm:"column:amount;type:numeric(10,2);not null;check:chk_fines_amount,amount >= 0" json:"amount"`
	Reason    string      `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Fine) TableName() string { return "fines" }
