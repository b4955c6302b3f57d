package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is the client a booking is made for. Visit stats move with every
// recorded transaction.
type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_salon_phone,priority:1;not null" json:"salonId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	Name        string          `gorm:"not null" json:"name"`
	Phone       string          `gorm:"not null;uniqueIndex:idx_salon_phone,priority:2" json:"phone"`
	Email       string          `json:"email"`
	Notes       string          `json:"notes"`
	TotalVisits int             `gorm:"default:0" json:"totalVisits"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0" json:"totalSpent"`
	LastVisit   *time.Time      `json:"lastVisit"`
	// ReceiptOptIn controls whether a receipt message is sent after each sale.
	ReceiptOptIn bool `gorm:"default:true" json:"receiptOptIn"`
	IsActive     bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
