package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogItem is a service or retail product offered by a salon. The booking
// engine only reads it to price lines that arrive without a unit price.
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SalonID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"salonId"`
	Kind        ItemKind        `gorm:"type:varchar(10);not null;default:'service'" json:"kind"`
	Name        string          `gorm:"not null;index" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int             `json:"duration"` // in minutes
	Category    string          `gorm:"default:'General'" json:"category"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
}

func (c *CatalogItem) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
