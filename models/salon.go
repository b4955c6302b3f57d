package models

import (
	"github.com/google/uuid"
)

// Salon is the location a booking happens at.
type Salon struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`

	ReceiptsEnabled       bool `gorm:"default:true" json:"receiptsEnabled"`
	WhatsAppNotifications bool `gorm:"default:false" json:"whatsAppNotifications"`
	SMSNotifications      bool `gorm:"default:true" json:"smsNotifications"`

	Users     []User     `gorm:"foreignKey:SalonID" json:"-"`
	Customers []Customer `gorm:"foreignKey:SalonID" json:"-"`
}
