package models

import (
	"salonpro-bookings/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff account. Its ID is what status history records as UpdatedBy.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role    string    `gorm:"type:varchar(20);not null" json:"role"` // 'owner', 'cashier' or 'stylist'
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`

	Salon Salon `gorm:"foreignKey:SalonID" json:"-"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
