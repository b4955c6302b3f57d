package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus is a step of the appointment workflow.
type BookingStatus string

const (
	StatusPending        BookingStatus = "pending"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusArrived        BookingStatus = "arrived"
	StatusServiceStarted BookingStatus = "service-started"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusNoShow         BookingStatus = "no-show"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s BookingStatus) String() string {
	return string(s)
}

type ItemKind string

const (
	ItemService ItemKind = "service"
	ItemProduct ItemKind = "product"
)

// BookingKind tells appointments, walk-ins and POS carts apart in a BookingRef.
type BookingKind string

const (
	KindAppointment BookingKind = "appointment"
	KindWalkIn      BookingKind = "walk-in"
	KindCart        BookingKind = "cart"
)

// BookingRef identifies the booking a transaction was recorded for.
type BookingRef struct {
	Kind BookingKind `gorm:"column:booking_kind;type:varchar(20);not null;uniqueIndex:idx_transaction_booking_ref,priority:1" json:"kind"`
	ID   uuid.UUID   `gorm:"column:booking_id;type:uuid;not null;uniqueIndex:idx_transaction_booking_ref,priority:2" json:"id"`
}

// Key is the lock and lookup key for the ref.
func (r BookingRef) Key() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

type BookingItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BookingID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"bookingId"`
	Kind            ItemKind        `gorm:"type:varchar(10);not null" json:"kind"`
	Name            string          `gorm:"not null" json:"name"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Quantity        int             `gorm:"default:1" json:"quantity"`
	StaffID         *uuid.UUID      `gorm:"type:uuid" json:"staffId,omitempty"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
}

// Qty is the effective quantity; services without one count once.
func (i BookingItem) Qty() int {
	if i.Quantity <= 0 && i.Kind == ItemService {
		return 1
	}
	return i.Quantity
}

// LineTotal is the undiscounted price of the line.
func (i BookingItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty())))
}

// StatusEvent is one entry of a booking's status history. Rows are only ever inserted.
type StatusEvent struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID     `gorm:"type:uuid;index;not null" json:"bookingId"`
	Seq       int           `gorm:"not null" json:"seq"`
	Status    BookingStatus `gorm:"type:varchar(20);not null" json:"status"`
	Timestamp time.Time     `gorm:"not null" json:"timestamp"`
	UpdatedBy string        `gorm:"type:varchar(255);not null" json:"updatedBy"`
}

type Booking struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Kind       BookingKind `gorm:"type:varchar(20);not null;default:'appointment'" json:"kind"`
	ClientID   uuid.UUID   `gorm:"type:uuid;index" json:"clientId"`
	StaffID    uuid.UUID   `gorm:"type:uuid;index" json:"staffId"`
	LocationID uuid.UUID   `gorm:"type:uuid;index" json:"locationId"`

	Items         []BookingItem `gorm:"foreignKey:BookingID" json:"items"`
	Status        BookingStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	StatusHistory []StatusEvent `gorm:"foreignKey:BookingID" json:"statusHistory"`

	PaymentMethod      string           `json:"paymentMethod,omitempty"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercentage,omitempty"`
	DiscountAmount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discountAmount,omitempty"`
	PaymentRef         *string          `json:"paymentRef,omitempty"`

	TransactionRecorded bool `gorm:"index;default:false" json:"transactionRecorded"`
	// NothingToRecord is set on completed bookings whose total is zero.
	NothingToRecord bool `gorm:"index;default:false" json:"nothingToRecord"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ref returns the ledger reference of the booking.
func (b *Booking) Ref() BookingRef {
	return BookingRef{Kind: b.Kind, ID: b.ID}
}

// Total is the pre-discount sum over all lines.
func (b *Booking) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CurrentStatus derives the status from the history, pending when there is none.
func (b *Booking) CurrentStatus() BookingStatus {
	if len(b.StatusHistory) == 0 {
		return StatusPending
	}
	return b.StatusHistory[len(b.StatusHistory)-1].Status
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
