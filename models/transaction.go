package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	ServiceSale      TransactionKind = "service_sale"
	ProductSale      TransactionKind = "product_sale"
	ConsolidatedSale TransactionKind = "consolidated_sale"
)

const TransactionStatusCompleted = "completed"

// TransactionItem is a priced line as recorded in the ledger.
// TotalPrice is always OriginalPrice minus DiscountAmount.
type TransactionItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"transactionId"`
	Name               string          `gorm:"not null" json:"name"`
	Kind               ItemKind        `gorm:"type:varchar(10);not null" json:"kind"`
	Quantity           int             `gorm:"default:1" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	OriginalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"originalPrice"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	DiscountApplied    bool            `gorm:"default:false" json:"discountApplied"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discountPercentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discountAmount"`
}

// Transaction is the canonical ledger record of one completed sale.
// At most one row exists per BookingRef.
type Transaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BookingRef BookingRef      `gorm:"embedded" json:"bookingRef"`
	Date       time.Time       `gorm:"index;not null" json:"date"`
	ClientID   uuid.UUID       `gorm:"type:uuid;index" json:"clientId"`
	StaffID    uuid.UUID       `gorm:"type:uuid;index" json:"staffId"`
	LocationID uuid.UUID       `gorm:"type:uuid;index" json:"locationId"`
	Kind       TransactionKind `gorm:"type:varchar(20);not null" json:"kind"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`

	ServiceAmount         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"serviceAmount"`
	ProductAmount         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"productAmount"`
	OriginalServiceAmount decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"originalServiceAmount"`
	DiscountPercentage    *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercentage,omitempty"`
	DiscountAmount        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discountAmount,omitempty"`
	Amount                decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"amount"`

	PaymentMethod string `json:"paymentMethod"`
	Status        string `gorm:"type:varchar(20);not null" json:"status"`
	Description   string `json:"description"`
	// Category is only set on rows imported from the flat ledger format.
	Category string `gorm:"type:varchar(20)" json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// LegacyTransaction is the flat ledger shape: one amount, optionally split,
// tagged with a category or type instead of itemized lines.
type LegacyTransaction struct {
	ID                    uuid.UUID        `json:"id"`
	Amount                decimal.Decimal  `json:"amount"`
	ServiceAmount         *decimal.Decimal `json:"serviceAmount,omitempty"`
	ProductAmount         *decimal.Decimal `json:"productAmount,omitempty"`
	OriginalServiceAmount *decimal.Decimal `json:"originalServiceAmount,omitempty"`
	Category              string           `json:"category,omitempty"`
	Type                  string           `json:"type,omitempty"`
}

// LedgerRecord is implemented by the two ledger shapes: an itemized
// *Transaction and a flat LegacyTransaction.
type LedgerRecord interface {
	ledgerRecord()
}

func (*Transaction) ledgerRecord()      {}
func (LegacyTransaction) ledgerRecord() {}
