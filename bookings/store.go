package bookings

import (
	"context"
	"time"

	"salonpro-bookings/models"

	"github.com/shopspring/decimal"
)

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	Status              models.BookingStatus
	LocationID          string
	TransactionRecorded *bool
	NothingToRecord     *bool
	Limit               int
}

// BookingStore holds bookings and their status history.
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	SaveBooking(ctx context.Context, b *models.Booking) error
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
}

// Ledger is the append-only transaction collection. AppendTransaction must
// fail with ErrDuplicateTransaction when the booking ref is already present.
type Ledger interface {
	LedgerView
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
}

// TransactionFilter narrows ListTransactions by date range and location.
type TransactionFilter struct {
	From       time.Time
	To         time.Time
	LocationID string
	Limit      int
}

// LedgerReader is the reporting side of the ledger.
type LedgerReader interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
}

// PriceLookup resolves catalog prices by item name.
type PriceLookup interface {
	LookupPrice(ctx context.Context, name string) (decimal.Decimal, bool, error)
}

// Store is everything the engine persists through.
type Store interface {
	BookingStore
	Ledger
}

// SaleListener is told about every transaction the engine records.
type SaleListener interface {
	SaleRecorded(ctx context.Context, b *models.Booking, txn *models.Transaction)
}
