package store

import (
	"context"
	"os"
	"testing"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	databaseURL := os.Getenv("SALONPRO_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set SALONPRO_TEST_DATABASE_URL to run postgres integration test")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	s := NewGormStore(db)
	require.NoError(t, s.Migrate())
	return s
}

func TestGormStore_LedgerUniquePerBooking(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	customer := &models.Customer{SalonID: uuid.New(), Name: "Integration", Phone: uuid.NewString()[:12]}
	require.NoError(t, s.CreateCustomer(ctx, customer))

	b := &models.Booking{
		ID:       uuid.New(),
		Kind:     models.KindAppointment,
		ClientID: customer.ID,
		Items:    []models.BookingItem{{ID: uuid.New(), Kind: models.ItemService, Name: "Cut", UnitPrice: decimal.NewFromInt(40), Quantity: 1}},
	}
	require.NoError(t, bookings.Apply(b, models.StatusConfirmed, time.Now(), "it"))
	require.NoError(t, s.SaveBooking(ctx, b))
	t.Cleanup(func() {
		s.db.Where("booking_id = ?", b.ID).Delete(&models.StatusEvent{})
		s.db.Where("booking_id = ?", b.ID).Delete(&models.BookingItem{})
		s.db.Where("id = ?", b.ID).Delete(&models.Booking{})
		s.db.Unscoped().Where("id = ?", customer.ID).Delete(&models.Customer{})
	})

	got, err := s.GetBooking(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.CurrentStatus())
	assert.Len(t, got.Items, 1)

	txn, err := bookings.Consolidate(b, "cash", bookings.Discount{})
	require.NoError(t, err)
	require.NoError(t, s.AppendTransaction(ctx, txn))
	t.Cleanup(func() {
		s.db.Where("transaction_id = ?", txn.ID).Delete(&models.TransactionItem{})
		s.db.Where("id = ?", txn.ID).Delete(&models.Transaction{})
	})

	again, err := bookings.Consolidate(b, "cash", bookings.Discount{})
	require.NoError(t, err)
	assert.ErrorIs(t, s.AppendTransaction(ctx, again), bookings.ErrDuplicateTransaction)

	found, err := s.FindTransactions(ctx, b.Ref())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Items, 1)

	stats, err := s.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalVisits)
	assert.True(t, decimal.NewFromInt(40).Equal(stats.TotalSpent))
}
