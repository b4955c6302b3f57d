package store

import (
	"context"
	"errors"
	"strings"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore keeps bookings, the ledger and the catalog in postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables the store uses.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Customer{},
		&models.CatalogItem{},
		&models.Booking{},
		&models.BookingItem{},
		&models.StatusEvent{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.NotificationLog{},
	)
}

func (s *GormStore) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}

func (s *GormStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, bookings.ErrBookingNotFound
	}

	var booking models.Booking
	if err := s.preloaded(ctx).Where("id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookings.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// SaveBooking upserts the booking with its lines and history. Existing
// history rows are left as they are; only new events are inserted.
func (s *GormStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Save(b).Error
}

func (s *GormStore) ListBookings(ctx context.Context, filter bookings.BookingFilter) ([]models.Booking, error) {
	query := s.preloaded(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LocationID != "" {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.TransactionRecorded != nil {
		query = query.Where("transaction_recorded = ?", *filter.TransactionRecorded)
	}
	if filter.NothingToRecord != nil {
		query = query.Where("nothing_to_record = ?", *filter.NothingToRecord)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var out []models.Booking
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) FindTransactions(ctx context.Context, ref models.BookingRef) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.db.WithContext(ctx).Preload("Items").
		Where("booking_kind = ? AND booking_id = ?", ref.Kind, ref.ID).
		Find(&out).Error
	return out, err
}

// AppendTransaction inserts the transaction and bumps the client's visit
// stats in one database transaction. The unique booking ref index turns a
// concurrent second insert into bookings.ErrDuplicateTransaction.
func (s *GormStore) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return bookings.ErrDuplicateTransaction
			}
			return err
		}

		if txn.ClientID == uuid.Nil {
			return nil
		}
		return tx.Model(&models.Customer{}).Where("id = ?", txn.ClientID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", txn.Amount),
				"last_visit":   txn.Date,
			}).Error
	})
}

func (s *GormStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txnID, err := uuid.Parse(id)
	if err != nil {
		return nil, bookings.ErrTransactionNotFound
	}

	var txn models.Transaction
	if err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", txnID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookings.ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (s *GormStore) ListTransactions(ctx context.Context, filter bookings.TransactionFilter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Preload("Items").Order("date DESC")
	if !filter.From.IsZero() {
		query = query.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.LocationID != "" {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var out []models.Transaction
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LookupPrice finds an active catalog entry by case-insensitive name.
func (s *GormStore) LookupPrice(ctx context.Context, name string) (decimal.Decimal, bool, error) {
	var item models.CatalogItem
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(name)), true).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return item.Price, true, nil
}
