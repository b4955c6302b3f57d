package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is a process-local store used by tests and local runs without
// a database. Records are copied on the way in and out.
type MemoryStore struct {
	mu            sync.RWMutex
	bookingsByID  map[uuid.UUID]models.Booking
	ledger        []models.Transaction
	ledgerByRef   map[string]int
	prices        map[string]decimal.Decimal
	customers     map[uuid.UUID]models.Customer
	salons        map[uuid.UUID]models.Salon
	users         map[uuid.UUID]models.User
	catalog       []models.CatalogItem
	notifications []models.NotificationLog
	appendErr     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookingsByID: map[uuid.UUID]models.Booking{},
		ledgerByRef:  map[string]int{},
		prices:       map[string]decimal.Decimal{},
		customers:    map[uuid.UUID]models.Customer{},
		salons:       map[uuid.UUID]models.Salon{},
		users:        map[uuid.UUID]models.User{},
	}
}

// SetPrice registers a catalog price.
func (s *MemoryStore) SetPrice(name string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[strings.ToLower(strings.TrimSpace(name))] = price
}

// FailNextAppend makes the next AppendTransaction return err.
func (s *MemoryStore) FailNextAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// PutCustomer registers a client so appended sales update its stats.
func (s *MemoryStore) PutCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *MemoryStore) Customer(id uuid.UUID) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

func (s *MemoryStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, bookings.ErrBookingNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookingsByID[bookingID]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (s *MemoryStore) SaveBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookingsByID[b.ID] = cloneBooking(*b)
	return nil
}

func (s *MemoryStore) ListBookings(_ context.Context, filter bookings.BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookingsByID {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && b.LocationID.String() != filter.LocationID {
			continue
		}
		if filter.TransactionRecorded != nil && b.TransactionRecorded != *filter.TransactionRecorded {
			continue
		}
		if filter.NothingToRecord != nil && b.NothingToRecord != *filter.NothingToRecord {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) FindTransactions(_ context.Context, ref models.BookingRef) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.ledgerByRef[ref.Key()]
	if !ok {
		return nil, nil
	}
	return []models.Transaction{cloneTransaction(s.ledger[idx])}, nil
}

func (s *MemoryStore) AppendTransaction(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendErr; err != nil {
		s.appendErr = nil
		return err
	}
	key := txn.BookingRef.Key()
	if _, exists := s.ledgerByRef[key]; exists {
		return bookings.ErrDuplicateTransaction
	}
	s.ledger = append(s.ledger, cloneTransaction(*txn))
	s.ledgerByRef[key] = len(s.ledger) - 1

	if c, ok := s.customers[txn.ClientID]; ok {
		c.TotalVisits++
		c.TotalSpent = c.TotalSpent.Add(txn.Amount)
		date := txn.Date
		c.LastVisit = &date
		s.customers[c.ID] = c
	}
	return nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.ledger {
		if txn.ID.String() == id {
			out := cloneTransaction(txn)
			return &out, nil
		}
	}
	return nil, bookings.ErrTransactionNotFound
}

func (s *MemoryStore) ListTransactions(_ context.Context, filter bookings.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, txn := range s.ledger {
		if !filter.From.IsZero() && txn.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && txn.Date.After(filter.To) {
			continue
		}
		if filter.LocationID != "" && txn.LocationID.String() != filter.LocationID {
			continue
		}
		out = append(out, cloneTransaction(txn))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// LedgerSize is the number of recorded transactions.
func (s *MemoryStore) LedgerSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledger)
}

func (s *MemoryStore) LookupPrice(_ context.Context, name string) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[strings.ToLower(strings.TrimSpace(name))]
	return price, ok, nil
}

func cloneBooking(b models.Booking) models.Booking {
	b.Items = append([]models.BookingItem(nil), b.Items...)
	b.StatusHistory = append([]models.StatusEvent(nil), b.StatusHistory...)
	return b
}

func cloneTransaction(t models.Transaction) models.Transaction {
	t.Items = append([]models.TransactionItem(nil), t.Items...)
	return t
}
