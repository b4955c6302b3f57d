package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"salonpro-bookings/models"

	"github.com/google/uuid"
)

func (s *MemoryStore) GetCustomer(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CreateCustomer(_ context.Context, c *models.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.PutCustomer(*c)
	return nil
}

// PutSalon registers a salon.
func (s *MemoryStore) PutSalon(salon models.Salon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salons[salon.ID] = salon
}

func (s *MemoryStore) GetSalon(_ context.Context, id uuid.UUID) (*models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	salon, ok := s.salons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &salon, nil
}

// PutUser registers a staff account. The password must already be hashed.
func (s *MemoryStore) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email && u.IsActive {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

func (s *MemoryStore) CreateCatalogItem(_ context.Context, item *models.CatalogItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(s.catalog, *item)
	if item.IsActive {
		s.prices[strings.ToLower(strings.TrimSpace(item.Name))] = item.Price
	}
	return nil
}

func (s *MemoryStore) ListCatalogItems(_ context.Context, salonID uuid.UUID) ([]models.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CatalogItem
	for _, item := range s.catalog {
		if item.SalonID == salonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) LogNotification(_ context.Context, entry *models.NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *entry)
	return nil
}

// Notifications returns the logged receipt messages.
func (s *MemoryStore) Notifications() []models.NotificationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NotificationLog(nil), s.notifications...)
}
