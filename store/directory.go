package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonpro-bookings/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

func (s *GormStore) first(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *GormStore) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.first(ctx, &customer, "id = ?", id); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *GormStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	if err := s.first(ctx, &salon, "id = ?", id); err != nil {
		return nil, err
	}
	return &salon, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (s *GormStore) CreateCatalogItem(ctx context.Context, item *models.CatalogItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) ListCatalogItems(ctx context.Context, salonID uuid.UUID) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := s.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("name ASC").Find(&items).Error
	return items, err
}

func (s *GormStore) LogNotification(ctx context.Context, entry *models.NotificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
