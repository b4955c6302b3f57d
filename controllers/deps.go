package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"
	"salonpro-bookings/store"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingEngine is the part of bookings.Engine the HTTP layer drives.
type BookingEngine interface {
	CreateBooking(ctx context.Context, nb bookings.NewBooking) (*models.Booking, error)
	Transition(ctx context.Context, bookingID string, to models.BookingStatus, at time.Time, updatedBy string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string, req bookings.CompletionRequest) (*models.Booking, *models.Transaction, error)
	Checkout(ctx context.Context, cart bookings.CartCheckout) (*models.Booking, *models.Transaction, error)
}

type CustomerStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
}

type CatalogStore interface {
	CreateCatalogItem(ctx context.Context, item *models.CatalogItem) error
	ListCatalogItems(ctx context.Context, salonID uuid.UUID) ([]models.CatalogItem, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// salonFromContext returns the salon of the authenticated user, responding
// with an error when it is missing.
func salonFromContext(c *gin.Context) (uuid.UUID, bool) {
	salonID, exists := utils.ContextString(c, "salonId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return uuid.Nil, false
	}

	salonUUID, err := uuid.Parse(salonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return uuid.Nil, false
	}
	return salonUUID, true
}

func userFromContext(c *gin.Context) string {
	userID, _ := utils.ContextString(c, "userId")
	return userID
}

// respondWithEngineError maps booking engine failures onto HTTP statuses.
func respondWithEngineError(c *gin.Context, err error) {
	var transitionErr *bookings.TransitionError
	var appendErr *bookings.AppendError
	switch {
	case errors.As(err, &transitionErr):
		utils.RespondWithError(c, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, bookings.ErrInvalidItem):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case bookings.IsConsolidationError(err):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Sale cannot be recorded: "+err.Error())
	case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrTransactionNotFound), errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.As(err, &appendErr), errors.Is(err, bookings.ErrLockNotObtained):
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Could not record the sale right now, please try again")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
