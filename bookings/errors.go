package bookings

import (
	"errors"
	"fmt"

	"salonpro-bookings/models"
)

var (
	ErrTerminalState      = errors.New("booking is in a terminal status")
	ErrInvalidProgression = errors.New("status is not the next step of the workflow")
	ErrUnknownStatus      = errors.New("unknown booking status")

	ErrInvalidItem = errors.New("invalid booking item")

	ErrEmptyBooking      = errors.New("booking has no service or product items")
	ErrNonPositiveAmount = errors.New("booking total must be greater than zero")
	ErrInvalidDiscount   = errors.New("discount must be between 0 and 100 percent")

	ErrBookingNotFound      = errors.New("booking not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("transaction already recorded for booking")
	ErrLockNotObtained      = errors.New("could not obtain booking lock")
)

// TransitionError is returned when a requested status change is rejected.
// The booking is left untouched.
type TransitionError struct {
	BookingID string
	From      models.BookingStatus
	To        models.BookingStatus
	Err       error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %s: %s -> %s: %v", e.BookingID, e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// AppendError wraps a ledger write failure. The booking is not marked as
// recorded, so a later completion or sweep retries it.
type AppendError struct {
	Ref models.BookingRef
	Err error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("append transaction for %s: %v", e.Ref.Key(), e.Err)
}

func (e *AppendError) Unwrap() error {
	return e.Err
}

// IsConsolidationError reports whether err means the sale cannot be turned
// into a transaction at all.
func IsConsolidationError(err error) bool {
	return errors.Is(err, ErrEmptyBooking) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrInvalidDiscount)
}
