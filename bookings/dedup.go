package bookings

import (
	"context"

	"salonpro-bookings/models"
)

// LedgerView is the read side of the ledger needed to decide on a candidate.
type LedgerView interface {
	FindTransactions(ctx context.Context, ref models.BookingRef) ([]models.Transaction, error)
}

// ShouldRecord reports whether candidate may be appended: only when the
// ledger holds nothing yet for its booking ref. view must be read at decision
// time, under the booking's lock, never from a value captured earlier.
func ShouldRecord(ctx context.Context, view LedgerView, candidate *models.Transaction) (bool, error) {
	existing, err := view.FindTransactions(ctx, candidate.BookingRef)
	if err != nil {
		return false, err
	}
	return len(existing) == 0, nil
}
