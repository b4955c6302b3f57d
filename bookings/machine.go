package bookings

import (
	"time"

	"salonpro-bookings/models"

	"github.com/google/uuid"
)

// progression is the only forward path through the workflow. Cancelled and
// no-show are side branches off any non-terminal step.
var progression = []models.BookingStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusArrived,
	models.StatusServiceStarted,
	models.StatusCompleted,
}

// IsKnownStatus reports whether s is part of the workflow.
func IsKnownStatus(s models.BookingStatus) bool {
	switch s {
	case models.StatusCancelled, models.StatusNoShow:
		return true
	}
	for _, p := range progression {
		if p == s {
			return true
		}
	}
	return false
}

// NextStatus returns the step that follows s on the forward path.
func NextStatus(s models.BookingStatus) (models.BookingStatus, bool) {
	for i := 0; i < len(progression)-1; i++ {
		if progression[i] == s {
			return progression[i+1], true
		}
	}
	return "", false
}

// CanTransition validates from -> to without touching any booking.
func CanTransition(from, to models.BookingStatus) error {
	if from.IsTerminal() {
		return ErrTerminalState
	}
	if !IsKnownStatus(to) {
		return ErrUnknownStatus
	}
	if to == models.StatusCancelled || to == models.StatusNoShow {
		return nil
	}
	if next, ok := NextStatus(from); ok && next == to {
		return nil
	}
	return ErrInvalidProgression
}

// Apply moves b to status to, appending a history event. On rejection b is
// unchanged and a *TransitionError is returned.
func Apply(b *models.Booking, to models.BookingStatus, at time.Time, updatedBy string) error {
	from := b.CurrentStatus()
	if err := CanTransition(from, to); err != nil {
		return &TransitionError{BookingID: b.ID.String(), From: from, To: to, Err: err}
	}
	appendEvent(b, to, at, updatedBy)
	return nil
}

func appendEvent(b *models.Booking, status models.BookingStatus, at time.Time, updatedBy string) {
	b.StatusHistory = append(b.StatusHistory, models.StatusEvent{
		ID:        uuid.New(),
		BookingID: b.ID,
		Seq:       len(b.StatusHistory) + 1,
		Status:    status,
		Timestamp: at,
		UpdatedBy: updatedBy,
	})
	b.Status = status
}
