package bookings

import (
	"testing"
	"time"

	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []models.BookingStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusArrived,
	models.StatusServiceStarted,
	models.StatusCompleted,
	models.StatusCancelled,
	models.StatusNoShow,
}

func bookingAt(t *testing.T, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{ID: uuid.New(), Kind: models.KindAppointment}
	appendEvent(b, models.StatusPending, time.Now(), "test")
	if status == models.StatusPending {
		return b
	}
	if status == models.StatusCancelled || status == models.StatusNoShow {
		require.NoError(t, Apply(b, status, time.Now(), "test"))
		return b
	}
	for b.CurrentStatus() != status {
		next, ok := NextStatus(b.CurrentStatus())
		require.True(t, ok)
		require.NoError(t, Apply(b, next, time.Now(), "test"))
	}
	return b
}

func TestApply_WalksForwardPath(t *testing.T) {
	b := bookingAt(t, models.StatusPending)

	for _, to := range progression[1:] {
		require.NoError(t, Apply(b, to, time.Now(), "staff-1"))
	}

	assert.Equal(t, models.StatusCompleted, b.CurrentStatus())
	assert.Equal(t, models.StatusCompleted, b.Status)
	require.Len(t, b.StatusHistory, len(progression))
	for i, ev := range b.StatusHistory {
		assert.Equal(t, i+1, ev.Seq)
		assert.Equal(t, progression[i], ev.Status)
	}
	assert.Equal(t, "staff-1", b.StatusHistory[len(b.StatusHistory)-1].UpdatedBy)
}

func TestApply_RejectsSkippingSteps(t *testing.T) {
	b := bookingAt(t, models.StatusPending)

	err := Apply(b, models.StatusServiceStarted, time.Now(), "staff-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidProgression)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusPending, te.From)
	assert.Equal(t, models.StatusServiceStarted, te.To)
	assert.Equal(t, models.StatusPending, b.CurrentStatus())
	assert.Len(t, b.StatusHistory, 1)
}

func TestApply_RejectsLeavingCompleted(t *testing.T) {
	b := bookingAt(t, models.StatusCompleted)
	before := len(b.StatusHistory)

	err := Apply(b, models.StatusCancelled, time.Now(), "staff-1")

	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, models.StatusCompleted, b.CurrentStatus())
	assert.Len(t, b.StatusHistory, before)
}

func TestCanTransition_TerminalStatusesAreLocked(t *testing.T) {
	for _, from := range []models.BookingStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow} {
		for _, to := range allStatuses {
			assert.ErrorIs(t, CanTransition(from, to), ErrTerminalState, "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_OnlyForwardByOneOrSideBranch(t *testing.T) {
	for i, from := range progression[:len(progression)-1] {
		for j, to := range progression {
			err := CanTransition(from, to)
			if j == i+1 {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidProgression, "%s -> %s", from, to)
			}
		}
		assert.NoError(t, CanTransition(from, models.StatusCancelled))
		assert.NoError(t, CanTransition(from, models.StatusNoShow))
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.ErrorIs(t, CanTransition(models.StatusPending, "teleported"), ErrUnknownStatus)
	assert.False(t, IsKnownStatus("teleported"))
	assert.True(t, IsKnownStatus(models.StatusNoShow))
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(models.StatusArrived)
	assert.True(t, ok)
	assert.Equal(t, models.StatusServiceStarted, next)

	_, ok = NextStatus(models.StatusCompleted)
	assert.False(t, ok)
	_, ok = NextStatus(models.StatusCancelled)
	assert.False(t, ok)
}
