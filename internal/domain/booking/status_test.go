package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	}
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			err := CanTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, httperr.IsKind(err, httperr.KindInvalidState), "%s -> %s", from, to)
			}
		}
	}
}

func TestTransitionStampsTimes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusPending)}

	require.NoError(t, Transition(b, StatusConfirmed, now))
	assert.Equal(t, "CONFIRMED", b.Status)
	assert.Equal(t, &now, b.ConfirmedAt)

	require.NoError(t, Transition(b, StatusCompleted, now))
	assert.NotNil(t, b.CompletedAt)

	err := Transition(b, StatusCancelled, now)
	assert.Error(t, err)
	assert.Equal(t, "COMPLETED", b.Status)
	assert.Nil(t, b.CancelledAt)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(true))
	assert.Equal(t, StatusPending, InitialStatus(false))
}

func TestScheduleDay(t *testing.T) {
	assert.Equal(t, 0, ScheduleDay(time.Monday))
	assert.Equal(t, 5, ScheduleDay(time.Saturday))
	assert.Equal(t, 6, ScheduleDay(time.Sunday))
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, EventConfirmed, EventFor(StatusConfirmed))
	assert.Equal(t, EventCancelled, EventFor(StatusCancelled))
	assert.Equal(t, EventNoShow, EventFor(StatusNoShow))
}
