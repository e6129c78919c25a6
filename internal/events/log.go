package events

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

// LogHandler registra cada evento no log estruturado.
func LogHandler(logger *zerolog.Logger) Handler {
	return func(_ context.Context, e domain.Event) error {
		logger.Info().
			Str("event_id", e.ID).
			Str("event", string(e.Type)).
			Uint("tenant_id", e.TenantID).
			Uint("booking_id", e.BookingID).
			Str("status", string(e.Status)).
			Msg("booking event")
		return nil
	}
}
