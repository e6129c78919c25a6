package audit

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

type Event struct {
	TenantID uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	log    *zerolog.Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger *Logger, log *zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.TenantID,
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit error")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close esvazia a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

// HandleEvent é o assinante do barramento: booking.created vira "booking_created".
func (d *Dispatcher) HandleEvent(_ context.Context, e domain.Event) error {
	bookingID := e.BookingID

	d.Dispatch(Event{
		TenantID: e.TenantID,
		UserID:   e.UserID,
		Action:   actionFor(e.Type),
		Entity:   "booking",
		EntityID: &bookingID,
		Metadata: map[string]any{
			"event_id": e.ID,
			"status":   e.Status,
		},
	})
	return nil
}

func actionFor(t domain.EventType) string {
	switch t {
	case domain.EventCreated:
		return "booking_created"
	case domain.EventConfirmed:
		return "booking_confirmed"
	case domain.EventCancelled:
		return "booking_cancelled"
	case domain.EventCompleted:
		return "booking_completed"
	case domain.EventNoShow:
		return "booking_no_show"
	}
	return string(t)
}
