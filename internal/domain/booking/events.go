package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type EventType string

const (
	EventCreated   EventType = "booking.created"
	EventConfirmed EventType = "booking.confirmed"
	EventCancelled EventType = "booking.cancelled"
	EventCompleted EventType = "booking.completed"
	EventNoShow    EventType = "booking.no_show"
)

// EventFor devolve o evento correspondente a um novo status.
func EventFor(s Status) EventType {
	switch s {
	case StatusConfirmed:
		return EventConfirmed
	case StatusCancelled:
		return EventCancelled
	case StatusCompleted:
		return EventCompleted
	case StatusNoShow:
		return EventNoShow
	}
	return EventCreated
}

type Event struct {
	ID         string
	Type       EventType
	TenantID   uint
	BookingID  uint
	Status     Status
	OccurredAt time.Time

	// UserID é quem disparou a ação no painel (nil para o fluxo público).
	UserID  *uint
	Booking *models.Booking
}

func NewEvent(t EventType, b *models.Booking, userID *uint, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		TenantID:   b.TenantID,
		BookingID:  b.ID,
		Status:     Status(b.Status),
		OccurredAt: now,
		UserID:     userID,
		Booking:    b,
	}
}

// Notifier recebe os eventos de reserva (notificações, pagamentos, auditoria).
// Falha de entrega nunca desfaz a reserva.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
