package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

// All assina todos os tipos de evento.
const All domain.EventType = "*"

type Handler func(ctx context.Context, e domain.Event) error

// Bus distribui eventos de reserva para os assinantes, em ordem de inscrição
// e de forma síncrona. Um assinante com erro não impede os demais.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[domain.EventType][]named
}

type named struct {
	name    string
	handler Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[domain.EventType][]named)}
}

func (b *Bus) Subscribe(t domain.EventType, name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], named{name: name, handler: h})
}

func (b *Bus) Notify(ctx context.Context, e domain.Event) error {
	b.mu.RLock()
	handlers := append([]named(nil), b.subscribers[e.Type]...)
	if e.Type != All {
		handlers = append(handlers, b.subscribers[All]...)
	}
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h.handler(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}

var _ domain.Notifier = (*Bus)(nil)
