package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type UpdateBookingStatus struct {
	repo     domain.Repository
	cache    domain.SlotCache
	notifier domain.Notifier
	clock    *timezone.BusinessClock
	logger   *zerolog.Logger
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	cache domain.SlotCache,
	notifier domain.Notifier,
	clock *timezone.BusinessClock,
	logger *zerolog.Logger,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	tenantID uint,
	bookingID uint,
	to domain.Status,
	userID *uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking_not_found")
		}
		return nil, err
	}

	now := uc.clock.Now()
	from := b.Status
	if err := domain.Transition(b, to, now); err != nil {
		return nil, err
	}

	// Grava só se ninguém mudou o status desde a leitura; quem perde a corrida
	// recebe invalid_transition, como se tivesse lido o status novo.
	updated, err := uc.repo.UpdateBookingStatus(ctx, b, from)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, httperr.ErrInvalidState("invalid_transition")
	}

	// Cancelado/no-show libera agenda.
	if !to.IsActive() {
		uc.cache.Invalidate(ctx, tenantID)
	}

	notify(ctx, uc.notifier, uc.logger, domain.NewEvent(domain.EventFor(to), b, userID, now))

	return b, nil
}
