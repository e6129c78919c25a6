package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	TenantID  uint
	BranchID  *uint
	ServiceID uint
	Date      string

	// Painel: mostra horários de hoje sem o filtro de antecedência.
	SkipAdvanceCheck bool
}

type GetAvailability struct {
	repo   domain.Repository
	cache  domain.SlotCache
	clock  *timezone.BusinessClock
	logger *zerolog.Logger
}

func NewGetAvailability(
	repo domain.Repository,
	cache domain.SlotCache,
	clock *timezone.BusinessClock,
	logger *zerolog.Logger,
) *GetAvailability {
	return &GetAvailability{
		repo:   repo,
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.Slot, error) {

	// --------------------------------------------------
	// 1️⃣ Estabelecimento + regras
	// --------------------------------------------------
	_, c, err := loadTenant(ctx, uc.repo, uc.logger, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(ctx, uc.repo, in.TenantID, in.BranchID); err != nil {
		return nil, err
	}

	if _, err := timeutil.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrInvalidSlot("invalid_date")
	}

	// --------------------------------------------------
	// 2️⃣ Serviço
	// --------------------------------------------------
	svc, err := loadService(ctx, uc.repo, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	scope := domain.Scope{TenantID: in.TenantID, BranchID: in.BranchID}

	// --------------------------------------------------
	// 3️⃣ Bloqueio e expediente
	// --------------------------------------------------
	blocked, err := isBlocked(ctx, uc.repo, scope, in.Date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return []domain.Slot{}, nil
	}

	sch, err := activeSchedule(ctx, uc.repo, scope, in.Date)
	if err != nil {
		return nil, err
	}
	if sch == nil {
		return []domain.Slot{}, nil
	}

	// --------------------------------------------------
	// 4️⃣ Grade (cache ou cálculo)
	// --------------------------------------------------
	key := domain.SlotKey{
		TenantID:  in.TenantID,
		BranchID:  in.BranchID,
		ServiceID: svc.ID,
		Date:      in.Date,
	}

	slots, version, ok := uc.cache.GetSlots(ctx, key)
	if !ok {
		slots, err = uc.generate(ctx, scope, in.Date, sch.StartTime, sch.EndTime, svc.DurationMin, c.BookingBuffer)
		if err != nil {
			return nil, err
		}
		uc.cache.SetSlots(ctx, key, version, slots)
	}
	slots = append([]domain.Slot(nil), slots...)

	// --------------------------------------------------
	// 5️⃣ Filtro temporal (nunca cacheado)
	// --------------------------------------------------
	now := domain.MomentOf(uc.clock)
	days, _ := timeutil.DaysBetween(now.Today, in.Date)

	switch {
	case days < 0 || days > c.MaxAdvanceBookingDays:
		domain.MarkAllUnavailable(slots)
	case days == 0 && !in.SkipAdvanceCheck:
		domain.ApplyNoticeFilter(slots, now.Minutes, c.MinAdvanceBookingHours)
	}

	return slots, nil
}

func (uc *GetAvailability) generate(
	ctx context.Context,
	scope domain.Scope,
	date string,
	scheduleStart string,
	scheduleEnd string,
	duration int,
	buffer int,
) ([]domain.Slot, error) {

	window, err := domain.NewInterval(scheduleStart, scheduleEnd)
	if err != nil {
		return nil, fmt.Errorf("schedule %s-%s: %w", scheduleStart, scheduleEnd, err)
	}

	same, err := uc.repo.ListHourlyBookings(ctx, scope, date, false)
	if err != nil {
		return nil, err
	}

	// Reserva da véspera que virou a noite (inclusive walk-in fora do
	// expediente) ocupa o começo do dia, qualquer que seja a janela.
	prev, _ := timeutil.AddDays(date, -1)
	prevDay, err := uc.repo.ListHourlyBookings(ctx, scope, prev, false)
	if err != nil {
		return nil, err
	}

	occ := domain.Occupancy{
		Buffer:      buffer,
		SameDay:     intervals(uc.logger, same),
		PreviousDay: intervals(uc.logger, prevDay),
	}

	// O dia seguinte só importa quando o slot pode passar da meia-noite.
	if domain.IsFullDay(window.Start, window.End) {
		next, _ := timeutil.AddDays(date, 1)
		nextDay, err := uc.repo.ListHourlyBookings(ctx, scope, next, false)
		if err != nil {
			return nil, err
		}
		occ.NextDay = intervals(uc.logger, nextDay)
	}

	return domain.GenerateSlots(domain.SlotRequest{
		ScheduleStart: window.Start,
		ScheduleEnd:   window.End,
		Duration:      duration,
		Occupancy:     occ,
	}), nil
}
