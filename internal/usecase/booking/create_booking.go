package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TenantID   uint
	BranchID   *uint
	ServiceID  uint
	EmployeeID *uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Date      string
	StartTime string
	Notes     string
	Source    string

	// Reserva feita pela equipe no painel (walk-in).
	SkipAdvanceCheck bool
	UserID           *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	cache    domain.SlotCache
	locker   domain.Locker
	notifier domain.Notifier
	clock    *timezone.BusinessClock
	logger   *zerolog.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	cache domain.SlotCache,
	locker domain.Locker,
	notifier domain.Notifier,
	clock *timezone.BusinessClock,
	logger *zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		cache:    cache,
		locker:   locker,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Estabelecimento + admissão temporal
	// --------------------------------------------------
	_, c, err := loadTenant(ctx, uc.repo, uc.logger, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(ctx, uc.repo, in.TenantID, in.BranchID); err != nil {
		return nil, err
	}

	if err := domain.AdmitHourly(c, domain.MomentOf(uc.clock), in.Date, in.StartTime, in.SkipAdvanceCheck); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Serviço
	// --------------------------------------------------
	svc, err := loadService(ctx, uc.repo, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	startMin := timeutil.MustMinutes(in.StartTime)
	endTime := timeutil.FromMinutes(startMin + svc.DurationMin)

	scope := domain.Scope{TenantID: in.TenantID, BranchID: in.BranchID}

	// --------------------------------------------------
	// 3️⃣ Expediente e bloqueio (painel pula)
	// --------------------------------------------------
	if !in.SkipAdvanceCheck {
		if err := uc.checkSchedule(ctx, scope, in.Date, startMin, svc.DurationMin); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 4️⃣ Checagem autoritativa + gravação
	// --------------------------------------------------
	release, err := uc.locker.Acquire(ctx, domain.LockKey(scope, in.Date))
	if err != nil {
		if errors.Is(err, domain.ErrLockBusy) {
			return nil, httperr.ErrSlotConflict("slot_busy")
		}
		return nil, err
	}
	defer release()

	now := uc.clock.Now()
	status := domain.InitialStatus(in.SkipAdvanceCheck)

	b := &models.Booking{
		TenantID:   in.TenantID,
		BranchID:   in.BranchID,
		ServiceID:  svc.ID,
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    endTime,
		TotalPrice: svc.Price,
		Status:     string(status),
		Source:     in.Source,
		Notes:      in.Notes,
	}
	if status == domain.StatusConfirmed {
		b.ConfirmedAt = &now
	}

	var customer *models.Customer

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		occ, err := uc.lockedOccupancy(ctx, tx, scope, in.Date, c.BookingBuffer)
		if err != nil {
			return err
		}
		if occ.Collides(startMin, svc.DurationMin, true) {
			return httperr.ErrSlotConflict("time_conflict")
		}

		customer, err = tx.UpsertCustomer(ctx, in.TenantID, domain.CustomerInput{
			Name:  in.CustomerName,
			Phone: in.CustomerPhone,
			Email: in.CustomerEmail,
		})
		if err != nil {
			return err
		}
		if err := tx.TouchCustomerStats(ctx, customer.ID, now); err != nil {
			return err
		}

		b.CustomerID = customer.ID
		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		if httperr.IsStorageConflict(err) {
			return nil, httperr.ErrSlotConflict("time_conflict")
		}
		return nil, err
	}

	b.Service = *svc
	b.Customer = *customer

	// --------------------------------------------------
	// 5️⃣ Cache + evento
	// --------------------------------------------------
	uc.cache.Invalidate(ctx, in.TenantID)
	notify(ctx, uc.notifier, uc.logger, domain.NewEvent(domain.EventCreated, b, in.UserID, now))

	return b, nil
}

func (uc *CreateBooking) checkSchedule(
	ctx context.Context,
	scope domain.Scope,
	date string,
	startMin int,
	duration int,
) error {

	blocked, err := isBlocked(ctx, uc.repo, scope, date)
	if err != nil {
		return err
	}
	if blocked {
		return httperr.ErrInvalidSlot("date_blocked")
	}

	sch, err := activeSchedule(ctx, uc.repo, scope, date)
	if err != nil {
		return err
	}
	if sch == nil {
		return httperr.ErrInvalidSlot("no_schedule")
	}

	window, err := domain.NewInterval(sch.StartTime, sch.EndTime)
	if err != nil {
		return httperr.ErrInvalidSlot("no_schedule")
	}

	if startMin < window.Start || startMin > window.End {
		return httperr.ErrInvalidSlot("outside_schedule")
	}
	if !domain.IsFullDay(window.Start, window.End) && startMin+duration > window.End {
		return httperr.ErrInvalidSlot("outside_schedule")
	}

	return nil
}

// lockedOccupancy lê o dia e os vizinhos com FOR UPDATE dentro da transação.
func (uc *CreateBooking) lockedOccupancy(
	ctx context.Context,
	tx domain.Repository,
	scope domain.Scope,
	date string,
	buffer int,
) (domain.Occupancy, error) {

	next, _ := timeutil.AddDays(date, 1)
	prev, _ := timeutil.AddDays(date, -1)

	same, err := tx.ListHourlyBookings(ctx, scope, date, true)
	if err != nil {
		return domain.Occupancy{}, err
	}
	nextDay, err := tx.ListHourlyBookings(ctx, scope, next, true)
	if err != nil {
		return domain.Occupancy{}, err
	}
	prevDay, err := tx.ListHourlyBookings(ctx, scope, prev, true)
	if err != nil {
		return domain.Occupancy{}, err
	}

	return domain.Occupancy{
		Buffer:      buffer,
		SameDay:     intervals(uc.logger, same),
		NextDay:     intervals(uc.logger, nextDay),
		PreviousDay: intervals(uc.logger, prevDay),
	}, nil
}
