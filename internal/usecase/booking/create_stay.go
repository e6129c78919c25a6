package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type CreateStayInput struct {
	TenantID  uint
	BranchID  *uint
	ServiceID uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	CheckIn  string
	CheckOut string
	Notes    string
	Source   string

	// Painel: a estadia já nasce confirmada.
	SkipAdvanceCheck bool
	UserID           *uint
}

type CreateStay struct {
	repo     domain.Repository
	cache    domain.SlotCache
	locker   domain.Locker
	notifier domain.Notifier
	clock    *timezone.BusinessClock
	logger   *zerolog.Logger
}

func NewCreateStay(
	repo domain.Repository,
	cache domain.SlotCache,
	locker domain.Locker,
	notifier domain.Notifier,
	clock *timezone.BusinessClock,
	logger *zerolog.Logger,
) *CreateStay {
	return &CreateStay{
		repo:     repo,
		cache:    cache,
		locker:   locker,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *CreateStay) Execute(
	ctx context.Context,
	in CreateStayInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Admissão (intervalo, noites, dia fechado)
	// --------------------------------------------------
	_, c, err := loadTenant(ctx, uc.repo, uc.logger, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(ctx, uc.repo, in.TenantID, in.BranchID); err != nil {
		return nil, err
	}

	today := uc.clock.Today()

	nights, err := domain.AdmitDaily(c, domain.Moment{Today: today}, in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}

	svc, err := loadStayService(ctx, uc.repo, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Todas as noites precisam estar livres
	// --------------------------------------------------
	scope := domain.Scope{TenantID: in.TenantID, BranchID: in.BranchID}
	lastNight, _ := timeutil.AddDays(in.CheckOut, -1)

	days, err := computeStays(ctx, uc.repo, scope, c, today, in.CheckIn, lastNight, false)
	if err != nil {
		return nil, err
	}
	if bad := domain.UnavailableDates(days); len(bad) > 0 {
		return nil, httperr.ErrDatesUnavailable(bad)
	}

	// --------------------------------------------------
	// 3️⃣ Preço calculado no servidor
	// --------------------------------------------------
	total := svc.Price.Mul(decimal.NewFromInt(int64(nights)))

	release, err := uc.locker.Acquire(ctx, domain.LockKey(scope, "stay"))
	if err != nil {
		if errors.Is(err, domain.ErrLockBusy) {
			return nil, httperr.ErrSlotConflict("slot_busy")
		}
		return nil, err
	}
	defer release()

	now := uc.clock.Now()
	status := domain.InitialStatus(in.SkipAdvanceCheck)
	checkOut := in.CheckOut

	b := &models.Booking{
		TenantID:     in.TenantID,
		BranchID:     in.BranchID,
		ServiceID:    svc.ID,
		Date:         in.CheckIn,
		CheckOutDate: &checkOut,
		TotalNights:  nights,
		TotalPrice:   total,
		Status:       string(status),
		Source:       in.Source,
		Notes:        in.Notes,
	}
	if status == domain.StatusConfirmed {
		b.ConfirmedAt = &now
	}

	var customer *models.Customer

	// --------------------------------------------------
	// 4️⃣ Rechecagem com FOR UPDATE + gravação
	// --------------------------------------------------
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		overlapping, err := tx.ListOverlappingStays(ctx, scope, in.CheckIn, in.CheckOut, true)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
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
		return nil, err
	}

	b.Service = *svc
	b.Customer = *customer

	uc.cache.Invalidate(ctx, in.TenantID)
	notify(ctx, uc.notifier, uc.logger, domain.NewEvent(domain.EventCreated, b, in.UserID, now))

	return b, nil
}

// loadStayService aceita serviços sem duração (diária não usa DurationMin).
func loadStayService(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	svc, err := repo.GetService(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_not_found")
		}
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return svc, nil
}
