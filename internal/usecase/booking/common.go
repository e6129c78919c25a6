package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// loadTenant busca o estabelecimento e resolve as regras, caindo nos padrões
// (com aviso no log) quando o JSON de configurações está quebrado.
func loadTenant(
	ctx context.Context,
	repo domain.Repository,
	logger *zerolog.Logger,
	tenantID uint,
) (*models.Tenant, domain.TenantConstraints, error) {

	tenant, err := repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.TenantConstraints{}, httperr.ErrNotFound("tenant_not_found")
		}
		return nil, domain.TenantConstraints{}, err
	}

	c, err := domain.ParseConstraints(tenant.Settings)
	if err != nil {
		logger.Warn().Err(err).Uint("tenant_id", tenant.ID).Msg("invalid tenant settings, using defaults")
	}

	return tenant, c, nil
}

// checkBranch garante que a filial pedida existe, está ativa e pertence ao
// estabelecimento. Sem filial, vale a agenda do estabelecimento.
func checkBranch(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	branchID *uint,
) error {
	if branchID == nil {
		return nil
	}

	branch, err := repo.GetBranch(ctx, tenantID, *branchID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrNotFound("branch_not_found")
		}
		return err
	}
	if !branch.Active {
		return httperr.ErrNotFound("branch_not_found")
	}
	return nil
}

func loadService(
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
	if !svc.Active || svc.DurationMin < 1 {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return svc, nil
}

// activeSchedule devolve nil quando o dia não tem expediente ativo.
func activeSchedule(
	ctx context.Context,
	repo domain.Repository,
	scope domain.Scope,
	date string,
) (*models.Schedule, error) {

	wd, err := timeutil.Weekday(date)
	if err != nil {
		return nil, httperr.ErrInvalidSlot("invalid_date")
	}

	sch, err := repo.GetSchedule(ctx, scope, domain.ScheduleDay(wd))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !sch.IsActive {
		return nil, nil
	}
	return sch, nil
}

func isBlocked(
	ctx context.Context,
	repo domain.Repository,
	scope domain.Scope,
	date string,
) (bool, error) {
	dates, err := repo.ListBlockedDates(ctx, scope, date, date)
	if err != nil {
		return false, err
	}
	return len(dates) > 0, nil
}

// intervals converte reservas horárias em minutos, ignorando linhas com hora inválida.
func intervals(logger *zerolog.Logger, bookings []models.Booking) []domain.Interval {
	out := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := domain.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			logger.Warn().Err(err).Uint("booking_id", b.ID).Msg("skipping booking with invalid time")
			continue
		}
		out = append(out, iv)
	}
	return out
}

func stays(bookings []models.Booking) []domain.Stay {
	out := make([]domain.Stay, 0, len(bookings))
	for _, b := range bookings {
		if b.CheckOutDate == nil {
			continue
		}
		out = append(out, domain.Stay{CheckIn: b.Date, CheckOut: *b.CheckOutDate})
	}
	return out
}

// notify entrega o evento; falha só é logada, a reserva já está gravada.
func notify(
	ctx context.Context,
	notifier domain.Notifier,
	logger *zerolog.Logger,
	ev domain.Event,
) {
	if err := notifier.Notify(ctx, ev); err != nil {
		logger.Error().Err(err).
			Str("event", string(ev.Type)).
			Uint("booking_id", ev.BookingID).
			Msg("booking event delivery failed")
	}
}
