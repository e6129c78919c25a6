package booking

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type StayAvailabilityInput struct {
	TenantID uint
	BranchID *uint
	From     string
	To       string
}

type GetStayAvailability struct {
	repo   domain.Repository
	clock  *timezone.BusinessClock
	logger *zerolog.Logger
}

func NewGetStayAvailability(
	repo domain.Repository,
	clock *timezone.BusinessClock,
	logger *zerolog.Logger,
) *GetStayAvailability {
	return &GetStayAvailability{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

func (uc *GetStayAvailability) Execute(
	ctx context.Context,
	in StayAvailabilityInput,
) ([]domain.DateAvailability, error) {

	_, c, err := loadTenant(ctx, uc.repo, uc.logger, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(ctx, uc.repo, in.TenantID, in.BranchID); err != nil {
		return nil, err
	}
	if err := domain.ValidateBrowseRange(in.From, in.To); err != nil {
		return nil, err
	}

	return computeStays(ctx, uc.repo, domain.Scope{TenantID: in.TenantID, BranchID: in.BranchID},
		c, uc.clock.Today(), in.From, in.To, false)
}

// computeStays carrega bloqueios e estadias que cruzam [from, to] e calcula cada dia.
// O teto de dias da consulta fica com quem chama.
func computeStays(
	ctx context.Context,
	repo domain.Repository,
	scope domain.Scope,
	c domain.TenantConstraints,
	today string,
	from string,
	to string,
	forUpdate bool,
) ([]domain.DateAvailability, error) {

	if err := domain.ValidateStayRange(from, to); err != nil {
		return nil, err
	}
	toExclusive, _ := timeutil.AddDays(to, 1)

	blocked, err := repo.ListBlockedDates(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	overlapping, err := repo.ListOverlappingStays(ctx, scope, from, toExclusive, forUpdate)
	if err != nil {
		return nil, err
	}

	return domain.ComputeStayAvailability(domain.StayRequest{
		From:        from,
		To:          to,
		Today:       today,
		Constraints: c,
		Blocked:     blocked,
		Stays:       stays(overlapping),
	})
}
