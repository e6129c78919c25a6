package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/dto"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// ======================================================
// Por dia
// ======================================================

type ListBookingsByDate struct {
	repo domain.Repository
}

func NewListBookingsByDate(
	repo domain.Repository,
) *ListBookingsByDate {
	return &ListBookingsByDate{
		repo: repo,
	}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	tenantID uint,
	date string,
) ([]dto.BookingListDTO, error) {

	next, err := timeutil.AddDays(date, 1)
	if err != nil {
		return nil, httperr.ErrInvalidSlot("invalid_date")
	}

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, tenantID, date, next)
	if err != nil {
		return nil, err
	}

	return dto.NewBookingList(bookings), nil
}

// ======================================================
// Por mês
// ======================================================

type ListBookingsByMonth struct {
	repo domain.Repository
}

func NewListBookingsByMonth(
	repo domain.Repository,
) *ListBookingsByMonth {
	return &ListBookingsByMonth{
		repo: repo,
	}
}

func (uc *ListBookingsByMonth) Execute(
	ctx context.Context,
	tenantID uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	bookings, err := uc.repo.ListBookingsForPeriod(
		ctx,
		tenantID,
		timeutil.FormatDate(start),
		timeutil.FormatDate(end),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewBookingList(bookings), nil
}
