package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// ErrRecordNotFound é devolvido pelo repositório quando a linha não existe.
var ErrRecordNotFound = errors.New("record not found")

// Scope identifica a agenda: estabelecimento e, opcionalmente, filial.
type Scope struct {
	TenantID uint
	BranchID *uint
}

type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

type Repository interface {
	// -------- Transação --------
	WithinTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	GetTenantBySlug(
		ctx context.Context,
		slug string,
	) (*models.Tenant, error)

	// -------- Branch --------
	GetBranch(
		ctx context.Context,
		tenantID uint,
		branchID uint,
	) (*models.Branch, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Agenda --------
	// GetSchedule busca o expediente da filial e, sem linha própria, o do estabelecimento.
	GetSchedule(
		ctx context.Context,
		scope Scope,
		dayOfWeek int,
	) (*models.Schedule, error)

	// ListBlockedDates inclui bloqueios do estabelecimento e da filial.
	ListBlockedDates(
		ctx context.Context,
		scope Scope,
		from string,
		to string,
	) ([]string, error)

	// -------- Ocupação --------
	ListHourlyBookings(
		ctx context.Context,
		scope Scope,
		date string,
		forUpdate bool,
	) ([]models.Booking, error)

	// ListOverlappingStays devolve diárias ativas com date < toExclusive e check_out_date > from.
	ListOverlappingStays(
		ctx context.Context,
		scope Scope,
		from string,
		toExclusive string,
		forUpdate bool,
	) ([]models.Booking, error)

	// -------- Customer --------
	UpsertCustomer(
		ctx context.Context,
		tenantID uint,
		in CustomerInput,
	) (*models.Customer, error)

	TouchCustomerStats(
		ctx context.Context,
		customerID uint,
		at time.Time,
	) error

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		tenantID uint,
		bookingID uint,
	) (*models.Booking, error)

	// UpdateBookingStatus grava a transição só se o status no banco ainda for
	// `from`; devolve false quando outra requisição mudou a reserva antes.
	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		from string,
	) (bool, error)

	// ListBookingsForPeriod inclui diárias que atravessam o período.
	ListBookingsForPeriod(
		ctx context.Context,
		tenantID uint,
		from string,
		toExclusive string,
	) ([]models.Booking, error)

	SetPaymentReference(
		ctx context.Context,
		bookingID uint,
		preferenceID string,
		url string,
	) error
}
