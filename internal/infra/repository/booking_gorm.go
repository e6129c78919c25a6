package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// notFound traduz o erro do gorm para o erro do domínio.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// branchScope: sem filial, só linhas sem filial; com filial, só as dela.
func branchScope(q *gorm.DB, branchID *uint) *gorm.DB {
	if branchID == nil {
		return q.Where("branch_id IS NULL")
	}
	return q.Where("branch_id = ?", *branchID)
}

func lockIf(q *gorm.DB, forUpdate bool) *gorm.DB {
	if forUpdate {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --------------------------------------------------
// Transação
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *BookingGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

func (r *BookingGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tenant).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

// --------------------------------------------------
// Branch
// --------------------------------------------------

func (r *BookingGormRepository) GetBranch(
	ctx context.Context,
	tenantID uint,
	branchID uint,
) (*models.Branch, error) {

	var branch models.Branch
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", branchID, tenantID).
		First(&branch).Error; err != nil {
		return nil, notFound(err)
	}
	return &branch, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *BookingGormRepository) GetSchedule(
	ctx context.Context,
	scope domain.Scope,
	dayOfWeek int,
) (*models.Schedule, error) {

	var sch models.Schedule

	if scope.BranchID != nil {
		err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND branch_id = ? AND day_of_week = ?", scope.TenantID, *scope.BranchID, dayOfWeek).
			First(&sch).Error
		if err == nil {
			return &sch, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id IS NULL AND day_of_week = ?", scope.TenantID, dayOfWeek).
		First(&sch).Error; err != nil {
		return nil, notFound(err)
	}
	return &sch, nil
}

func (r *BookingGormRepository) ListBlockedDates(
	ctx context.Context,
	scope domain.Scope,
	from string,
	to string,
) ([]string, error) {

	q := r.db.WithContext(ctx).
		Model(&models.BlockedDate{}).
		Where("tenant_id = ? AND date >= ? AND date <= ?", scope.TenantID, from, to)

	if scope.BranchID == nil {
		q = q.Where("branch_id IS NULL")
	} else {
		q = q.Where("(branch_id IS NULL OR branch_id = ?)", *scope.BranchID)
	}

	var dates []string
	if err := q.Distinct().Order("date ASC").Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// --------------------------------------------------
// Ocupação
// --------------------------------------------------

func (r *BookingGormRepository) ListHourlyBookings(
	ctx context.Context,
	scope domain.Scope,
	date string,
	forUpdate bool,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND date = ? AND check_out_date IS NULL AND status IN ?",
			scope.TenantID, date, domain.ActiveStatuses,
		)
	q = lockIf(branchScope(q, scope.BranchID), forUpdate)

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListOverlappingStays(
	ctx context.Context,
	scope domain.Scope,
	from string,
	toExclusive string,
	forUpdate bool,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND check_out_date IS NOT NULL AND date < ? AND check_out_date > ? AND status IN ?",
			scope.TenantID, toExclusive, from, domain.ActiveStatuses,
		)
	q = lockIf(branchScope(q, scope.BranchID), forUpdate)

	var bookings []models.Booking
	if err := q.Order("date ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *BookingGormRepository) UpsertCustomer(
	ctx context.Context,
	tenantID uint,
	in domain.CustomerInput,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, in.Phone).
		First(&customer).Error

	if err == nil {
		if customer.Email == "" && in.Email != "" {
			customer.Email = in.Email
			if err := r.db.WithContext(ctx).
				Model(&customer).
				Update("email", in.Email).Error; err != nil {
				return nil, err
			}
		}
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		TenantID: tenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *BookingGormRepository) TouchCustomerStats(
	ctx context.Context,
	customerID uint,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"total_bookings":  gorm.Expr("total_bookings + 1"),
			"last_booking_at": at,
		}).Error
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	tenantID uint,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Where("id = ? AND tenant_id = ?", bookingID, tenantID).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	from string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND tenant_id = ? AND status = ?", b.ID, b.TenantID, from).
		Updates(map[string]any{
			"status":       b.Status,
			"confirmed_at": b.ConfirmedAt,
			"cancelled_at": b.CancelledAt,
			"completed_at": b.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	tenantID uint,
	from string,
	toExclusive string,
) ([]models.Booking, error) {

	var bookings []models.Booking

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"tenant_id = ? AND ((date >= ? AND date < ?) OR (check_out_date IS NOT NULL AND date < ? AND check_out_date > ?))",
			tenantID, from, toExclusive, toExclusive, from,
		).
		Order("date ASC").
		Order("start_time ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) SetPaymentReference(
	ctx context.Context,
	bookingID uint,
	preferenceID string,
	url string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"payment_preference_id": preferenceID,
			"payment_url":           url,
		}).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
