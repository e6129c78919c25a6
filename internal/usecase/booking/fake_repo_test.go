package booking

import (
	"context"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// ======================================================
// Repositório em memória
// ======================================================

type fakeRepo struct {
	mu sync.Mutex

	tenants   map[uint]*models.Tenant
	branches  map[uint]*models.Branch
	services  map[uint]*models.Service
	schedules []models.Schedule
	blocked   []models.BlockedDate
	customers []*models.Customer
	bookings  []*models.Booking

	nextID  uint
	lockLog []string

	// ganchos para simular outra requisição no meio da leitura
	onListHourly func()
	onGetBooking func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenants:  map[uint]*models.Tenant{},
		branches: map[uint]*models.Branch{},
		services: map[uint]*models.Service{},
		nextID:   100,
	}
}

func (r *fakeRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) GetBranch(ctx context.Context, tenantID, branchID uint) (*models.Branch, error) {
	if b, ok := r.branches[branchID]; ok && b.TenantID == tenantID {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) GetService(ctx context.Context, tenantID, serviceID uint) (*models.Service, error) {
	if s, ok := r.services[serviceID]; ok && s.TenantID == tenantID {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrRecordNotFound
}

func sameBranch(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeRepo) GetSchedule(ctx context.Context, scope domain.Scope, dow int) (*models.Schedule, error) {
	if scope.BranchID != nil {
		for i := range r.schedules {
			s := r.schedules[i]
			if s.TenantID == scope.TenantID && sameBranch(s.BranchID, scope.BranchID) && s.DayOfWeek == dow {
				return &s, nil
			}
		}
	}
	for i := range r.schedules {
		s := r.schedules[i]
		if s.TenantID == scope.TenantID && s.BranchID == nil && s.DayOfWeek == dow {
			return &s, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) ListBlockedDates(ctx context.Context, scope domain.Scope, from, to string) ([]string, error) {
	var out []string
	for _, b := range r.blocked {
		if b.TenantID != scope.TenantID || b.Date < from || b.Date > to {
			continue
		}
		if b.BranchID == nil || sameBranch(b.BranchID, scope.BranchID) {
			out = append(out, b.Date)
		}
	}
	return out, nil
}

func (r *fakeRepo) active(b *models.Booking, scope domain.Scope) bool {
	return b.TenantID == scope.TenantID &&
		sameBranch(b.BranchID, scope.BranchID) &&
		domain.Status(b.Status).IsActive()
}

func (r *fakeRepo) ListHourlyBookings(ctx context.Context, scope domain.Scope, date string, forUpdate bool) ([]models.Booking, error) {
	if forUpdate {
		r.lockLog = append(r.lockLog, "hourly:"+date)
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if r.active(b, scope) && b.CheckOutDate == nil && b.Date == date {
			out = append(out, *b)
		}
	}
	if hook := r.onListHourly; hook != nil {
		r.onListHourly = nil
		hook()
	}
	return out, nil
}

func (r *fakeRepo) ListOverlappingStays(ctx context.Context, scope domain.Scope, from, toExclusive string, forUpdate bool) ([]models.Booking, error) {
	if forUpdate {
		r.lockLog = append(r.lockLog, "stay:"+from)
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if r.active(b, scope) && b.CheckOutDate != nil && b.Date < toExclusive && *b.CheckOutDate > from {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpsertCustomer(ctx context.Context, tenantID uint, in domain.CustomerInput) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.TenantID == tenantID && c.Phone == in.Phone {
			return c, nil
		}
	}
	r.nextID++
	c := &models.Customer{ID: r.nextID, TenantID: tenantID, Name: in.Name, Phone: in.Phone, Email: in.Email}
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *fakeRepo) TouchCustomerStats(ctx context.Context, customerID uint, at time.Time) error {
	for _, c := range r.customers {
		if c.ID == customerID {
			c.TotalBookings++
			c.LastBookingAt = &at
		}
	}
	return nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *fakeRepo) GetBooking(ctx context.Context, tenantID, bookingID uint) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == bookingID && b.TenantID == tenantID {
			cp := *b
			if hook := r.onGetBooking; hook != nil {
				r.onGetBooking = nil
				hook()
			}
			return &cp, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) UpdateBookingStatus(ctx context.Context, b *models.Booking, from string) (bool, error) {
	for i, cur := range r.bookings {
		if cur.ID == b.ID && cur.TenantID == b.TenantID {
			if cur.Status != from {
				return false, nil
			}
			cp := *b
			r.bookings[i] = &cp
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListBookingsForPeriod(ctx context.Context, tenantID uint, from, toExclusive string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TenantID != tenantID {
			continue
		}
		inRange := b.Date >= from && b.Date < toExclusive
		spans := b.CheckOutDate != nil && b.Date < toExclusive && *b.CheckOutDate > from
		if inRange || spans {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeRepo) SetPaymentReference(ctx context.Context, bookingID uint, preferenceID, url string) error {
	return nil
}

// --------------------------------------------------
// helpers de cenário
// --------------------------------------------------

const tenantID uint = 1

func (r *fakeRepo) withTenant(settings string) *fakeRepo {
	r.tenants[tenantID] = &models.Tenant{ID: tenantID, Name: "Studio", Slug: "studio", Settings: datatypes.JSON(settings)}
	return r
}

func (r *fakeRepo) withBranch(tenant, id uint) *fakeRepo {
	r.branches[id] = &models.Branch{ID: id, TenantID: tenant, Name: "Filial", Active: true}
	return r
}

func (r *fakeRepo) withService(id uint, duration int, price string) *fakeRepo {
	r.services[id] = &models.Service{
		ID: id, TenantID: tenantID, Name: "Serviço", DurationMin: duration,
		Price: decimal.RequireFromString(price), Active: true,
	}
	return r
}

// withWeek cadastra o mesmo expediente em todos os dias.
func (r *fakeRepo) withWeek(start, end string) *fakeRepo {
	for d := 0; d < 7; d++ {
		r.schedules = append(r.schedules, models.Schedule{
			TenantID: tenantID, DayOfWeek: d, StartTime: start, EndTime: end, IsActive: true,
		})
	}
	return r
}

func (r *fakeRepo) withHourly(date, start, end, status string) *fakeRepo {
	r.nextID++
	r.bookings = append(r.bookings, &models.Booking{
		ID: r.nextID, TenantID: tenantID, ServiceID: 1, Date: date, StartTime: start, EndTime: end, Status: status,
	})
	return r
}

func (r *fakeRepo) withStay(checkIn, checkOut, status string) *fakeRepo {
	r.nextID++
	out := checkOut
	r.bookings = append(r.bookings, &models.Booking{
		ID: r.nextID, TenantID: tenantID, ServiceID: 1, Date: checkIn, CheckOutDate: &out, Status: status,
	})
	return r
}

// ======================================================
// Colaboradores
// ======================================================

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, e domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// memCache versiona por estabelecimento como o cache redis: gravar com a
// versão lida antes de uma invalidação não ressuscita a grade velha.
type memCache struct {
	data        map[string][]domain.Slot
	version     int
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]domain.Slot{}}
}

func (c *memCache) GetSlots(ctx context.Context, k domain.SlotKey) ([]domain.Slot, string, bool) {
	v := strconv.Itoa(c.version)
	s, ok := c.data[v+":"+k.String()]
	return s, v, ok
}

func (c *memCache) SetSlots(ctx context.Context, k domain.SlotKey, version string, slots []domain.Slot) {
	c.data[version+":"+k.String()] = slots
}

func (c *memCache) Invalidate(ctx context.Context, tenantID uint) {
	c.version++
	c.invalidated++
}

func clockAt(t *time.Time) *timezone.BusinessClock {
	return timezone.NewBusinessClock(timezone.ClockFunc(func() time.Time { return *t }), timezone.DefaultOffsetHours)
}

// businessTime monta um instante em UTC-3.
func businessTime(date, hm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, timezone.FixedLocation(timezone.DefaultOffsetHours))
	if err != nil {
		panic(err)
	}
	return t
}

func nopLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
