package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func slotMap(slots []domain.Slot) map[string]bool {
	out := map[string]bool{}
	for _, s := range slots {
		out[s.Time] = s.Available
	}
	return out
}

func newGetAvailability(repo *fakeRepo, now string) *GetAvailability {
	t := businessTime(now[:10], now[11:])
	return NewGetAvailability(repo, domain.NopCache{}, clockAt(&t), nopLogger())
}

func TestGetAvailabilityRegularDay(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)

	require.Len(t, slots, 18)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "17:30", slots[17].Time)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGetAvailabilityTodayRespectsNotice(t *testing.T) {
	repo := newFakeRepo().withTenant(`{"minAdvanceBookingHours": 1}`).withService(1, 30, "50").withWeek("09:00", "18:00")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-01"})
	require.NoError(t, err)

	got := slotMap(slots)
	assert.False(t, got["09:00"])
	assert.False(t, got["10:30"])
	assert.True(t, got["11:00"])

	// painel enxerga o dia inteiro
	slots, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-01", SkipAdvanceCheck: true})
	require.NoError(t, err)
	assert.True(t, slotMap(slots)["09:00"])
}

func TestGetAvailabilityOutsideWindowAllUnavailable(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "10:00")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	for _, date := range []string{"2023-12-31", "2024-02-01"} {
		slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: date})
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		for _, s := range slots {
			assert.False(t, s.Available, date)
		}
	}
}

func TestGetAvailabilityEmptyWhenClosed(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Empty(t, slots)

	repo.withWeek("09:00", "18:00")
	for i := range repo.schedules {
		repo.schedules[i].IsActive = false
	}
	slots, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailabilityBlockedDate(t *testing.T) {
	branch := uint(7)
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00").withBranch(tenantID, branch)
	repo.blocked = append(repo.blocked, models.BlockedDate{TenantID: tenantID, Date: "2024-01-10"})
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	// bloqueio do estabelecimento vale para todas as filiais
	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, BranchID: &branch, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailabilityCrossMidnight(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 90, "80").withWeek("00:00", "23:59").
		withHourly("2024-01-10", "22:00", "01:00", "CONFIRMED")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)

	got := slotMap(slots)
	assert.False(t, got["23:30"])
	assert.False(t, got["21:00"])
	assert.True(t, got["06:00"])

	// a reserva que virou a noite ocupa o início do dia seguinte
	slots, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-11"})
	require.NoError(t, err)
	got = slotMap(slots)
	assert.False(t, got["00:30"])
	assert.True(t, got["01:00"])
}

func TestGetAvailabilityIgnoresInactiveBookings(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00").
		withHourly("2024-01-10", "09:00", "09:30", "CANCELLED").
		withHourly("2024-01-10", "10:00", "10:30", "PENDING")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)

	got := slotMap(slots)
	assert.True(t, got["09:00"])
	assert.False(t, got["10:00"])
}

func TestGetAvailabilityMalformedSettingsUseDefaults(t *testing.T) {
	repo := newFakeRepo().withTenant(`{"bookingBuffer":`).withService(1, 30, "50").withWeek("09:00", "18:00")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Len(t, slots, 18)
}

func TestGetAvailabilityUsesCache(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00")
	now := businessTime("2024-01-01", "10:00")
	cache := newMemCache()
	uc := NewGetAvailability(repo, cache, clockAt(&now), nopLogger())

	in := AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	// reserva gravada sem invalidar: o cache ainda responde
	repo.withHourly("2024-01-10", "09:00", "09:30", "CONFIRMED")
	slots, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, slotMap(slots)["09:00"])

	cache.Invalidate(context.Background(), tenantID)
	slots, err = uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, slotMap(slots)["09:00"])
}

func TestGetAvailabilityErrors(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	_, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: 99, ServiceID: 1, Date: "2024-01-10"})
	assert.True(t, httperr.IsBusiness(err, "tenant_not_found"))

	_, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 9, Date: "2024-01-10"})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	_, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "10/01/2024"})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	unknown := uint(999)
	_, err = uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, BranchID: &unknown, ServiceID: 1, Date: "2024-01-10"})
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestGetAvailabilitySeesBookingsMadeWhileComputing(t *testing.T) {
	repo := newFakeRepo().withTenant(`{}`).withService(1, 30, "50").withWeek("09:00", "18:00")
	now := businessTime("2024-01-01", "10:00")
	cache := newMemCache()
	uc := NewGetAvailability(repo, cache, clockAt(&now), nopLogger())

	// a reserva entra e invalida o cache enquanto a grade é montada
	repo.onListHourly = func() {
		repo.withHourly("2024-01-02", "09:00", "09:30", "CONFIRMED")
		cache.Invalidate(context.Background(), tenantID)
	}

	in := AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-02"}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	slots, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, slotMap(slots)["09:00"])
}

func TestGetStayAvailability(t *testing.T) {
	repo := newFakeRepo().withTenant(`{"bookingMode":"daily"}`).
		withStay("2024-03-10", "2024-03-13", "CONFIRMED").
		withStay("2024-03-14", "2024-03-16", "CANCELLED")
	now := businessTime("2024-03-01", "12:00")
	uc := NewGetStayAvailability(repo, clockAt(&now), nopLogger())

	days, err := uc.Execute(context.Background(), StayAvailabilityInput{TenantID: tenantID, From: "2024-03-10", To: "2024-03-15"})
	require.NoError(t, err)

	require.Len(t, days, 6)
	assert.Equal(t, []string{"2024-03-10", "2024-03-11", "2024-03-12"}, domain.UnavailableDates(days))

	_, err = uc.Execute(context.Background(), StayAvailabilityInput{TenantID: tenantID, From: "2024-03-10", To: "2024-09-10"})
	assert.True(t, httperr.IsBusiness(err, "range_too_large"))

	other := uint(3)
	repo.withBranch(2, other)
	_, err = uc.Execute(context.Background(), StayAvailabilityInput{TenantID: tenantID, BranchID: &other, From: "2024-03-10", To: "2024-03-15"})
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestGetAvailabilityPreviousDayWalkInOnRegularSchedule(t *testing.T) {
	// walk-in de 23:00 a 01:30 gravado na véspera, fora do expediente normal
	repo := newFakeRepo().withTenant(`{}`).withService(1, 60, "50").withWeek("00:00", "12:00").
		withHourly("2024-01-09", "23:00", "01:30", "CONFIRMED")
	uc := newGetAvailability(repo, "2024-01-01 10:00")

	slots, err := uc.Execute(context.Background(), AvailabilityInput{TenantID: tenantID, ServiceID: 1, Date: "2024-01-10"})
	require.NoError(t, err)

	got := slotMap(slots)
	assert.False(t, got["00:00"])
	assert.False(t, got["01:00"])
	assert.True(t, got["01:30"])

	// a criação concorda com a grade
	f := newCreateFixture(repo, "2024-01-01 10:00")
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
	_, err = f.uc.Execute(context.Background(), hourlyInput("2024-01-10", "01:00"))
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	_, err = f.uc.Execute(context.Background(), hourlyInput("2024-01-10", "01:30"))
	assert.NoError(t, err)
}
