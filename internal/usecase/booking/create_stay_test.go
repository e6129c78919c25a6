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

func stayRepo(settings string) *fakeRepo {
	return newFakeRepo().withTenant(settings).withService(1, 0, "150.00")
}

func newCreateStay(repo *fakeRepo, notifier domain.Notifier) *CreateStay {
	now := businessTime("2024-03-01", "12:00")
	return NewCreateStay(repo, domain.NopCache{}, domain.NopLocker{}, notifier, clockAt(&now), nopLogger())
}

func stayInput(checkIn, checkOut string) CreateStayInput {
	return CreateStayInput{
		TenantID:      tenantID,
		ServiceID:     1,
		CustomerName:  "Bruno",
		CustomerPhone: "11988887777",
		CheckIn:       checkIn,
		CheckOut:      checkOut,
	}
}

func TestCreateStayComputesPrice(t *testing.T) {
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.MatchedBy(isCreated)).Return(nil).Once()
	repo := stayRepo(`{"bookingMode":"daily"}`)

	b, err := newCreateStay(repo, n).Execute(context.Background(), stayInput("2024-03-10", "2024-03-13"))
	require.NoError(t, err)

	assert.Equal(t, 3, b.TotalNights)
	assert.Equal(t, "450", b.TotalPrice.String())
	require.NotNil(t, b.CheckOutDate)
	assert.Equal(t, "2024-03-13", *b.CheckOutDate)
	assert.Empty(t, b.StartTime)
	assert.Equal(t, "PENDING", b.Status)
	assert.Contains(t, repo.lockLog, "stay:2024-03-10")

	n.AssertExpectations(t)
}

func TestCreateStayBackToBack(t *testing.T) {
	repo := stayRepo(`{}`).withStay("2024-03-10", "2024-03-13", "CONFIRMED")

	_, err := newCreateStay(repo, domain.NopNotifier{}).Execute(context.Background(), stayInput("2024-03-13", "2024-03-15"))
	assert.NoError(t, err)
}

func TestCreateStayListsEveryUnavailableDate(t *testing.T) {
	repo := stayRepo(`{}`).withStay("2024-03-10", "2024-03-12", "CONFIRMED")
	repo.blocked = append(repo.blocked, models.BlockedDate{TenantID: tenantID, Date: "2024-03-14"})

	_, err := newCreateStay(repo, domain.NopNotifier{}).Execute(context.Background(), stayInput("2024-03-09", "2024-03-16"))

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindDateRangeUnavailable, be.Kind)
	assert.Equal(t, []string{"2024-03-10", "2024-03-11", "2024-03-14"}, be.Dates)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateStayAdmission(t *testing.T) {
	repo := stayRepo(`{"dailyMinNights": 2, "dailyClosedDays": [0]}`)
	uc := newCreateStay(repo, domain.NopNotifier{})

	tests := []struct {
		checkIn, checkOut, code string
	}{
		{"2024-03-12", "2024-03-11", "invalid_stay_range"},
		{"2024-03-11", "2024-03-12", "stay_too_short"},
		{"2024-03-10", "2024-03-12", "closed_check_in_day"},
		{"2024-02-20", "2024-02-25", "past_date"},
	}
	for _, tt := range tests {
		_, err := uc.Execute(context.Background(), stayInput(tt.checkIn, tt.checkOut))
		assert.True(t, httperr.IsBusiness(err, tt.code), "%s..%s: %v", tt.checkIn, tt.checkOut, err)
	}
}

func TestCreateStayWalkInConfirmed(t *testing.T) {
	repo := stayRepo(`{}`)
	in := stayInput("2024-03-01", "2024-03-02")
	in.SkipAdvanceCheck = true

	b, err := newCreateStay(repo, domain.NopNotifier{}).Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", b.Status)
	assert.Equal(t, "150", b.TotalPrice.String())
}

func TestCreateStayLongerThanBrowseWindow(t *testing.T) {
	repo := stayRepo(`{"dailyMaxNights": 120, "maxAdvanceBookingDays": 365}`)
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.MatchedBy(isCreated)).Return(nil).Once()

	// 111 noites: acima do teto de consulta, dentro de dailyMaxNights
	b, err := newCreateStay(repo, n).Execute(context.Background(), stayInput("2024-03-10", "2024-06-29"))
	require.NoError(t, err)
	assert.Equal(t, 111, b.TotalNights)
	assert.Equal(t, "16650", b.TotalPrice.String())

	_, err = newCreateStay(repo, n).Execute(context.Background(), stayInput("2024-03-10", "2024-07-09"))
	assert.True(t, httperr.IsBusiness(err, "stay_too_long"))
}

func TestCreateStayRejectsUnknownBranch(t *testing.T) {
	repo := stayRepo(`{}`).withBranch(tenantID, 5)
	uc := newCreateStay(repo, domain.NopNotifier{})

	foreign := uint(999)
	in := stayInput("2024-03-10", "2024-03-12")
	in.BranchID = &foreign
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
	assert.Empty(t, repo.bookings)

	own := uint(5)
	in.BranchID = &own
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}
