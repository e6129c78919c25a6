package payments

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) Create(ctx context.Context, req preference.Request) (*preference.Response, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*preference.Response)
	return res, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SetPaymentReference(ctx context.Context, bookingID uint, preferenceID, url string) error {
	return m.Called(ctx, bookingID, preferenceID, url).Error(0)
}

func newCheckout(c PreferenceCreator, s ReferenceStore) *Checkout {
	logger := zerolog.New(io.Discard)
	return NewCheckout(c, s, "https://api.example/webhooks/mp", &logger)
}

func pendingEvent(price string, nights int) domain.Event {
	b := &models.Booking{
		ID: 12, TenantID: 1, ServiceID: 3, Status: "PENDING",
		TotalPrice: decimal.RequireFromString(price), TotalNights: nights,
		Service: models.Service{Name: "Suíte"},
	}
	return domain.NewEvent(domain.EventCreated, b, nil, b.CreatedAt)
}

func TestCheckoutCreatesPreference(t *testing.T) {
	creator := &mockCreator{}
	store := &mockStore{}

	creator.On("Create", mock.Anything, mock.MatchedBy(func(r preference.Request) bool {
		return len(r.Items) == 1 &&
			r.Items[0].Title == "Suíte (3 noites)" &&
			r.Items[0].UnitPrice == 450.0 &&
			r.Items[0].CurrencyID == "BRL" &&
			r.ExternalReference == "booking-12" &&
			r.NotificationURL == "https://api.example/webhooks/mp"
	})).Return(&preference.Response{ID: "pref-1", InitPoint: "https://mp/checkout/pref-1"}, nil).Once()
	store.On("SetPaymentReference", mock.Anything, uint(12), "pref-1", "https://mp/checkout/pref-1").Return(nil).Once()

	e := pendingEvent("450.00", 3)
	require.NoError(t, newCheckout(creator, store).HandleEvent(context.Background(), e))

	assert.Equal(t, "https://mp/checkout/pref-1", e.Booking.PaymentURL)
	creator.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCheckoutSkipsWhenNothingToCharge(t *testing.T) {
	creator := &mockCreator{}
	store := &mockStore{}
	c := newCheckout(creator, store)

	free := pendingEvent("0", 0)
	require.NoError(t, c.HandleEvent(context.Background(), free))

	confirmed := pendingEvent("50", 0)
	confirmed.Status = domain.StatusConfirmed
	require.NoError(t, c.HandleEvent(context.Background(), confirmed))

	cancelled := pendingEvent("50", 0)
	cancelled.Type = domain.EventCancelled
	require.NoError(t, c.HandleEvent(context.Background(), cancelled))

	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutPropagatesGatewayError(t *testing.T) {
	creator := &mockCreator{}
	store := &mockStore{}
	creator.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("401 unauthorized"))

	err := newCheckout(creator, store).HandleEvent(context.Background(), pendingEvent("50", 0))
	assert.ErrorContains(t, err, "401 unauthorized")
	store.AssertNotCalled(t, "SetPaymentReference", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
