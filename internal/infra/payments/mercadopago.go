package payments

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
)

const currency = "BRL"

// PreferenceCreator é o pedaço do cliente do Mercado Pago que usamos.
type PreferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// ReferenceStore grava o link de pagamento na reserva.
type ReferenceStore interface {
	SetPaymentReference(ctx context.Context, bookingID uint, preferenceID string, url string) error
}

// Checkout gera a preferência de pagamento para reservas pendentes com valor.
type Checkout struct {
	client          PreferenceCreator
	store           ReferenceStore
	notificationURL string
	logger          *zerolog.Logger
}

func NewCheckout(
	client PreferenceCreator,
	store ReferenceStore,
	notificationURL string,
	logger *zerolog.Logger,
) *Checkout {
	return &Checkout{
		client:          client,
		store:           store,
		notificationURL: notificationURL,
		logger:          logger,
	}
}

func NewMercadoPagoClient(accessToken string) (preference.Client, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return preference.NewClient(cfg), nil
}

// HandleEvent é assinante de booking.created.
func (c *Checkout) HandleEvent(ctx context.Context, e domain.Event) error {
	if e.Type != domain.EventCreated || e.Booking == nil {
		return nil
	}

	b := e.Booking
	if e.Status != domain.StatusPending || !b.TotalPrice.IsPositive() {
		return nil
	}

	title := b.Service.Name
	if title == "" {
		title = fmt.Sprintf("Reserva #%d", b.ID)
	}
	if b.TotalNights > 0 {
		title = fmt.Sprintf("%s (%d noites)", title, b.TotalNights)
	}

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         fmt.Sprintf("%d", b.ServiceID),
				Title:      title,
				Quantity:   1,
				UnitPrice:  b.TotalPrice.InexactFloat64(),
				CurrencyID: currency,
			},
		},
		ExternalReference: fmt.Sprintf("booking-%d", b.ID),
		NotificationURL:   c.notificationURL,
	}

	res, err := c.client.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("create preference: %w", err)
	}

	if err := c.store.SetPaymentReference(ctx, b.ID, res.ID, res.InitPoint); err != nil {
		return fmt.Errorf("store preference: %w", err)
	}

	b.PaymentPreferenceID = res.ID
	b.PaymentURL = res.InitPoint

	c.logger.Info().
		Uint("booking_id", b.ID).
		Str("preference_id", res.ID).
		Msg("payment preference created")

	return nil
}
