// Package payments creates Stripe checkout links for events that require a
// registration fee. The link is returned alongside the registration result;
// fee collection happens entirely on Stripe's side.
package payments

import (
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"clubconnect/entity"
	"clubconnect/internal/config"
	"clubconnect/lib/sl"
)

type StripeClient struct {
	sc         *client.API
	successUrl string
	cancelUrl  string
	log        *slog.Logger
}

func New(conf *config.Config, logger *slog.Logger) *StripeClient {
	sc := &client.API{}
	sc.Init(conf.Stripe.APIKey, nil)
	return &StripeClient{
		sc:         sc,
		successUrl: conf.Stripe.SuccessUrl,
		cancelUrl:  conf.Stripe.CancelUrl,
		log:        logger.With(sl.Module("stripe")),
	}
}

// RegistrationLink creates a checkout session for one event registration and
// returns its URL. Amount is in the smallest currency unit.
func (s *StripeClient) RegistrationLink(ev *entity.Event, email string, amount int64) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(s.successUrl),
		CancelURL:     stripe.String(s.cancelUrl),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyINR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(ev.EventName),
						Description: stripe.String(fmt.Sprintf("Registration for %s (%s)", ev.EventName, ev.Club)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"event_id": ev.Id,
			"email":    email,
		},
	}

	session, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	s.log.With(
		slog.String("event_id", ev.Id),
		sl.Secret("email", email),
	).Debug("registration payment link created")
	return session.URL, nil
}
