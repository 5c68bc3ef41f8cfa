package payments

import (
	"context"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// StripePSP charges wallet top-ups through Stripe PaymentIntents.
type StripePSP struct {
	currency string
}

// NewStripePSP initializes the stripe client with the given API key.
// Amounts are charged in ETB.
func NewStripePSP(apiKey string) *StripePSP {
	stripe.Key = apiKey
	return &StripePSP{currency: "etb"}
}

// Charge creates and confirms a PaymentIntent for the given amount in
// birr, returning the PaymentIntent ID.
func (s *StripePSP) Charge(ctx context.Context, amountBirr float64, customerID string) (string, error) {
	// Stripe wants the amount in the currency's smallest unit (santim).
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amountBirr * 100)),
		Currency: stripe.String(s.currency),
		Confirm:  stripe.Bool(true),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

var _ PSP = (*StripePSP)(nil)
var _ PSP = (*MockPSP)(nil)
