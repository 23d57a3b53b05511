package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Intent is the gateway-neutral view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	ReceiptEmail string
	OrderID      string
}

// Succeeded reports whether the gateway confirmed the charge.
func (i *Intent) Succeeded() bool {
	return i.Status == string(stripe.PaymentIntentStatusSucceeded)
}

// Gateway abstracts the payment provider so the order workflow can be tested
// without network calls.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, email, orderID string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}

// StripeGateway charges cards through Stripe payment intents.
type StripeGateway struct {
	sc       *client.API
	currency string
}

// NewStripeGateway creates a gateway bound to one API key and currency.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sc: sc, currency: currency}
}

// CreateIntent opens an intent for the given amount. Stripe wants minor
// units, so the decimal amount is scaled by 100 and rounded.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, email, orderID string) (*Intent, error) {
	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	params := &stripe.PaymentIntentParams{
		Params:       stripe.Params{Context: ctx},
		Amount:       stripe.Int64(minorUnits),
		Currency:     stripe.String(g.currency),
		ReceiptEmail: stripe.String(email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", orderID)

	intent, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return fromStripeIntent(intent), nil
}

// GetIntent retrieves the current state of an intent from Stripe.
func (g *StripeGateway) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	intent, err := g.sc.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return fromStripeIntent(intent), nil
}

func fromStripeIntent(intent *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		ReceiptEmail: intent.ReceiptEmail,
		OrderID:      intent.Metadata["order_id"],
	}
}
