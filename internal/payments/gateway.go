// Package payments defines the narrow Payment Gateway interface the
// verification workflow consumes. Intent creation and webhook signature
// verification live with the provider integration, not here; the workflow
// only needs an amount and a success signal.
package payments

import "context"

// Intent statuses the workflow cares about.
const (
	StatusSucceeded = "succeeded"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Intent is the provider-agnostic view of a payment intent. Metadata carries
// the caller's binding keys (the business the intent was created for) so the
// confirmation path can verify an intent is being redeemed where it was
// issued.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// Gateway is the payment-intent lifecycle consumed by the request gate.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (*Intent, error)
}
