package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process Gateway used in development and tests.
// Intents are held in memory; MarkSucceeded simulates the provider's
// asynchronous payment confirmation.
type MemoryGateway struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{intents: make(map[string]*Intent)}
}

// CreatePaymentIntent records a pending intent and returns it.
func (g *MemoryGateway) CreatePaymentIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := "pi_" + uuid.NewString()
	intent := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString(),
		Status:       StatusPending,
		AmountCents:  amountCents,
		Currency:     currency,
		Metadata:     cloneMetadata(metadata),
	}
	g.intents[id] = intent
	return intent, nil
}

// RetrievePaymentIntent returns the stored intent by ID.
func (g *MemoryGateway) RetrievePaymentIntent(_ context.Context, intentID string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("payment intent %s not found", intentID)
	}
	cp := *intent
	cp.Metadata = cloneMetadata(intent.Metadata)
	return &cp, nil
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	cp := make(map[string]string, len(metadata))
	for k, v := range metadata {
		cp[k] = v
	}
	return cp
}

// MarkSucceeded flips an intent to succeeded, simulating provider confirmation.
func (g *MemoryGateway) MarkSucceeded(intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[intentID]
	if !ok {
		return fmt.Errorf("payment intent %s not found", intentID)
	}
	intent.Status = StatusSucceeded
	return nil
}
