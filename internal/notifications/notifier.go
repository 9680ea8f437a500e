// Package notifications publishes email jobs for the out-of-process mailer.
// Delivery is fire-and-forget: a publish failure is logged and counted but
// never fails the workflow that triggered it.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"accessly/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Email templates rendered by the mailer.
const (
	TemplateApplicationReceived  = "verification_application_received"
	TemplateApplicationApproved  = "verification_application_approved"
	TemplateVerificationReceived = "verification_submitted"
	TemplateVerificationApproved = "verification_approved"
	TemplateBusinessVerified     = "business_verified"
)

// Message is one queued email job.
type Message struct {
	UserID   uint           `json:"user_id,omitempty"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context,omitempty"`
	QueuedAt time.Time      `json:"queued_at"`
}

// Notifier publishes notification jobs into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op, which keeps local development
// and tests running without Redis.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Notify queues an email for a single user.
func (n *Notifier) Notify(ctx context.Context, userID uint, template string, context map[string]any) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(Message{
		UserID:   userID,
		Template: template,
		Context:  context,
		QueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("mail:user:%d", userID)
	return n.rdb.Publish(ctx, channel, payload).Err()
}

// NotifyAdmins queues an email for the administrator group.
func (n *Notifier) NotifyAdmins(ctx context.Context, template string, context map[string]any) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(Message{
		Template: template,
		Context:  context,
		QueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, "mail:admins", payload).Err()
}

// BestEffort logs and counts a notifier error instead of propagating it.
// Workflows call this so a mailer outage never rolls back a state transition.
func BestEffort(ctx context.Context, template string, err error) {
	if err == nil {
		return
	}
	observability.NotifierErrors.WithLabelValues(template).Inc()
	observability.Logger.WarnContext(ctx, "notification publish failed",
		"template", template,
		"error", err.Error(),
	)
}
