package models

import "time"

// VerificationPaymentConfirmation records a payment intent redeemed for a
// paid verification request. The unique index on IntentID is what makes a
// replayed callback fail: an intent confirms exactly one request, once.
type VerificationPaymentConfirmation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IntentID    string    `gorm:"size:255;not null;uniqueIndex" json:"intent_id"`
	BusinessID  uint      `gorm:"not null;index" json:"business_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (VerificationPaymentConfirmation) TableName() string {
	return "verification_payment_confirmations"
}
