package models

import "time"

// MembershipTier is the pricing context for a business. Prices are stored as
// decimal strings because legacy tier rows carry free-form values; the
// pricing resolver fails open to zero when a value is absent or unparseable.
type MembershipTier struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:60;not null;uniqueIndex" json:"name"`
	MembershipPrice   *string   `gorm:"size:20" json:"membership_price"`
	VerificationPrice *string   `gorm:"size:20" json:"verification_price"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MembershipTier) TableName() string {
	return "membership_tiers"
}
