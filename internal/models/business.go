package models

import "time"

// Business is a directory listing. The trust-state fields
// (VerificationRequested, Verified, VerificationNotes) are mutated only by
// the request gate and the submission workflow. Verified == true implies
// VerificationRequested == false.
type Business struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"size:255;not null" json:"name"`
	OwnerID          uint            `gorm:"not null;index" json:"owner_id"`
	Owner            *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	MembershipTierID *uint           `json:"membership_tier_id"`
	MembershipTier   *MembershipTier `gorm:"foreignKey:MembershipTierID" json:"membership_tier,omitempty"`

	// Approved means the listing is publicly visible; Wheelers can only
	// apply to verify listed businesses.
	Approved bool `gorm:"not null;default:false" json:"approved"`

	VerificationRequested bool   `gorm:"not null;default:false" json:"verification_requested"`
	Verified              bool   `gorm:"not null;default:false" json:"verified"`
	VerificationNotes     string `gorm:"type:text" json:"verification_notes"`

	// Features claimed by the business itself. Wheelers confirm these;
	// anything they find beyond this set is recorded as additional.
	Features []AccessibilityFeature `gorm:"many2many:business_features" json:"features,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Business) TableName() string {
	return "businesses"
}

// ClaimedFeatureIDs returns the set of feature IDs the business claims.
func (b *Business) ClaimedFeatureIDs() map[uint]bool {
	ids := make(map[uint]bool, len(b.Features))
	for _, f := range b.Features {
		ids[f.ID] = true
	}
	return ids
}
