package models

import "time"

// WheelerVerification is a completed, evidence-backed confirmation submitted
// by one Wheeler for one business. A Wheeler verifies a given business at
// most once, ever; the (business, wheeler) unique index is the authoritative
// backstop for concurrent submissions.
type WheelerVerification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"not null;uniqueIndex:idx_verification_pair" json:"business_id"`
	WheelerID  uint      `gorm:"not null;uniqueIndex:idx_verification_pair" json:"wheeler_id"`
	Business   *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Wheeler    *User     `gorm:"foreignKey:WheelerID" json:"wheeler,omitempty"`

	Comments string `gorm:"type:text;not null" json:"comments"`

	// Nullable: a device deleted from the catalog degrades to null.
	MobilityDeviceID *uint           `json:"mobility_device_id"`
	MobilityDevice   *MobilityDevice `gorm:"foreignKey:MobilityDeviceID" json:"mobility_device,omitempty"`

	SelfieKey string `gorm:"size:255" json:"selfie_key"`

	// Administrative override, toggled after submission. Flipping it
	// false->true notifies the Wheeler exactly once.
	Approved bool `gorm:"not null;default:false" json:"approved"`

	// ConfirmedFeatures are claimed features the Wheeler attested to;
	// AdditionalFeatures are catalog features the business had not claimed.
	// Disjoint by construction at submission time.
	ConfirmedFeatures  []AccessibilityFeature `gorm:"many2many:verification_confirmed_features" json:"confirmed_features,omitempty"`
	AdditionalFeatures []AccessibilityFeature `gorm:"many2many:verification_additional_features" json:"additional_features,omitempty"`

	Photos []WheelerVerificationPhoto `gorm:"foreignKey:VerificationID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WheelerVerification) TableName() string {
	return "wheeler_verifications"
}

// WheelerVerificationPhoto is evidence attached to a verification. A nil
// FeatureID marks a general photo not tied to one feature.
type WheelerVerificationPhoto struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	VerificationID uint                  `gorm:"not null;index" json:"verification_id"`
	ImageKey       string                `gorm:"size:255;not null" json:"image_key"`
	FeatureID      *uint                 `json:"feature_id"`
	Feature        *AccessibilityFeature `gorm:"foreignKey:FeatureID" json:"feature,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// TableName specifies the table name for GORM
func (WheelerVerificationPhoto) TableName() string {
	return "wheeler_verification_photos"
}
