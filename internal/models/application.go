package models

import "time"

// WheelerVerificationApplication is a Wheeler's request for permission to
// verify a business. At most one row exists per (business, wheeler) pair; a
// cancelled application is deleted outright so the pair can reapply.
type WheelerVerificationApplication struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"not null;uniqueIndex:idx_application_pair" json:"business_id"`
	WheelerID  uint      `gorm:"not null;uniqueIndex:idx_application_pair" json:"wheeler_id"`
	Business   *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Wheeler    *User     `gorm:"foreignKey:WheelerID" json:"wheeler,omitempty"`

	// ApprovedAt is set exactly once, when Approved transitions false->true.
	Approved   bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WheelerVerificationApplication) TableName() string {
	return "wheeler_verification_applications"
}
