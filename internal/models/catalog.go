package models

// AccessibilityFeature is a catalog entry describing one accessibility
// feature a business can claim and a Wheeler can confirm (step-free entrance,
// accessible restroom, and so on).
type AccessibilityFeature struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:120;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for GORM
func (AccessibilityFeature) TableName() string {
	return "accessibility_features"
}

// MobilityDevice is a catalog entry for the device a Wheeler used during a
// verification visit.
type MobilityDevice struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:120;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for GORM
func (MobilityDevice) TableName() string {
	return "mobility_devices"
}
