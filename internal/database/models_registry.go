package database

import "accessly/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.MembershipTier{},
		&models.Business{},
		&models.AccessibilityFeature{},
		&models.MobilityDevice{},
		&models.WheelerVerificationApplication{},
		&models.WheelerVerification{},
		&models.WheelerVerificationPhoto{},
		&models.VerificationPaymentConfirmation{},
	}
}
