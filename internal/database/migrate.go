package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies the schema for all persistent models. Uniqueness of the
// (business, wheeler) pair on applications and verifications is enforced here
// at the storage layer; application-level pre-checks only produce friendlier
// errors.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
