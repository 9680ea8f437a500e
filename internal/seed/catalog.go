package seed

import (
	"fmt"

	"accessly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInFeatures is the permanent accessibility feature catalog. Businesses
// claim a subset of these and Wheelers attest them.
var BuiltInFeatures = []string{
	"Step-free entrance",
	"Portable ramp available",
	"Automatic doors",
	"Accessible restroom",
	"Lowered counter",
	"Wide aisles",
	"Accessible parking",
	"Elevator access",
	"Table seating with wheelchair space",
	"Staff assistance on request",
}

// BuiltInDevices is the permanent mobility device catalog Wheelers pick from
// when submitting a verification.
var BuiltInDevices = []string{
	"Manual wheelchair",
	"Power wheelchair",
	"Mobility scooter",
	"Walker",
	"Crutches",
	"Cane",
}

// builtInTier pairs a tier name with its price columns. Prices are decimal
// strings; nil means the tier pays the fallback (or nothing at all).
type builtInTier struct {
	Name              string
	MembershipPrice   *string
	VerificationPrice *string
}

func strPtr(s string) *string { return &s }

// BuiltInTiers defines the standard membership tiers.
var BuiltInTiers = []builtInTier{
	{Name: "Free", MembershipPrice: nil, VerificationPrice: nil},
	{Name: "Basic", MembershipPrice: strPtr("5.00"), VerificationPrice: nil},
	{Name: "Standard", MembershipPrice: strPtr("12.00"), VerificationPrice: strPtr("10.00")},
	{Name: "Premium", MembershipPrice: strPtr("25.00"), VerificationPrice: strPtr("20.00")},
}

// Catalog seeds the permanent feature, device, and tier catalogs. Safe to run
// on every boot: existing rows are matched by unique name and left alone.
func Catalog(db *gorm.DB) error {
	for _, name := range BuiltInFeatures {
		feature := models.AccessibilityFeature{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&feature).Error; err != nil {
			return fmt.Errorf("seed feature %q: %w", name, err)
		}
	}

	for _, name := range BuiltInDevices {
		device := models.MobilityDevice{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&device).Error; err != nil {
			return fmt.Errorf("seed device %q: %w", name, err)
		}
	}

	for _, item := range BuiltInTiers {
		tier := models.MembershipTier{
			Name:              item.Name,
			MembershipPrice:   item.MembershipPrice,
			VerificationPrice: item.VerificationPrice,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tier).Error; err != nil {
			return fmt.Errorf("seed tier %q: %w", item.Name, err)
		}
	}

	return nil
}
