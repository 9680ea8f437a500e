// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"accessly/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the demo seeder.
type Options struct {
	NumWheelers   int
	NumBusinesses int
}

// Seed populates the database with demo data: an admin, a pool of Wheelers
// and owners, businesses across tiers, and a spread of applications and
// verifications in different workflow states. Catalog must run first.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding demo data: %d wheelers, %d businesses...", opts.NumWheelers, opts.NumBusinesses)

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	wheelers := make([]models.User, 0, opts.NumWheelers)
	for i := 0; i < opts.NumWheelers; i++ {
		wheeler := models.User{
			Username:     strings.ToLower(gofakeit.Username()) + fmt.Sprint(i),
			Email:        fmt.Sprintf("wheeler%d@%s", i, gofakeit.DomainName()),
			PasswordHash: string(hash),
			IsWheeler:    true,
		}
		if err := db.Create(&wheeler).Error; err != nil {
			return fmt.Errorf("seed wheeler %d: %w", i, err)
		}
		wheelers = append(wheelers, wheeler)
	}

	var features []models.AccessibilityFeature
	if err := db.Find(&features).Error; err != nil {
		return fmt.Errorf("load features: %w", err)
	}
	var devices []models.MobilityDevice
	if err := db.Find(&devices).Error; err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	var tiers []models.MembershipTier
	if err := db.Find(&tiers).Error; err != nil {
		return fmt.Errorf("load tiers: %w", err)
	}
	if len(features) == 0 || len(tiers) == 0 {
		return fmt.Errorf("catalog is empty, run seed.Catalog first")
	}

	for i := 0; i < opts.NumBusinesses; i++ {
		owner := models.User{
			Username:     strings.ToLower(gofakeit.Username()) + fmt.Sprintf("o%d", i),
			Email:        fmt.Sprintf("owner%d@%s", i, gofakeit.DomainName()),
			PasswordHash: string(hash),
		}
		if err := db.Create(&owner).Error; err != nil {
			return fmt.Errorf("seed owner %d: %w", i, err)
		}

		claimed := pickFeatures(r, features, 1+r.Intn(4))
		tier := tiers[r.Intn(len(tiers))]
		business := models.Business{
			Name:             gofakeit.Company(),
			OwnerID:          owner.ID,
			MembershipTierID: &tier.ID,
			Approved:         true,
			Features:         claimed,
		}
		if err := db.Create(&business).Error; err != nil {
			return fmt.Errorf("seed business %d: %w", i, err)
		}

		if err := seedWorkflowState(db, r, &business, wheelers, devices); err != nil {
			return err
		}
	}

	log.Println("Demo seeding complete")
	return nil
}

// seedWorkflowState leaves each business in a random workflow state:
// untouched, with pending or approved applications, or with committed
// verifications.
func seedWorkflowState(db *gorm.DB, r *rand.Rand, business *models.Business, wheelers []models.User, devices []models.MobilityDevice) error {
	if len(wheelers) == 0 {
		return nil
	}

	stage := r.Intn(4)
	if stage == 0 {
		return nil
	}

	verifiers := r.Intn(len(wheelers)) + 1
	if verifiers > 4 {
		verifiers = 4
	}

	for i := 0; i < verifiers; i++ {
		wheeler := wheelers[i]

		application := models.WheelerVerificationApplication{
			BusinessID: business.ID,
			WheelerID:  wheeler.ID,
		}
		if stage >= 2 {
			now := time.Now().Add(-time.Duration(r.Intn(72)) * time.Hour)
			application.Approved = true
			application.ApprovedAt = &now
		}
		if err := db.Create(&application).Error; err != nil {
			return fmt.Errorf("seed application: %w", err)
		}

		if stage < 3 {
			continue
		}

		verification := models.WheelerVerification{
			BusinessID:        business.ID,
			WheelerID:         wheeler.ID,
			Comments:          gofakeit.Paragraph(1, 2, 8, " "),
			SelfieKey:         fmt.Sprintf("selfies/%s.jpg", gofakeit.UUID()),
			ConfirmedFeatures: business.Features,
		}
		if len(devices) > 0 {
			device := devices[r.Intn(len(devices))]
			verification.MobilityDeviceID = &device.ID
		}
		for _, f := range business.Features {
			fid := f.ID
			verification.Photos = append(verification.Photos, models.WheelerVerificationPhoto{
				ImageKey:  fmt.Sprintf("photos/%s.jpg", gofakeit.UUID()),
				FeatureID: &fid,
			})
		}
		if err := db.Create(&verification).Error; err != nil {
			return fmt.Errorf("seed verification: %w", err)
		}
	}

	// Keep the trust flag consistent with the ledger the way the live
	// workflow would have left it.
	if stage == 3 && verifiers >= 3 {
		if err := db.Model(business).Updates(map[string]interface{}{
			"verified":               true,
			"verification_requested": false,
		}).Error; err != nil {
			return fmt.Errorf("seed verified flag: %w", err)
		}
	}

	return nil
}

func pickFeatures(r *rand.Rand, features []models.AccessibilityFeature, n int) []models.AccessibilityFeature {
	if n > len(features) {
		n = len(features)
	}
	perm := r.Perm(len(features))
	picked := make([]models.AccessibilityFeature, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, features[idx])
	}
	return picked
}
