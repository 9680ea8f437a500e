package service

import (
	"context"
	"fmt"
	"testing"

	"accessly/internal/database"
	"accessly/internal/models"
	"accessly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type workflowFixture struct {
	db               *gorm.DB
	businessRepo     repository.BusinessRepository
	applicationRepo  repository.ApplicationRepository
	verificationRepo repository.VerificationRepository
	catalogRepo      repository.CatalogRepository
	notifier         *notifierRecorder

	business *models.Business
	features []models.AccessibilityFeature
	device   models.MobilityDevice
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	features := []models.AccessibilityFeature{
		{Name: "Step-free entrance"},
		{Name: "Accessible restroom"},
		{Name: "Automatic doors"},
	}
	require.NoError(t, db.Create(&features).Error)

	device := models.MobilityDevice{Name: "Manual wheelchair"}
	require.NoError(t, db.Create(&device).Error)

	owner := models.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)

	business := models.Business{
		Name:     "Corner Cafe",
		OwnerID:  owner.ID,
		Approved: true,
		Features: []models.AccessibilityFeature{features[0]},
	}
	require.NoError(t, db.Create(&business).Error)

	return &workflowFixture{
		db:               db,
		businessRepo:     repository.NewBusinessRepository(db),
		applicationRepo:  repository.NewApplicationRepository(db),
		verificationRepo: repository.NewVerificationRepository(db),
		catalogRepo:      repository.NewCatalogRepository(db),
		notifier:         &notifierRecorder{},
		business:         &business,
		features:         features,
		device:           device,
	}
}

func (f *workflowFixture) newWheeler(t *testing.T, n int) models.Actor {
	t.Helper()
	wheeler := models.User{
		Username:     fmt.Sprintf("wheeler%d", n),
		Email:        fmt.Sprintf("wheeler%d@example.com", n),
		PasswordHash: "x",
		IsWheeler:    true,
	}
	require.NoError(t, f.db.Create(&wheeler).Error)
	return models.ActorFromUser(&wheeler)
}

func (f *workflowFixture) submissionInput() SubmissionInput {
	return SubmissionInput{
		Comments:             "Ramp and restroom both fine.",
		SelfieKey:            "selfies/visit.jpg",
		MobilityDeviceID:     &f.device.ID,
		ConfirmedFeatureIDs:  []uint{f.features[0].ID},
		AdditionalFeatureIDs: []uint{f.features[1].ID},
		FeaturePhotos: map[uint][]string{
			f.features[0].ID: {"photos/entrance.jpg"},
			f.features[1].ID: {"photos/restroom.jpg"},
		},
		GeneralPhotos: []string{"photos/general.jpg"},
	}
}

func TestApplicationLifecycleAgainstStore(t *testing.T) {
	f := newWorkflowFixture(t)
	svc := NewApplicationService(f.applicationRepo, f.verificationRepo, f.businessRepo, f.notifier)
	ctx := context.Background()
	wheeler := f.newWheeler(t, 1)

	application, err := svc.Apply(ctx, f.business.ID, wheeler)
	require.NoError(t, err)
	require.NotZero(t, application.ID)

	// Second apply for the same pair reports the duplicate.
	_, err = svc.Apply(ctx, f.business.ID, wheeler)
	assertAppErrorCode(t, err, models.CodeDuplicatePending)

	// Cancel removes the pending row so a fresh apply succeeds.
	removed, err := svc.Cancel(ctx, f.business.ID, wheeler)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Cancel(ctx, f.business.ID, wheeler)
	require.NoError(t, err)
	assert.False(t, removed, "second cancel is informational")

	application, err = svc.Apply(ctx, f.business.ID, wheeler)
	require.NoError(t, err)

	admin := models.Actor{UserID: 999, Admin: true}
	approved, err := svc.Approve(ctx, application.ID, admin)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedAt)
	firstApprovedAt := *approved.ApprovedAt

	again, err := svc.Approve(ctx, application.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, firstApprovedAt.Unix(), again.ApprovedAt.Unix(), "approved_at is set exactly once")

	// An approved application can no longer be cancelled.
	removed, err = svc.Cancel(ctx, f.business.ID, wheeler)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestApplicationUniqueIndexBackstop(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	wheeler := f.newWheeler(t, 1)

	// Bypass the service pre-check to simulate the lost race: the storage
	// constraint must translate into the friendly duplicate error.
	require.NoError(t, f.applicationRepo.Create(ctx, &models.WheelerVerificationApplication{
		BusinessID: f.business.ID,
		WheelerID:  wheeler.UserID,
	}))
	err := f.applicationRepo.Create(ctx, &models.WheelerVerificationApplication{
		BusinessID: f.business.ID,
		WheelerID:  wheeler.UserID,
	})
	assertAppErrorCode(t, err, models.CodeDuplicatePending)
}

func TestSubmissionCommitsAtomically(t *testing.T) {
	f := newWorkflowFixture(t)
	svc := NewVerificationService(f.verificationRepo, f.businessRepo, f.catalogRepo, f.notifier, 3)
	ctx := context.Background()
	wheeler := f.newWheeler(t, 1)

	// Missing evidence for a selected feature: nothing may be persisted.
	broken := f.submissionInput()
	delete(broken.FeaturePhotos, f.features[1].ID)
	_, err := svc.SubmitVerification(ctx, f.business.ID, wheeler, broken)
	assertAppErrorCode(t, err, models.CodeMissingEvidence)

	var verificationCount, photoCount int64
	require.NoError(t, f.db.Model(&models.WheelerVerification{}).Count(&verificationCount).Error)
	require.NoError(t, f.db.Model(&models.WheelerVerificationPhoto{}).Count(&photoCount).Error)
	assert.Zero(t, verificationCount)
	assert.Zero(t, photoCount)

	// A valid submission persists the verification, links, and photos.
	verification, err := svc.SubmitVerification(ctx, f.business.ID, wheeler, f.submissionInput())
	require.NoError(t, err)
	require.NotZero(t, verification.ID)

	stored, err := f.verificationRepo.GetByID(ctx, verification.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ConfirmedFeatures, 1)
	assert.Len(t, stored.AdditionalFeatures, 1)
	assert.Len(t, stored.Photos, 3)
	require.NotNil(t, stored.MobilityDeviceID)
	assert.Equal(t, f.device.ID, *stored.MobilityDeviceID)

	// Same pair can never verify twice, even via the raw repository path.
	_, err = svc.SubmitVerification(ctx, f.business.ID, wheeler, f.submissionInput())
	assertAppErrorCode(t, err, models.CodeAlreadyVerified)

	_, err = f.verificationRepo.Submit(ctx, &models.WheelerVerification{
		BusinessID: f.business.ID,
		WheelerID:  wheeler.UserID,
		Comments:   "again",
		SelfieKey:  "selfies/again.jpg",
	}, 3)
	assertAppErrorCode(t, err, models.CodeAlreadyVerified)
}

func TestAutoApprovalThreshold(t *testing.T) {
	f := newWorkflowFixture(t)
	svc := NewVerificationService(f.verificationRepo, f.businessRepo, f.catalogRepo, f.notifier, 3)
	ctx := context.Background()

	// Owner had requested verification; the flip must clear the request.
	require.NoError(t, f.businessRepo.MarkVerificationRequested(ctx, f.business.ID))

	for i := 1; i <= 2; i++ {
		_, err := svc.SubmitVerification(ctx, f.business.ID, f.newWheeler(t, i), f.submissionInput())
		require.NoError(t, err)

		business, err := f.businessRepo.GetByID(ctx, f.business.ID)
		require.NoError(t, err)
		assert.False(t, business.Verified, "below threshold after %d verifications", i)
		assert.True(t, business.VerificationRequested)
	}

	_, err := svc.SubmitVerification(ctx, f.business.ID, f.newWheeler(t, 3), f.submissionInput())
	require.NoError(t, err)

	business, err := f.businessRepo.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.True(t, business.Verified, "third verification flips the trust flag")
	assert.False(t, business.VerificationRequested, "request is cleared in the same commit")

	// A fourth verification re-asserts the flag without harm.
	_, err = svc.SubmitVerification(ctx, f.business.ID, f.newWheeler(t, 4), f.submissionInput())
	require.NoError(t, err)

	business, err = f.businessRepo.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.True(t, business.Verified)

	// Once verified, a late payment callback must not re-set the request flag.
	require.NoError(t, f.businessRepo.MarkVerificationRequested(ctx, f.business.ID))
	business, err = f.businessRepo.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.False(t, business.VerificationRequested)
}

func TestReportAgainstStore(t *testing.T) {
	f := newWorkflowFixture(t)
	submitSvc := NewVerificationService(f.verificationRepo, f.businessRepo, f.catalogRepo, f.notifier, 3)
	reportSvc := NewReportService(f.verificationRepo, f.businessRepo)
	ctx := context.Background()
	wheeler := f.newWheeler(t, 1)

	verification, err := submitSvc.SubmitVerification(ctx, f.business.ID, wheeler, f.submissionInput())
	require.NoError(t, err)

	ownerActor := models.Actor{UserID: f.business.OwnerID}
	ownerView, err := reportSvc.ViewReport(ctx, verification.ID, ownerActor)
	require.NoError(t, err)
	assert.Empty(t, ownerView.WheelerUsername)
	assert.Len(t, ownerView.Features, 2)

	wheelerView, err := reportSvc.ViewReport(ctx, verification.ID, wheeler)
	require.NoError(t, err)
	assert.Equal(t, "wheeler1", wheelerView.WheelerUsername)

	_, err = reportSvc.ViewReport(ctx, verification.ID, f.newWheeler(t, 2))
	assertAppErrorCode(t, err, models.CodeForbidden)

	// The public listing shows the history without identities.
	listing, err := reportSvc.ListBusinessVerifications(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.Total)
	require.Len(t, listing.Verifications, 1)
	assert.Equal(t, verification.ID, listing.Verifications[0].VerificationID)
}

func TestPaidConfirmationConsumesIntent(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	require.NoError(t, f.businessRepo.ConfirmPaidVerificationRequest(ctx, f.business.ID, "pi_once", 500))
	business, err := f.businessRepo.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.True(t, business.VerificationRequested)

	// Redeeming the same intent again hits the unique index.
	err = f.businessRepo.ConfirmPaidVerificationRequest(ctx, f.business.ID, "pi_once", 500)
	assertAppErrorCode(t, err, models.CodeValidation)
}
