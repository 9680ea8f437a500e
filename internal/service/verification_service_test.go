package service

import (
	"context"
	"errors"
	"testing"

	"accessly/internal/models"
	"accessly/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureCatalog() []models.AccessibilityFeature {
	return []models.AccessibilityFeature{
		{ID: 1, Name: "Step-free entrance"},
		{ID: 2, Name: "Accessible restroom"},
		{ID: 3, Name: "Automatic doors"},
	}
}

func listedBusinessRepo() *businessRepoStub {
	repo := noopBusinessRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Business, error) {
		return &models.Business{
			ID:       1,
			OwnerID:  10,
			Approved: true,
			Features: []models.AccessibilityFeature{{ID: 1, Name: "Step-free entrance"}},
		}, nil
	}
	return repo
}

func catalogWithFeatures() *catalogRepoStub {
	repo := noopCatalogRepo()
	repo.listFeaturesFn = func(context.Context) ([]models.AccessibilityFeature, error) {
		return featureCatalog(), nil
	}
	return repo
}

func validInput() SubmissionInput {
	return SubmissionInput{
		Comments:             "Visited on a rainy Tuesday, ramp was clear.",
		SelfieKey:            "selfies/abc.jpg",
		ConfirmedFeatureIDs:  []uint{1},
		AdditionalFeatureIDs: []uint{2},
		FeaturePhotos: map[uint][]string{
			1: {"photos/entrance-1.jpg", "photos/entrance-2.jpg"},
			2: {"photos/restroom.jpg"},
		},
		GeneralPhotos: []string{"photos/overview.jpg"},
	}
}

func TestSubmitRequiresWheelerCapability(t *testing.T) {
	svc := NewVerificationService(noopVerificationRepo(), listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5}, validInput())
	assertAppErrorCode(t, err, models.CodeNotWheeler)
}

func TestSubmitRejectsSecondVerificationForPair(t *testing.T) {
	verificationRepo := noopVerificationRepo()
	verificationRepo.getByPairFn = func(context.Context, uint, uint) (*models.WheelerVerification, error) {
		return &models.WheelerVerification{ID: 7}, nil
	}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, validInput())
	assertAppErrorCode(t, err, models.CodeAlreadyVerified)
}

func TestSubmitMissingEvidenceForSelectedFeature(t *testing.T) {
	input := validInput()
	delete(input.FeaturePhotos, 2)

	submitted := false
	verificationRepo := noopVerificationRepo()
	verificationRepo.submitFn = func(context.Context, *models.WheelerVerification, int) (bool, error) {
		submitted = true
		return false, nil
	}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	assertAppErrorCode(t, err, models.CodeMissingEvidence)
	assert.Contains(t, err.Error(), "Accessible restroom")
	assert.False(t, submitted, "nothing may be committed when evidence is missing")
}

func TestSubmitMissingSelfie(t *testing.T) {
	input := validInput()
	input.SelfieKey = "  "
	svc := NewVerificationService(noopVerificationRepo(), listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	assertAppErrorCode(t, err, models.CodeMissingSelfie)
}

func TestSubmitRequiresComments(t *testing.T) {
	input := validInput()
	input.Comments = ""
	svc := NewVerificationService(noopVerificationRepo(), listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestSubmitUnknownDeviceDegradesToNull(t *testing.T) {
	deviceID := uint(42)
	input := validInput()
	input.MobilityDeviceID = &deviceID

	var captured *models.WheelerVerification
	verificationRepo := noopVerificationRepo()
	verificationRepo.submitFn = func(_ context.Context, v *models.WheelerVerification, _ int) (bool, error) {
		captured = v
		return false, nil
	}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	require.NoError(t, err)
	assert.Nil(t, captured.MobilityDeviceID)
}

func TestSubmitScopesFeatureSelections(t *testing.T) {
	input := validInput()
	// Feature 1 is claimed, so selecting it as "additional" must be dropped;
	// feature 2 is unclaimed, so it cannot be "confirmed"; 99 is not in the
	// catalog at all.
	input.ConfirmedFeatureIDs = []uint{1, 2, 99}
	input.AdditionalFeatureIDs = []uint{1, 2, 99}

	var captured *models.WheelerVerification
	verificationRepo := noopVerificationRepo()
	verificationRepo.submitFn = func(_ context.Context, v *models.WheelerVerification, _ int) (bool, error) {
		captured = v
		return false, nil
	}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	require.NoError(t, err)
	require.Len(t, captured.ConfirmedFeatures, 1)
	assert.Equal(t, uint(1), captured.ConfirmedFeatures[0].ID)
	require.Len(t, captured.AdditionalFeatures, 1)
	assert.Equal(t, uint(2), captured.AdditionalFeatures[0].ID)
}

func TestSubmitIgnoresPhotosForOutOfScopeFeatures(t *testing.T) {
	input := validInput()
	input.FeaturePhotos[99] = []string{"photos/bogus.jpg"}

	var captured *models.WheelerVerification
	verificationRepo := noopVerificationRepo()
	verificationRepo.submitFn = func(_ context.Context, v *models.WheelerVerification, _ int) (bool, error) {
		captured = v
		return false, nil
	}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), &notifierRecorder{}, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, input)
	require.NoError(t, err)
	for _, photo := range captured.Photos {
		if photo.FeatureID != nil {
			assert.NotEqual(t, uint(99), *photo.FeatureID)
		}
	}
	// 2 entrance + 1 restroom + 1 general.
	assert.Len(t, captured.Photos, 4)
}

func TestSubmitNotifiesOwnerOnFirstTrustFlipOnly(t *testing.T) {
	verificationRepo := noopVerificationRepo()
	verificationRepo.submitFn = func(context.Context, *models.WheelerVerification, int) (bool, error) {
		return true, nil
	}
	recorder := &notifierRecorder{}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), recorder, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.userCount(notifications.TemplateBusinessVerified))

	// A later submission past the threshold re-asserts the flag but the
	// owner is not notified again because the business is already verified.
	alreadyVerified := listedBusinessRepo()
	alreadyVerified.getByIDFn = func(context.Context, uint) (*models.Business, error) {
		return &models.Business{ID: 1, OwnerID: 10, Approved: true, Verified: true}, nil
	}
	recorder2 := &notifierRecorder{}
	svc2 := NewVerificationService(verificationRepo, alreadyVerified, catalogWithFeatures(), recorder2, 3)

	_, err = svc2.SubmitVerification(context.Background(), 1, models.Actor{UserID: 6, Wheeler: true}, validInput())
	require.NoError(t, err)
	assert.Zero(t, recorder2.userCount(notifications.TemplateBusinessVerified))
	assert.Equal(t, 1, recorder2.userCount(notifications.TemplateVerificationReceived))
}

func TestSubmitSwallowsNotifierFailure(t *testing.T) {
	recorder := &notifierRecorder{failAlways: errors.New("smtp down")}
	svc := NewVerificationService(noopVerificationRepo(), listedBusinessRepo(), catalogWithFeatures(), recorder, 3)

	_, err := svc.SubmitVerification(context.Background(), 1, models.Actor{UserID: 5, Wheeler: true}, validInput())
	assert.NoError(t, err)
}

func TestApproveVerificationIsOneTime(t *testing.T) {
	stored := &models.WheelerVerification{ID: 7, WheelerID: 5}
	saves := 0
	verificationRepo := noopVerificationRepo()
	verificationRepo.getByIDFn = func(context.Context, uint) (*models.WheelerVerification, error) {
		cp := *stored
		return &cp, nil
	}
	verificationRepo.saveFn = func(_ context.Context, v *models.WheelerVerification) error {
		saves++
		cp := *v
		stored = &cp
		return nil
	}
	recorder := &notifierRecorder{}
	svc := NewVerificationService(verificationRepo, listedBusinessRepo(), catalogWithFeatures(), recorder, 3)

	_, err := svc.ApproveVerification(context.Background(), 7, models.Actor{UserID: 1, Admin: true})
	require.NoError(t, err)
	_, err = svc.ApproveVerification(context.Background(), 7, models.Actor{UserID: 1, Admin: true})
	require.NoError(t, err)

	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, recorder.userCount(notifications.TemplateVerificationApproved))

	_, err = svc.ApproveVerification(context.Background(), 7, models.Actor{UserID: 5, Wheeler: true})
	assertAppErrorCode(t, err, models.CodeForbidden)
}
