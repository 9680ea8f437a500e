package database

import (
	"testing"

	"accessly/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesLedgerEntities(t *testing.T) {
	var hasApplication, hasVerification, hasPhoto bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.WheelerVerificationApplication:
			hasApplication = true
		case *models.WheelerVerification:
			hasVerification = true
		case *models.WheelerVerificationPhoto:
			hasPhoto = true
		}
	}
	require.True(t, hasApplication, "PersistentModels should include WheelerVerificationApplication")
	require.True(t, hasVerification, "PersistentModels should include WheelerVerification")
	require.True(t, hasPhoto, "PersistentModels should include WheelerVerificationPhoto")
}
