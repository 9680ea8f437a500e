package repository

import (
	"context"
	"errors"

	"accessly/internal/models"

	"gorm.io/gorm"
)

// VerificationRepository defines the interface for completed verification
// data operations. Submit is the only write path for new verifications and
// runs as a single transaction.
type VerificationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.WheelerVerification, error)
	// GetByPair returns (nil, nil) when no verification exists for the pair.
	GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerification, error)
	// Submit atomically creates the verification with its feature links and
	// photos, recomputes the business's verification count, and flips the
	// business trust flags when the count reaches threshold. Reports whether
	// the threshold was met within the same transaction.
	Submit(ctx context.Context, verification *models.WheelerVerification, threshold int) (bool, error)
	Save(ctx context.Context, verification *models.WheelerVerification) error
	CountForBusiness(ctx context.Context, businessID uint) (int64, error)
	ListForBusiness(ctx context.Context, businessID uint) ([]models.WheelerVerification, error)
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) GetByID(ctx context.Context, id uint) (*models.WheelerVerification, error) {
	var verification models.WheelerVerification
	if err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("Wheeler").
		Preload("MobilityDevice").
		Preload("ConfirmedFeatures").
		Preload("AdditionalFeatures").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("wheeler_verification_photos.created_at ASC, wheeler_verification_photos.id ASC")
		}).
		First(&verification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Verification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &verification, nil
}

func (r *verificationRepository) GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerification, error) {
	var verification models.WheelerVerification
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND wheeler_id = ?", businessID, wheelerID).
		First(&verification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &verification, nil
}

func (r *verificationRepository) Submit(ctx context.Context, verification *models.WheelerVerification, threshold int) (bool, error) {
	thresholdMet := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(verification).Error; err != nil {
			return err
		}

		// The count read and the flag write stay inside the insert's
		// transaction so two concurrent submissions cannot both observe a
		// pre-threshold count and skip the flip.
		var count int64
		if err := tx.Model(&models.WheelerVerification{}).
			Where("business_id = ?", verification.BusinessID).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= int64(threshold) {
			if err := tx.Model(&models.Business{}).
				Where("id = ?", verification.BusinessID).
				Updates(map[string]interface{}{
					"verified":               true,
					"verification_requested": false,
				}).Error; err != nil {
				return err
			}
			thresholdMet = true
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, models.NewAlreadyVerifiedError()
		}
		return false, models.NewInternalError(err)
	}
	return thresholdMet, nil
}

func (r *verificationRepository) Save(ctx context.Context, verification *models.WheelerVerification) error {
	if err := r.db.WithContext(ctx).
		Omit("Business", "Wheeler", "MobilityDevice", "ConfirmedFeatures", "AdditionalFeatures", "Photos").
		Save(verification).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *verificationRepository) CountForBusiness(ctx context.Context, businessID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WheelerVerification{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *verificationRepository) ListForBusiness(ctx context.Context, businessID uint) ([]models.WheelerVerification, error) {
	var verifications []models.WheelerVerification
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Preload("MobilityDevice").
		Order("created_at ASC").
		Find(&verifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return verifications, nil
}
