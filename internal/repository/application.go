package repository

import (
	"context"
	"errors"

	"accessly/internal/models"

	"gorm.io/gorm"
)

// ApplicationRepository defines the interface for Wheeler verification
// application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.WheelerVerificationApplication) error
	GetByID(ctx context.Context, id uint) (*models.WheelerVerificationApplication, error)
	// GetByPair returns (nil, nil) when no application exists for the pair.
	GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerificationApplication, error)
	Save(ctx context.Context, application *models.WheelerVerificationApplication) error
	// DeletePending removes the unapproved application for the pair and
	// reports whether a row was actually removed.
	DeletePending(ctx context.Context, businessID, wheelerID uint) (bool, error)
	ListPending(ctx context.Context) ([]models.WheelerVerificationApplication, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.WheelerVerificationApplication) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		// The (business_id, wheeler_id) unique index is the authoritative
		// duplicate guard; the service pre-check only races with it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewDuplicatePendingError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.WheelerVerificationApplication, error) {
	var application models.WheelerVerificationApplication
	if err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("Wheeler").
		First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Application", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &application, nil
}

func (r *applicationRepository) GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerificationApplication, error) {
	var application models.WheelerVerificationApplication
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND wheeler_id = ?", businessID, wheelerID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &application, nil
}

func (r *applicationRepository) Save(ctx context.Context, application *models.WheelerVerificationApplication) error {
	if err := r.db.WithContext(ctx).Omit("Business", "Wheeler").Save(application).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicationRepository) DeletePending(ctx context.Context, businessID, wheelerID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND wheeler_id = ? AND approved = ?", businessID, wheelerID, false).
		Delete(&models.WheelerVerificationApplication{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepository) ListPending(ctx context.Context) ([]models.WheelerVerificationApplication, error) {
	var applications []models.WheelerVerificationApplication
	if err := r.db.WithContext(ctx).
		Where("approved = ?", false).
		Preload("Business").
		Preload("Wheeler").
		Order("created_at ASC").
		Find(&applications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return applications, nil
}
