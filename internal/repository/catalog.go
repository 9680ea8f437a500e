package repository

import (
	"context"
	"errors"

	"accessly/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository provides read access to the accessibility feature and
// mobility device reference data.
type CatalogRepository interface {
	ListFeatures(ctx context.Context) ([]models.AccessibilityFeature, error)
	ListDevices(ctx context.Context) ([]models.MobilityDevice, error)
	// GetDevice returns (nil, nil) when the device does not exist; a
	// submission referencing a deleted device degrades to a null reference.
	GetDevice(ctx context.Context, id uint) (*models.MobilityDevice, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListFeatures(ctx context.Context) ([]models.AccessibilityFeature, error) {
	var features []models.AccessibilityFeature
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&features).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return features, nil
}

func (r *catalogRepository) ListDevices(ctx context.Context) ([]models.MobilityDevice, error) {
	var devices []models.MobilityDevice
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&devices).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return devices, nil
}

func (r *catalogRepository) GetDevice(ctx context.Context, id uint) (*models.MobilityDevice, error) {
	var device models.MobilityDevice
	if err := r.db.WithContext(ctx).First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &device, nil
}
