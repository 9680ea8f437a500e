package repository

import (
	"context"
	"errors"

	"accessly/internal/models"

	"gorm.io/gorm"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	// MarkVerificationRequested flips verification_requested to true unless
	// the business is already verified. Guarded update: a concurrent
	// auto-approval must not be overwritten by a late payment callback.
	MarkVerificationRequested(ctx context.Context, id uint) error
	// ConfirmPaidVerificationRequest consumes a payment intent and flips
	// verification_requested in one transaction. The unique index on
	// intent_id makes a replayed callback fail instead of re-confirming.
	ConfirmPaidVerificationRequest(ctx context.Context, id uint, intentID string, amountCents int64) error
}

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).
		Preload("MembershipTier").
		Preload("Features").
		First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Business", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &business, nil
}

func (r *businessRepository) MarkVerificationRequested(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verification_requested", true).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *businessRepository) ConfirmPaidVerificationRequest(ctx context.Context, id uint, intentID string, amountCents int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		confirmation := models.VerificationPaymentConfirmation{
			IntentID:    intentID,
			BusinessID:  id,
			AmountCents: amountCents,
		}
		if err := tx.Create(&confirmation).Error; err != nil {
			return err
		}
		return tx.Model(&models.Business{}).
			Where("id = ? AND verified = ?", id, false).
			Update("verification_requested", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("Payment has already been used")
		}
		return models.NewInternalError(err)
	}
	return nil
}
