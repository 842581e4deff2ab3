package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arosaje/backend/internal/db"
	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
)

type adviceRepository struct {
	db *db.DB
}

// NewAdviceRepository creates a new advice repository
func NewAdviceRepository(database *db.DB) AdviceRepository {
	return &adviceRepository{db: database}
}

func (r *adviceRepository) Create(ctx context.Context, plantCareID, botanistID uint, title, content string, priority models.AdvicePriority) (*models.Advice, error) {
	if priority == "" {
		priority = models.PriorityNormal
	}

	advice := &models.Advice{
		PlantCareID:      plantCareID,
		BotanistID:       botanistID,
		Title:            title,
		Content:          content,
		Priority:         priority,
		ValidationStatus: models.ValidationPending,
		Version:          1,
		IsCurrentVersion: true,
	}
	if err := advice.Validate(); err != nil {
		return nil, &apperrors.ErrValidation{Field: "advice", Message: err.Error()}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev models.Advice
		err := tx.Where("plant_care_id = ? AND is_current_version = ?", plantCareID, true).First(&prev).Error
		switch {
		case err == nil:
			if chainErr := retireCurrent(tx, &prev); chainErr != nil {
				return chainErr
			}
			advice.Version = prev.Version + 1
			advice.PreviousVersionID = &prev.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first version of the chain
		default:
			return fmt.Errorf("failed to look up current advice: %w", err)
		}

		if err := tx.Create(advice).Error; err != nil {
			return fmt.Errorf("failed to create advice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return advice, nil
}

func (r *adviceRepository) Update(ctx context.Context, adviceID, botanistID uint, patch models.AdvicePatch) (*models.Advice, error) {
	var next *models.Advice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only the current version, and only for its original author. A miss
		// on any of the three predicates is reported uniformly as not found.
		var prev models.Advice
		err := tx.Where("id = ? AND is_current_version = ? AND botanist_id = ?", adviceID, true, botanistID).First(&prev).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperrors.ErrNotFound{Resource: "advice", ID: adviceID}
		}
		if err != nil {
			return fmt.Errorf("failed to look up current advice: %w", err)
		}

		if chainErr := retireCurrent(tx, &prev); chainErr != nil {
			return chainErr
		}

		next = &models.Advice{
			PlantCareID:       prev.PlantCareID,
			BotanistID:        prev.BotanistID,
			Title:             prev.Title,
			Content:           prev.Content,
			Priority:          prev.Priority,
			ValidationStatus:  models.ValidationPending,
			Version:           prev.Version + 1,
			PreviousVersionID: &prev.ID,
			IsCurrentVersion:  true,
		}
		if patch.Title != nil {
			next.Title = *patch.Title
		}
		if patch.Content != nil {
			next.Content = *patch.Content
		}
		if patch.Priority != nil {
			next.Priority = *patch.Priority
		}
		if err := next.Validate(); err != nil {
			return &apperrors.ErrValidation{Field: "advice", Message: err.Error()}
		}

		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("failed to create advice version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return next, nil
}

// retireCurrent flips the is_current_version flag on prev inside the caller's
// transaction. The flag must be cleared before the successor is inserted so
// the partial unique index on (plant_care_id) WHERE is_current_version never
// sees two current rows.
func retireCurrent(tx *gorm.DB, prev *models.Advice) error {
	result := tx.Model(&models.Advice{}).
		Where("id = ? AND is_current_version = ?", prev.ID, true).
		Update("is_current_version", false)
	if result.Error != nil {
		return fmt.Errorf("failed to retire advice version %d: %w", prev.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost a race with a concurrent writer; abort so the whole
		// transaction rolls back and the caller can retry.
		return fmt.Errorf("advice version %d was superseded concurrently", prev.ID)
	}
	return nil
}

func (r *adviceRepository) Validate(ctx context.Context, adviceID, validatorID uint, status models.ValidationStatus, comment *string) (*models.Advice, error) {
	if !status.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "validation_status", Message: "invalid validation status"}
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Advice{}).
		Where("id = ? AND is_current_version = ? AND botanist_id <> ?", adviceID, true, validatorID).
		Updates(map[string]interface{}{
			"validation_status":  status,
			"validation_comment": comment,
			"validator_id":       validatorID,
			"validated_at":       now,
			"botanist_notified":  false,
			"updated_at":         now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to validate advice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Missing, superseded, or the validator is the author; all three
		// look the same to the caller.
		return nil, &apperrors.ErrNotFound{Resource: "advice", ID: adviceID}
	}

	return r.GetByID(ctx, adviceID)
}

func (r *adviceRepository) GetByID(ctx context.Context, adviceID uint) (*models.Advice, error) {
	var advice models.Advice
	err := r.db.WithContext(ctx).
		Preload("Botanist").
		Preload("Validator").
		First(&advice, "id = ?", adviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.ErrNotFound{Resource: "advice", ID: adviceID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get advice: %w", err)
	}
	return &advice, nil
}

func (r *adviceRepository) History(ctx context.Context, plantCareID uint) ([]*models.Advice, error) {
	var advices []*models.Advice
	err := r.db.WithContext(ctx).
		Preload("Botanist").
		Preload("Validator").
		Where("plant_care_id = ?", plantCareID).
		Order("created_at DESC").
		Find(&advices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list advice history: %w", err)
	}
	return advices, nil
}

func (r *adviceRepository) CurrentForPlantCare(ctx context.Context, plantCareID uint) ([]*models.Advice, error) {
	// Latest record per author, independent of the global current pointer:
	// every botanist's most recent take on the session is shown side by side.
	latest := r.db.Model(&models.Advice{}).
		Select("botanist_id, MAX(created_at) AS max_created_at").
		Where("plant_care_id = ?", plantCareID).
		Group("botanist_id")

	var advices []*models.Advice
	err := r.db.WithContext(ctx).
		Preload("Botanist").
		Preload("Validator").
		Joins("JOIN (?) latest ON latest.botanist_id = advices.botanist_id AND latest.max_created_at = advices.created_at", latest).
		Where("advices.plant_care_id = ?", plantCareID).
		Order("advices.created_at DESC").
		Find(&advices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list current advice: %w", err)
	}
	return advices, nil
}

func (r *adviceRepository) MarkOwnerNotified(ctx context.Context, adviceID uint) error {
	return r.markNotified(ctx, adviceID, "owner_notified")
}

func (r *adviceRepository) MarkBotanistNotified(ctx context.Context, adviceID uint) error {
	return r.markNotified(ctx, adviceID, "botanist_notified")
}

func (r *adviceRepository) markNotified(ctx context.Context, adviceID uint, column string) error {
	result := r.db.WithContext(ctx).Model(&models.Advice{}).
		Where("id = ?", adviceID).
		Update(column, true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "advice", ID: adviceID}
	}
	return nil
}
