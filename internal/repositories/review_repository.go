package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arosaje/backend/internal/db"
	"github.com/arosaje/backend/internal/models"
)

type reviewRepository struct {
	db *db.DB
}

// NewReviewRepository creates a new review queue repository
func NewReviewRepository(database *db.DB) ReviewRepository {
	return &reviewRepository{db: database}
}

// queueRow is the scan target for the denormalized queue queries
type queueRow struct {
	ID               uint
	PlantID          uint
	StartDate        time.Time
	EndDate          time.Time
	CareInstructions *string
	Location         *string
	Status           models.CareStatus
	CreatedAt        time.Time
	PlantName        string
	PlantSpecies     *string
	PlantImageURL    *string
	OwnerFirstName   string
	OwnerLastName    string
	OwnerEmail       string
}

func (row *queueRow) toEntry() *models.ReviewQueueEntry {
	return &models.ReviewQueueEntry{
		ID:               row.ID,
		PlantID:          row.PlantID,
		StartDate:        row.StartDate,
		EndDate:          row.EndDate,
		CareInstructions: row.CareInstructions,
		Location:         row.Location,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt,
		PlantName:        row.PlantName,
		PlantSpecies:     row.PlantSpecies,
		PlantImageURL:    row.PlantImageURL,
		OwnerName:        row.OwnerFirstName + " " + row.OwnerLastName,
		OwnerEmail:       row.OwnerEmail,
		Priority:         models.PriorityNormal,
		AdviceHistory:    []*models.Advice{},
	}
}

const queueSelect = `plant_cares.id, plant_cares.plant_id, plant_cares.start_date, plant_cares.end_date,
	plant_cares.care_instructions, plant_cares.location, plant_cares.status, plant_cares.created_at,
	plants.name AS plant_name, plants.species AS plant_species, plants.photo_url AS plant_image_url,
	users.first_name AS owner_first_name, users.last_name AS owner_last_name, users.email AS owner_email`

func (r *reviewRepository) ToReview(ctx context.Context, filter *models.ToReviewFilter) ([]*models.ReviewQueueEntry, error) {
	skip, limit := pagination(filter.Skip, filter.Limit)

	// filter.Priority is accepted but has no effect: a session in this queue
	// has no current advice, so its priority is NORMAL by convention.
	var rows []queueRow
	err := r.db.WithContext(ctx).
		Table("plant_cares").
		Select(queueSelect).
		Joins("JOIN plants ON plants.id = plant_cares.plant_id").
		Joins("JOIN users ON users.id = plant_cares.owner_id").
		Where("plant_cares.status IN ?", models.ActiveCareStatuses).
		Where("NOT EXISTS (SELECT 1 FROM advices WHERE advices.plant_care_id = plant_cares.id AND advices.is_current_version = ?)", true).
		Order("plant_cares.created_at DESC").
		Offset(skip).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plant cares to review: %w", err)
	}

	entries := make([]*models.ReviewQueueEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntry())
	}
	return entries, nil
}

func (r *reviewRepository) WithAdvice(ctx context.Context, filter *models.ReviewedFilter) ([]*models.ReviewQueueEntry, error) {
	skip, limit := pagination(filter.Skip, filter.Limit)

	query := r.db.WithContext(ctx).
		Table("plant_cares").
		Select(queueSelect).
		Joins("JOIN plants ON plants.id = plant_cares.plant_id").
		Joins("JOIN users ON users.id = plant_cares.owner_id").
		Joins("JOIN advices ON advices.plant_care_id = plant_cares.id").
		Where("advices.is_current_version = ?", true)

	if filter.BotanistID != nil {
		query = query.Where("advices.botanist_id = ?", *filter.BotanistID)
	}
	if filter.Validation != nil {
		query = query.Where("advices.validation_status = ?", *filter.Validation)
	}

	var rows []queueRow
	err := query.
		Order("advices.updated_at DESC").
		Offset(skip).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewed plant cares: %w", err)
	}

	entries := make([]*models.ReviewQueueEntry, 0, len(rows))
	for i := range rows {
		entry := rows[i].toEntry()
		if err := r.attachAdvice(ctx, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// attachAdvice loads the current advice, the full version history and the
// validation counters for one queue entry.
func (r *reviewRepository) attachAdvice(ctx context.Context, entry *models.ReviewQueueEntry) error {
	var current models.Advice
	err := r.db.WithContext(ctx).
		Preload("Botanist").
		Preload("Validator").
		Where("plant_care_id = ? AND is_current_version = ?", entry.ID, true).
		First(&current).Error
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to load current advice for plant care %d: %w", entry.ID, err)
	}
	if err == nil {
		entry.CurrentAdvice = &current
		entry.Priority = current.Priority
		entry.NeedsValidation = current.ValidationStatus == models.ValidationPending
	}

	var history []*models.Advice
	err = r.db.WithContext(ctx).
		Preload("Botanist").
		Preload("Validator").
		Where("plant_care_id = ?", entry.ID).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return fmt.Errorf("failed to load advice history for plant care %d: %w", entry.ID, err)
	}
	entry.AdviceHistory = history

	// Validations are permanent audit facts: superseded versions count too
	for _, advice := range history {
		if advice.ValidationStatus == models.ValidationValidated {
			entry.ValidationCount++
		}
	}
	return nil
}

func (r *reviewRepository) Stats(ctx context.Context, botanistID *uint) (*models.AdviceStats, error) {
	stats := &models.AdviceStats{}
	tx := r.db.WithContext(ctx)

	advised := tx.Model(&models.Advice{}).
		Select("plant_care_id").
		Where("is_current_version = ?", true)

	if err := tx.Model(&models.PlantCare{}).
		Where("status IN ?", models.ActiveCareStatuses).
		Where("id NOT IN (?)", advised).
		Count(&stats.TotalToReview).Error; err != nil {
		return nil, fmt.Errorf("failed to count plant cares to review: %w", err)
	}

	if err := r.countCurrent(ctx, &stats.TotalReviewed); err != nil {
		return nil, err
	}
	if err := r.countCurrent(ctx, &stats.UrgentCount, "priority = ?", models.PriorityUrgent); err != nil {
		return nil, err
	}
	if err := r.countCurrent(ctx, &stats.FollowUpCount, "priority = ?", models.PriorityFollowUp); err != nil {
		return nil, err
	}
	if err := r.countCurrent(ctx, &stats.PendingValidation, "validation_status = ?", models.ValidationPending); err != nil {
		return nil, err
	}

	if botanistID != nil {
		if err := r.countCurrent(ctx, &stats.MyAdviceCount, "botanist_id = ?", *botanistID); err != nil {
			return nil, err
		}
		if err := r.countCurrent(ctx, &stats.MyValidatedCount, "botanist_id = ? AND validation_status = ?", *botanistID, models.ValidationValidated); err != nil {
			return nil, err
		}
		// Validations done survive re-versioning of the record they judged,
		// so no is_current_version predicate here.
		if err := tx.Model(&models.Advice{}).
			Where("validator_id = ?", *botanistID).
			Count(&stats.MyValidationsDoneCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count validations done: %w", err)
		}
	}

	return stats, nil
}

// countCurrent counts current advice versions matching the extra conditions
func (r *reviewRepository) countCurrent(ctx context.Context, dest *int64, conds ...interface{}) error {
	query := r.db.WithContext(ctx).Model(&models.Advice{}).Where("is_current_version = ?", true)
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}
	if err := query.Count(dest).Error; err != nil {
		return fmt.Errorf("failed to count advice: %w", err)
	}
	return nil
}

func (r *reviewRepository) CountByPriority(ctx context.Context, priority models.AdvicePriority) (int64, error) {
	var count int64
	if err := r.countCurrent(ctx, &count, "priority = ?", priority); err != nil {
		return 0, err
	}
	return count, nil
}

func pagination(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return skip, limit
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
