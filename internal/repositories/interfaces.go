package repositories

import (
	"context"

	"github.com/arosaje/backend/internal/models"
)

// AdviceRepository owns the advice version chain. All mutations of the
// is_current_version flag go through Create and Update; no other component
// may flip it.
type AdviceRepository interface {
	// Create inserts a new advice for the plant care session. If a current
	// version already exists it is retired in the same transaction and the
	// new record becomes its successor.
	Create(ctx context.Context, plantCareID, botanistID uint, title, content string, priority models.AdvicePriority) (*models.Advice, error)
	// Update creates the next version of the current advice identified by
	// adviceID, but only when botanistID is its author. Unset patch fields
	// inherit from the superseded version.
	Update(ctx context.Context, adviceID, botanistID uint, patch models.AdvicePatch) (*models.Advice, error)
	// Validate records a peer decision in place on the current version.
	// The author cannot validate their own advice; that case is reported
	// as not found.
	Validate(ctx context.Context, adviceID, validatorID uint, status models.ValidationStatus, comment *string) (*models.Advice, error)
	GetByID(ctx context.Context, adviceID uint) (*models.Advice, error)
	// History returns every version for the session, newest first.
	History(ctx context.Context, plantCareID uint) ([]*models.Advice, error)
	// CurrentForPlantCare returns, per distinct author, that author's most
	// recently created record for the session, newest first.
	CurrentForPlantCare(ctx context.Context, plantCareID uint) ([]*models.Advice, error)
	// MarkOwnerNotified / MarkBotanistNotified record best-effort delivery
	// of the corresponding notification.
	MarkOwnerNotified(ctx context.Context, adviceID uint) error
	MarkBotanistNotified(ctx context.Context, adviceID uint) error
}

// ReviewRepository builds the botanist work queues and dashboard statistics
type ReviewRepository interface {
	ToReview(ctx context.Context, filter *models.ToReviewFilter) ([]*models.ReviewQueueEntry, error)
	WithAdvice(ctx context.Context, filter *models.ReviewedFilter) ([]*models.ReviewQueueEntry, error)
	Stats(ctx context.Context, botanistID *uint) (*models.AdviceStats, error)
	CountByPriority(ctx context.Context, priority models.AdvicePriority) (int64, error)
}

// PlantCareRepository is the read-only view of the plant-care collaborator
type PlantCareRepository interface {
	GetByID(ctx context.Context, id uint) (*models.PlantCare, error)
}

// UserRepository is the read-only view of the user/profile collaborator
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}
