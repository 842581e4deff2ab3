package services

import (
	"context"

	"github.com/arosaje/backend/internal/models"
)

// AdviceService exposes the advice versioning and validation core to the API
// layer. All mutating operations are transactional: they either apply fully
// or leave no trace. Notification dispatch is best-effort and never fails
// the operation.
type AdviceService interface {
	Create(ctx context.Context, req *models.AdviceCreate, botanistID uint) (*models.Advice, error)
	Update(ctx context.Context, adviceID uint, patch *models.AdvicePatch, botanistID uint) (*models.Advice, error)
	Validate(ctx context.Context, adviceID uint, req *models.AdviceValidation, validatorID uint) (*models.Advice, error)
	Get(ctx context.Context, adviceID uint) (*models.Advice, error)
	// History and CurrentForPlantCare are restricted to the session's owner,
	// its caretaker, and botanists.
	History(ctx context.Context, plantCareID, userID uint, role models.UserRole) ([]*models.Advice, error)
	CurrentForPlantCare(ctx context.Context, plantCareID, userID uint, role models.UserRole) ([]*models.Advice, error)
}

// ReviewService exposes the botanist work queues and statistics
type ReviewService interface {
	ToReview(ctx context.Context, filter *models.ToReviewFilter) ([]*models.ReviewQueueEntry, error)
	Reviewed(ctx context.Context, filter *models.ReviewedFilter) ([]*models.ReviewQueueEntry, error)
	Stats(ctx context.Context, botanistID *uint) (*models.AdviceStats, error)
	CountByPriority(ctx context.Context, priority models.AdvicePriority) (int64, error)
}
