package services

import (
	"context"

	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
	"github.com/arosaje/backend/internal/repositories"
)

type reviewService struct {
	reviews repositories.ReviewRepository
}

// NewReviewService creates a new review queue service
func NewReviewService(reviews repositories.ReviewRepository) ReviewService {
	return &reviewService{reviews: reviews}
}

func (s *reviewService) ToReview(ctx context.Context, filter *models.ToReviewFilter) ([]*models.ReviewQueueEntry, error) {
	if filter == nil {
		filter = &models.ToReviewFilter{}
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "priority", Message: "invalid priority"}
	}
	return s.reviews.ToReview(ctx, filter)
}

func (s *reviewService) Reviewed(ctx context.Context, filter *models.ReviewedFilter) ([]*models.ReviewQueueEntry, error) {
	if filter == nil {
		filter = &models.ReviewedFilter{}
	}
	if filter.Validation != nil && !filter.Validation.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "validation_status", Message: "invalid validation status"}
	}
	return s.reviews.WithAdvice(ctx, filter)
}

func (s *reviewService) Stats(ctx context.Context, botanistID *uint) (*models.AdviceStats, error) {
	return s.reviews.Stats(ctx, botanistID)
}

func (s *reviewService) CountByPriority(ctx context.Context, priority models.AdvicePriority) (int64, error) {
	if !priority.IsValid() {
		return 0, &apperrors.ErrValidation{Field: "priority", Message: "invalid priority"}
	}
	return s.reviews.CountByPriority(ctx, priority)
}
