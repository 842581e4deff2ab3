package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
)

type stubReviewRepo struct {
	entries []*models.ReviewQueueEntry
	stats   *models.AdviceStats
	count   int64

	lastToReview *models.ToReviewFilter
	lastReviewed *models.ReviewedFilter
}

func (s *stubReviewRepo) ToReview(_ context.Context, filter *models.ToReviewFilter) ([]*models.ReviewQueueEntry, error) {
	s.lastToReview = filter
	return s.entries, nil
}

func (s *stubReviewRepo) WithAdvice(_ context.Context, filter *models.ReviewedFilter) ([]*models.ReviewQueueEntry, error) {
	s.lastReviewed = filter
	return s.entries, nil
}

func (s *stubReviewRepo) Stats(_ context.Context, _ *uint) (*models.AdviceStats, error) {
	return s.stats, nil
}

func (s *stubReviewRepo) CountByPriority(_ context.Context, _ models.AdvicePriority) (int64, error) {
	return s.count, nil
}

func TestToReviewRejectsUnknownPriority(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{})

	bad := models.AdvicePriority("critical")
	_, err := svc.ToReview(context.Background(), &models.ToReviewFilter{Priority: &bad})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestToReviewNilFilter(t *testing.T) {
	repo := &stubReviewRepo{entries: []*models.ReviewQueueEntry{{ID: 1}}}
	svc := NewReviewService(repo)

	entries, err := svc.ToReview(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NotNil(t, repo.lastToReview, "a nil filter is replaced, not passed through")
}

func TestReviewedRejectsUnknownStatus(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{})

	bad := models.ValidationStatus("approved")
	_, err := svc.Reviewed(context.Background(), &models.ReviewedFilter{Validation: &bad})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCountByPriorityRejectsUnknown(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{count: 4})

	_, err := svc.CountByPriority(context.Background(), "severe")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	count, err := svc.CountByPriority(context.Background(), models.PriorityUrgent)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
