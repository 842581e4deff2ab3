package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arosaje/backend/internal/models"
)

func TestToReviewListsUnadvisedActiveSessions(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	pending := seedCareWithOwner(t, database, models.CarePending)
	time.Sleep(5 * time.Millisecond)
	accepted := seedCareWithOwner(t, database, models.CareAccepted)
	completed := seedCareWithOwner(t, database, models.CareCompleted)
	advised := seedCareWithOwner(t, database, models.CareInProgress)

	botanist := seedUser(t, database, models.RoleBotanist, "bot1")
	_, err := advices.Create(ctx, advised.ID, botanist.ID, "Title", "Content.", models.PriorityUrgent)
	require.NoError(t, err)

	entries, err := reviews.ToReview(ctx, &models.ToReviewFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2, "completed and already-advised sessions are excluded")

	// newest first
	assert.Equal(t, accepted.ID, entries[0].ID)
	assert.Equal(t, pending.ID, entries[1].ID)
	for _, entry := range entries {
		assert.NotEqual(t, completed.ID, entry.ID, "completed sessions never need review")
		assert.NotEqual(t, advised.ID, entry.ID, "sessions with current advice belong to the other queue")
	}

	for _, entry := range entries {
		assert.Equal(t, models.PriorityNormal, entry.Priority, "never-advised sessions report normal priority")
		assert.Nil(t, entry.CurrentAdvice)
		assert.NotEmpty(t, entry.PlantName)
		assert.NotEmpty(t, entry.OwnerName)
	}
}

func TestToReviewPriorityFilterHasNoEffect(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	ctx := context.Background()

	seedCareWithOwner(t, database, models.CarePending)

	urgent := models.PriorityUrgent
	filtered, err := reviews.ToReview(ctx, &models.ToReviewFilter{Priority: &urgent})
	require.NoError(t, err)
	unfiltered, err := reviews.ToReview(ctx, &models.ToReviewFilter{})
	require.NoError(t, err)

	assert.Equal(t, len(unfiltered), len(filtered))
}

func TestToReviewPagination(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedCareWithOwner(t, database, models.CarePending)
		time.Sleep(5 * time.Millisecond)
	}

	page, err := reviews.ToReview(ctx, &models.ToReviewFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	// out-of-range limits fall back to defaults instead of failing
	all, err := reviews.ToReview(ctx, &models.ToReviewFilter{Skip: -5, Limit: -1})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWithAdviceAttachesCurrentAndHistory(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	care := seedCareWithOwner(t, database, models.CareAccepted)
	seedCareWithOwner(t, database, models.CarePending) // stays in the other queue

	author := seedUser(t, database, models.RoleBotanist, "author")
	reviewer := seedUser(t, database, models.RoleBotanist, "reviewer")

	v1, err := advices.Create(ctx, care.ID, author.ID, "v1", "Content.", models.PriorityUrgent)
	require.NoError(t, err)
	_, err = advices.Validate(ctx, v1.ID, reviewer.ID, models.ValidationValidated, nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	title := "v2"
	v2, err := advices.Update(ctx, v1.ID, author.ID, models.AdvicePatch{Title: &title})
	require.NoError(t, err)

	entries, err := reviews.WithAdvice(ctx, &models.ReviewedFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, care.ID, entry.ID)
	require.NotNil(t, entry.CurrentAdvice)
	assert.Equal(t, v2.ID, entry.CurrentAdvice.ID)
	assert.Equal(t, models.PriorityUrgent, entry.Priority, "priority comes from the current advice")
	assert.True(t, entry.NeedsValidation, "a fresh version is pending again")
	assert.Len(t, entry.AdviceHistory, 2)
	assert.Equal(t, 1, entry.ValidationCount, "superseded validated versions still count")
}

func TestWithAdviceFilters(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	careA := seedCareWithOwner(t, database, models.CareAccepted)
	careB := seedCareWithOwner(t, database, models.CareAccepted)

	alice := seedUser(t, database, models.RoleBotanist, "alice")
	bob := seedUser(t, database, models.RoleBotanist, "bob")

	adviceA, err := advices.Create(ctx, careA.ID, alice.ID, "A", "Content.", models.PriorityNormal)
	require.NoError(t, err)
	_, err = advices.Create(ctx, careB.ID, bob.ID, "B", "Content.", models.PriorityNormal)
	require.NoError(t, err)
	_, err = advices.Validate(ctx, adviceA.ID, bob.ID, models.ValidationValidated, nil)
	require.NoError(t, err)

	byAuthor, err := reviews.WithAdvice(ctx, &models.ReviewedFilter{BotanistID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, careA.ID, byAuthor[0].ID)

	validated := models.ValidationValidated
	byStatus, err := reviews.WithAdvice(ctx, &models.ReviewedFilter{Validation: &validated})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, careA.ID, byStatus[0].ID)
	assert.False(t, byStatus[0].NeedsValidation)

	pending := models.ValidationPending
	both, err := reviews.WithAdvice(ctx, &models.ReviewedFilter{BotanistID: &alice.ID, Validation: &pending})
	require.NoError(t, err)
	assert.Empty(t, both)
}

func TestStats(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	seedCareWithOwner(t, database, models.CarePending) // never advised
	urgentCare := seedCareWithOwner(t, database, models.CareAccepted)
	followUpCare := seedCareWithOwner(t, database, models.CareInProgress)

	alice := seedUser(t, database, models.RoleBotanist, "alice")
	bob := seedUser(t, database, models.RoleBotanist, "bob")

	urgentAdvice, err := advices.Create(ctx, urgentCare.ID, alice.ID, "Urgent", "Content.", models.PriorityUrgent)
	require.NoError(t, err)
	_, err = advices.Create(ctx, followUpCare.ID, bob.ID, "Follow up", "Content.", models.PriorityFollowUp)
	require.NoError(t, err)
	_, err = advices.Validate(ctx, urgentAdvice.ID, bob.ID, models.ValidationValidated, nil)
	require.NoError(t, err)

	stats, err := reviews.Stats(ctx, &bob.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalToReview)
	assert.Equal(t, int64(2), stats.TotalReviewed)
	assert.Equal(t, int64(1), stats.UrgentCount)
	assert.Equal(t, int64(1), stats.FollowUpCount)
	assert.Equal(t, int64(1), stats.PendingValidation)
	assert.Equal(t, int64(1), stats.MyAdviceCount)
	assert.Equal(t, int64(0), stats.MyValidatedCount)
	assert.Equal(t, int64(1), stats.MyValidationsDoneCount)
}

func TestStatsWithoutBotanist(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	care := seedCareWithOwner(t, database, models.CareAccepted)
	alice := seedUser(t, database, models.RoleBotanist, "alice")
	_, err := advices.Create(ctx, care.ID, alice.ID, "Title", "Content.", models.PriorityNormal)
	require.NoError(t, err)

	stats, err := reviews.Stats(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalReviewed)
	assert.Equal(t, int64(0), stats.MyAdviceCount)
	assert.Equal(t, int64(0), stats.MyValidatedCount)
	assert.Equal(t, int64(0), stats.MyValidationsDoneCount)
}

func TestStatsValidationsDoneSurviveReversioning(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	care := seedCareWithOwner(t, database, models.CareAccepted)
	author := seedUser(t, database, models.RoleBotanist, "author")
	reviewer := seedUser(t, database, models.RoleBotanist, "reviewer")

	v1, err := advices.Create(ctx, care.ID, author.ID, "Title", "Content.", models.PriorityNormal)
	require.NoError(t, err)
	_, err = advices.Validate(ctx, v1.ID, reviewer.ID, models.ValidationValidated, nil)
	require.NoError(t, err)
	_, err = advices.Update(ctx, v1.ID, author.ID, models.AdvicePatch{})
	require.NoError(t, err)

	stats, err := reviews.Stats(ctx, &reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MyValidationsDoneCount, "the judged version was superseded but the validation still counts")
}

func TestCountByPriority(t *testing.T) {
	database := setupTestDB(t)
	reviews := NewReviewRepository(database)
	advices := NewAdviceRepository(database)
	ctx := context.Background()

	careA := seedCareWithOwner(t, database, models.CareAccepted)
	careB := seedCareWithOwner(t, database, models.CareAccepted)
	alice := seedUser(t, database, models.RoleBotanist, "alice")

	v1, err := advices.Create(ctx, careA.ID, alice.ID, "A", "Content.", models.PriorityUrgent)
	require.NoError(t, err)
	_, err = advices.Create(ctx, careB.ID, alice.ID, "B", "Content.", models.PriorityUrgent)
	require.NoError(t, err)

	// downgrade careA's current advice; only current versions count
	normal := models.PriorityNormal
	_, err = advices.Update(ctx, v1.ID, alice.ID, models.AdvicePatch{Priority: &normal})
	require.NoError(t, err)

	urgent, err := reviews.CountByPriority(ctx, models.PriorityUrgent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), urgent)

	followUp, err := reviews.CountByPriority(ctx, models.PriorityFollowUp)
	require.NoError(t, err)
	assert.Equal(t, int64(0), followUp)
}
