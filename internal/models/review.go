package models

import "time"

// ReviewQueueEntry is one row of the botanist work queues: a plant care
// session with its denormalized display fields and, for reviewed sessions,
// the current advice plus its full version history.
type ReviewQueueEntry struct {
	ID               uint       `json:"id"`
	PlantID          uint       `json:"plant_id"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	CareInstructions *string    `json:"care_instructions"`
	Location         *string    `json:"location"`
	Status           CareStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`

	PlantName     string  `json:"plant_name"`
	PlantSpecies  *string `json:"plant_species"`
	PlantImageURL *string `json:"plant_image_url"`
	OwnerName     string  `json:"owner_name"`
	OwnerEmail    string  `json:"owner_email"`

	// NORMAL by convention when the session has never been advised
	Priority AdvicePriority `json:"priority"`

	CurrentAdvice   *Advice   `json:"current_advice"`
	AdviceHistory   []*Advice `json:"advice_history"`
	NeedsValidation bool      `json:"needs_validation"`
	ValidationCount int       `json:"validation_count"`
}

// ToReviewFilter selects active sessions that still lack current advice.
// Priority is accepted but has no effect: never-advised sessions always
// report NORMAL priority. Kept for wire compatibility.
type ToReviewFilter struct {
	Priority *AdvicePriority
	Skip     int
	Limit    int
}

// ReviewedFilter selects sessions that carry a current advice
type ReviewedFilter struct {
	BotanistID *uint
	Validation *ValidationStatus
	Skip       int
	Limit      int
}

// AdviceStats aggregates the review dashboard counters. The my_* fields are
// zero unless a botanist id was supplied.
type AdviceStats struct {
	TotalToReview          int64 `json:"total_to_review"`
	TotalReviewed          int64 `json:"total_reviewed"`
	UrgentCount            int64 `json:"urgent_count"`
	FollowUpCount          int64 `json:"follow_up_count"`
	PendingValidation      int64 `json:"pending_validation"`
	MyAdviceCount          int64 `json:"my_advice_count"`
	MyValidatedCount       int64 `json:"my_validated_count"`
	MyValidationsDoneCount int64 `json:"my_validations_done_count"`
}
