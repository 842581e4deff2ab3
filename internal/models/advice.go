package models

import (
	"errors"
	"time"
)

// AdvicePriority classifies how quickly the plant owner should act on an advice
type AdvicePriority string

const (
	PriorityNormal   AdvicePriority = "normal"
	PriorityUrgent   AdvicePriority = "urgent"
	PriorityFollowUp AdvicePriority = "follow_up"
)

// IsValid reports whether p is one of the known priorities
func (p AdvicePriority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityFollowUp:
		return true
	}
	return false
}

// ValidationStatus is the peer-review outcome recorded on an advice version
type ValidationStatus string

const (
	ValidationPending       ValidationStatus = "pending"
	ValidationValidated     ValidationStatus = "validated"
	ValidationRejected      ValidationStatus = "rejected"
	ValidationNeedsRevision ValidationStatus = "needs_revision"
)

// IsValid reports whether s is one of the known validation statuses
func (s ValidationStatus) IsValid() bool {
	switch s {
	case ValidationPending, ValidationValidated, ValidationRejected, ValidationNeedsRevision:
		return true
	}
	return false
}

// Advice is one version of a botanist's advice for a plant care session.
// Versions of the same session form a backward-linked chain through
// PreviousVersionID; at most one record per plant care session carries
// IsCurrentVersion = true (enforced by a partial unique index).
type Advice struct {
	ID          uint `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	PlantCareID uint `json:"plant_care_id" gorm:"column:plant_care_id;not null;index"`
	BotanistID  uint `json:"botanist_id" gorm:"column:botanist_id;not null;index"`

	// Advice content
	Title    string         `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Content  string         `json:"content" gorm:"column:content;type:text;not null"`
	Priority AdvicePriority `json:"priority" gorm:"column:priority;type:varchar(20);not null;default:'normal'"`

	// Peer validation
	ValidationStatus  ValidationStatus `json:"validation_status" gorm:"column:validation_status;type:varchar(20);not null;default:'pending';index"`
	ValidatorID       *uint            `json:"validator_id" gorm:"column:validator_id;index"`
	ValidationComment *string          `json:"validation_comment" gorm:"column:validation_comment;type:text"`
	ValidatedAt       *time.Time       `json:"validated_at" gorm:"column:validated_at"`

	// Version chain
	Version           int   `json:"version" gorm:"column:version;not null;default:1"`
	IsCurrentVersion  bool  `json:"is_current_version" gorm:"column:is_current_version;not null;default:true;index"`
	PreviousVersionID *uint `json:"previous_version_id" gorm:"column:previous_version_id"`

	// Best-effort notification flags, not transactionally tied to delivery
	OwnerNotified    bool `json:"owner_notified" gorm:"column:owner_notified;not null;default:false"`
	BotanistNotified bool `json:"botanist_notified" gorm:"column:botanist_notified;not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	// Display projections, loaded on demand
	Botanist  *User `json:"botanist,omitempty" gorm:"foreignKey:BotanistID"`
	Validator *User `json:"validator,omitempty" gorm:"foreignKey:ValidatorID"`
}

// TableName returns the table name for the Advice model
func (Advice) TableName() string {
	return "advices"
}

// Validate validates the advice data before it is persisted
func (a *Advice) Validate() error {
	if a.PlantCareID == 0 {
		return errors.New("plant_care_id is required")
	}
	if a.BotanistID == 0 {
		return errors.New("botanist_id is required")
	}
	if a.Title == "" {
		return errors.New("title is required")
	}
	if len(a.Title) > 255 {
		return errors.New("title must be at most 255 characters")
	}
	if a.Content == "" {
		return errors.New("content is required")
	}
	if !a.Priority.IsValid() {
		return errors.New("priority must be 'normal', 'urgent' or 'follow_up'")
	}
	if !a.ValidationStatus.IsValid() {
		return errors.New("invalid validation status")
	}
	if a.Version < 1 {
		return errors.New("version must be positive")
	}
	return nil
}

// AdviceCreate is the payload for creating a new advice chain head or,
// when current advice already exists for the session, its next version.
type AdviceCreate struct {
	PlantCareID uint           `json:"plant_care_id" validate:"required"`
	Title       string         `json:"title" validate:"required,max=255"`
	Content     string         `json:"content" validate:"required"`
	Priority    AdvicePriority `json:"priority" validate:"omitempty,oneof=normal urgent follow_up"`
}

// AdvicePatch is a partial update; nil fields inherit from the version
// being superseded.
type AdvicePatch struct {
	Title    *string         `json:"title" validate:"omitempty,max=255"`
	Content  *string         `json:"content"`
	Priority *AdvicePriority `json:"priority" validate:"omitempty,oneof=normal urgent follow_up"`
}

// AdviceValidation is the payload for the peer validation decision.
// A rejection must carry a comment; that rule is enforced at the input
// boundary, not by the storage layer.
type AdviceValidation struct {
	ValidationStatus  ValidationStatus `json:"validation_status" validate:"required,oneof=pending validated rejected needs_revision"`
	ValidationComment *string          `json:"validation_comment"`
}
