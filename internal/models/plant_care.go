package models

import "time"

// CareStatus is the lifecycle state of a plant care session
type CareStatus string

const (
	CarePending    CareStatus = "pending"
	CareAccepted   CareStatus = "accepted"
	CareRefused    CareStatus = "refused"
	CareInProgress CareStatus = "in_progress"
	CareCompleted  CareStatus = "completed"
	CareCancelled  CareStatus = "cancelled"
)

// ActiveCareStatuses are the states in which a session is still eligible
// for botanist review.
var ActiveCareStatuses = []CareStatus{CarePending, CareAccepted, CareInProgress}

// PlantCare is a plant-sitting session. The advice core reads it but never
// mutates it; its lifecycle is owned by the plant-care collaborator.
type PlantCare struct {
	ID          uint  `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	PlantID     uint  `json:"plant_id" gorm:"column:plant_id;not null;index"`
	OwnerID     uint  `json:"owner_id" gorm:"column:owner_id;not null;index"`
	CaretakerID *uint `json:"caretaker_id" gorm:"column:caretaker_id;index"`

	StartDate time.Time  `json:"start_date" gorm:"column:start_date;not null"`
	EndDate   time.Time  `json:"end_date" gorm:"column:end_date;not null"`
	Status    CareStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	CareInstructions *string  `json:"care_instructions" gorm:"column:care_instructions;type:text"`
	Location         *string  `json:"location" gorm:"column:location;type:varchar(255)"`
	Latitude         *float64 `json:"latitude" gorm:"column:latitude"`
	Longitude        *float64 `json:"longitude" gorm:"column:longitude"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the PlantCare model
func (PlantCare) TableName() string {
	return "plant_cares"
}
