package models

import "time"

// Plant belongs to the plant collaborator; the advice core only joins it
// for display fields on queue entries.
type Plant struct {
	ID       uint    `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	OwnerID  uint    `json:"owner_id" gorm:"column:owner_id;not null;index"`
	Name     string  `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Species  *string `json:"species" gorm:"column:species;type:varchar(255)"`
	PhotoURL *string `json:"photo_url" gorm:"column:photo_url;type:varchar(512)"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Plant model
func (Plant) TableName() string {
	return "plants"
}
