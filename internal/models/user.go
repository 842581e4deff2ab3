package models

import "time"

// UserRole is supplied by the identity collaborator; the core trusts it
type UserRole string

const (
	RoleOwner    UserRole = "owner"
	RoleBotanist UserRole = "botanist"
	RoleAdmin    UserRole = "admin"
)

// User is a read-only projection used for authorship and ownership
// annotations on advice and queue entries.
type User struct {
	ID        uint     `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	FirstName string   `json:"first_name" gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string   `json:"last_name" gorm:"column:last_name;type:varchar(100);not null"`
	Email     string   `json:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Role      UserRole `json:"role" gorm:"column:role;type:varchar(20);not null;default:'owner'"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in notifications and queue entries
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
