package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. IsValid is the only membership check;
// policy switches over Role must stay exhaustive so a new role forces every
// call site to be revisited.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is an authenticable identity. Exactly one per human; the Patient and
// Doctor profiles hang off it one-to-one. IsStaff gates directory creation
// independently of the role enum.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:10;not null" json:"role"`
	IsStaff   bool      `gorm:"not null;default:false" json:"-"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
