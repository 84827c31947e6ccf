package models

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the patient profile, one-to-one with a User. The unique index on
// UserID enforces the one-profile-per-identity invariant at the store level.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Phone     string    `gorm:"size:12" json:"phone"`
	Email     string    `gorm:"size:254" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
