package models

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the doctor profile, one-to-one with a User, practicing at any
// number of clinics. Clinic membership is a set, not a sequence.
type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Specialization string    `gorm:"size:150" json:"specialization"`
	Clinics        []Clinic  `gorm:"many2many:doctor_clinics;constraint:OnDelete:CASCADE" json:"clinics"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
