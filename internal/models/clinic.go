package models

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is a flat directory record; doctors reference it many-to-many.
type Clinic struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:150;not null" json:"name"`
	LegalAddress  string    `gorm:"size:150" json:"legal_address"`
	ActualAddress string    `gorm:"size:150" json:"actual_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
