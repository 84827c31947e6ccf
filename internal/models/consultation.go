package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of consultation statuses. The lifecycle is
// pending → confirmed → started → finished → paid, but ordering is not
// enforced: ChangeStatus accepts any member of the set.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusStarted   Status = "started"
	StatusFinished  Status = "finished"
	StatusPaid      Status = "paid"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusStarted, StatusFinished, StatusPaid:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Consultation is a scheduled doctor/patient meeting. CreatedAt is
// server-assigned at creation and never updated afterwards; StartTime must
// precede EndTime at create and update.
type Consultation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    Status    `gorm:"size:10;not null" json:"status"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Doctor    Doctor    `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"doctor"`
	Patient   Patient   `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"patient"`
	UpdatedAt time.Time `json:"updated_at"`
}
