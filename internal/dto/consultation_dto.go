package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/models"
)

type CreateConsultationRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
}

type UpdateConsultationRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type ConsultationResponse struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Status    string          `json:"status"`
	Doctor    DoctorResponse  `json:"doctor"`
	Patient   PatientResponse `json:"patient"`
}

func NewConsultationResponse(c *models.Consultation) ConsultationResponse {
	return ConsultationResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Status:    c.Status.String(),
		Doctor:    NewDoctorResponse(&c.Doctor),
		Patient:   NewPatientResponse(&c.Patient),
	}
}

type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}
