package dto

import (
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/models"
)

type ClinicRequest struct {
	Name          string `json:"name"`
	LegalAddress  string `json:"legal_address"`
	ActualAddress string `json:"actual_address"`
}

type ClinicResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LegalAddress  string    `json:"legal_address"`
	ActualAddress string    `json:"actual_address"`
}

func NewClinicResponse(c *models.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:            c.ID,
		Name:          c.Name,
		LegalAddress:  c.LegalAddress,
		ActualAddress: c.ActualAddress,
	}
}

type UpdateDoctorRequest struct {
	Specialization *string      `json:"specialization"`
	Clinics        *[]uuid.UUID `json:"clinics"`
}

type DoctorResponse struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Username       string      `json:"username"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Specialization string      `json:"specialization"`
	Clinics        []uuid.UUID `json:"clinics"`
}

func NewDoctorResponse(d *models.Doctor) DoctorResponse {
	clinics := make([]uuid.UUID, 0, len(d.Clinics))
	for _, c := range d.Clinics {
		clinics = append(clinics, c.ID)
	}
	return DoctorResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		Username:       d.User.Username,
		FirstName:      d.User.FirstName,
		LastName:       d.User.LastName,
		Specialization: d.Specialization,
		Clinics:        clinics,
	}
}

type UpdatePatientRequest struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
}

func NewPatientResponse(p *models.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.User.Username,
		FirstName: p.User.FirstName,
		LastName:  p.User.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
	}
}
