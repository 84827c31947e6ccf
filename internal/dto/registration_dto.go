package dto

import (
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/models"
)

type RegisterUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterPatientRequest struct {
	User  uuid.UUID `json:"user"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
}

type RegisterDoctorRequest struct {
	User           uuid.UUID   `json:"user"`
	Specialization string      `json:"specialization"`
	Clinics        []uuid.UUID `json:"clinics"`
}

// UpdateUserRequest carries a partial self-update; nil fields stay untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type PatientRegisteredResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
}

func NewPatientRegisteredResponse(p *models.Patient, u *models.User) PatientRegisteredResponse {
	return PatientRegisteredResponse{
		ID:       p.ID,
		Username: u.Username,
		Role:     u.Role.String(),
		Phone:    p.Phone,
		Email:    p.Email,
	}
}

type DoctorRegisteredResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Role           string      `json:"role"`
	Specialization string      `json:"specialization"`
	Clinics        []uuid.UUID `json:"clinics"`
}

func NewDoctorRegisteredResponse(d *models.Doctor, u *models.User) DoctorRegisteredResponse {
	clinics := make([]uuid.UUID, 0, len(d.Clinics))
	for _, c := range d.Clinics {
		clinics = append(clinics, c.ID)
	}
	return DoctorRegisteredResponse{
		ID:             d.ID,
		Username:       u.Username,
		Role:           u.Role.String(),
		Specialization: d.Specialization,
		Clinics:        clinics,
	}
}
