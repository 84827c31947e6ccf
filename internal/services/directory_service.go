package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/models"
	"github.com/clinicore/clinic-backend/internal/policy"
)

// DirectoryService manages the clinic, doctor and patient directories.
// Reads are open to any authenticated role; creation requires the staff flag
// and mutation the admin role, both decided by the policy package.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// --- Clinics ---

func (s *DirectoryService) ListClinics(a actor.Actor) ([]dto.ClinicResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Clinic{}); err != nil {
		return nil, err
	}

	var clinics []models.Clinic
	if err := s.db.Order("name ASC").Find(&clinics).Error; err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	out := make([]dto.ClinicResponse, 0, len(clinics))
	for i := range clinics {
		out = append(out, dto.NewClinicResponse(&clinics[i]))
	}
	return out, nil
}

func (s *DirectoryService) GetClinic(a actor.Actor, id uuid.UUID) (*dto.ClinicResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Clinic{}); err != nil {
		return nil, err
	}

	clinic, err := s.loadClinic(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewClinicResponse(clinic)
	return &resp, nil
}

func (s *DirectoryService) CreateClinic(a actor.Actor, req *dto.ClinicRequest) (*dto.ClinicResponse, error) {
	if err := policy.Authorize(a, policy.OpCreate, &models.Clinic{}); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("clinic name is required")
	}

	clinic := models.Clinic{
		ID:            uuid.New(),
		Name:          req.Name,
		LegalAddress:  req.LegalAddress,
		ActualAddress: req.ActualAddress,
	}
	if err := s.db.Create(&clinic).Error; err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}
	resp := dto.NewClinicResponse(&clinic)
	return &resp, nil
}

func (s *DirectoryService) UpdateClinic(a actor.Actor, id uuid.UUID, req *dto.ClinicRequest) (*dto.ClinicResponse, error) {
	if err := policy.Authorize(a, policy.OpUpdate, &models.Clinic{}); err != nil {
		return nil, err
	}

	clinic, err := s.loadClinic(id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("clinic name is required")
	}

	clinic.Name = req.Name
	clinic.LegalAddress = req.LegalAddress
	clinic.ActualAddress = req.ActualAddress
	if err := s.db.Save(clinic).Error; err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	resp := dto.NewClinicResponse(clinic)
	return &resp, nil
}

func (s *DirectoryService) DeleteClinic(a actor.Actor, id uuid.UUID) error {
	if err := policy.Authorize(a, policy.OpDelete, &models.Clinic{}); err != nil {
		return err
	}

	clinic, err := s.loadClinic(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM doctor_clinics WHERE clinic_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach clinic from doctors: %w", err)
		}
		return tx.Delete(clinic).Error
	})
}

// --- Doctors ---

func (s *DirectoryService) ListDoctors(a actor.Actor, search string) ([]dto.DoctorResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Doctor{}); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Doctor{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			`(LOWER(specialization) LIKE LOWER(?) OR user_id IN (
				SELECT id FROM users
				WHERE LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)))`,
			pattern, pattern, pattern,
		)
	}

	var doctors []models.Doctor
	if err := q.Preload("User").Preload("Clinics").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	out := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, dto.NewDoctorResponse(&doctors[i]))
	}
	return out, nil
}

func (s *DirectoryService) GetDoctor(a actor.Actor, id uuid.UUID) (*dto.DoctorResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Doctor{}); err != nil {
		return nil, err
	}
	doctor, err := s.loadDoctor(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDoctorResponse(doctor)
	return &resp, nil
}

// CreateDoctor is the staff-gated directory creation path; it applies the
// same one-to-one and clinic-resolution rules as doctor registration.
func (s *DirectoryService) CreateDoctor(a actor.Actor, req *dto.RegisterDoctorRequest) (*dto.DoctorResponse, error) {
	if err := policy.Authorize(a, policy.OpCreate, &models.Doctor{}); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.User).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", req.User)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	var existing models.Doctor
	if err := s.db.Where("user_id = ?", req.User).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("user %s already has a doctor profile", req.User)
	}

	doctor, err := createDoctorRecord(s.db, user.ID, req.Specialization, req.Clinics)
	if err != nil {
		return nil, err
	}
	return s.respondDoctor(doctor.ID)
}

func (s *DirectoryService) UpdateDoctor(a actor.Actor, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if err := policy.Authorize(a, policy.OpUpdate, &models.Doctor{}); err != nil {
		return nil, err
	}
	doctor, err := s.loadDoctor(id)
	if err != nil {
		return nil, err
	}

	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Clinics").Save(doctor).Error; err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		if req.Clinics != nil {
			clinics, err := resolveClinics(tx, *req.Clinics)
			if err != nil {
				return err
			}
			if err := tx.Model(doctor).Association("Clinics").Replace(clinics); err != nil {
				return fmt.Errorf("failed to replace clinic set: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.respondDoctor(id)
}

// DeleteDoctor removes the doctor and, by the documented cascade policy, all
// consultations referencing it, in one transaction.
func (s *DirectoryService) DeleteDoctor(a actor.Actor, id uuid.UUID) error {
	if err := policy.Authorize(a, policy.OpDelete, &models.Doctor{}); err != nil {
		return err
	}
	doctor, err := s.loadDoctor(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", id).Delete(&models.Consultation{}).Error; err != nil {
			return fmt.Errorf("failed to cascade consultations: %w", err)
		}
		if err := tx.Exec("DELETE FROM doctor_clinics WHERE doctor_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach clinics: %w", err)
		}
		return tx.Delete(doctor).Error
	})
}

// --- Patients ---

func (s *DirectoryService) ListPatients(a actor.Actor, search string) ([]dto.PatientResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Patient{}); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Patient{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			`(LOWER(email) LIKE LOWER(?) OR user_id IN (
				SELECT id FROM users
				WHERE LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)))`,
			pattern, pattern, pattern,
		)
	}

	var patients []models.Patient
	if err := q.Preload("User").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	out := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, dto.NewPatientResponse(&patients[i]))
	}
	return out, nil
}

func (s *DirectoryService) GetPatient(a actor.Actor, id uuid.UUID) (*dto.PatientResponse, error) {
	if err := policy.Authorize(a, policy.OpRead, &models.Patient{}); err != nil {
		return nil, err
	}
	patient, err := s.loadPatient(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPatientResponse(patient)
	return &resp, nil
}

func (s *DirectoryService) CreatePatient(a actor.Actor, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	if err := policy.Authorize(a, policy.OpCreate, &models.Patient{}); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.User).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", req.User)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	var existing models.Patient
	if err := s.db.Where("user_id = ?", req.User).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("user %s already has a patient profile", req.User)
	}

	patient := models.Patient{
		ID:     uuid.New(),
		UserID: user.ID,
		Phone:  req.Phone,
		Email:  req.Email,
	}
	if err := s.db.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return s.respondPatient(patient.ID)
}

func (s *DirectoryService) UpdatePatient(a actor.Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := policy.Authorize(a, policy.OpUpdate, &models.Patient{}); err != nil {
		return nil, err
	}
	patient, err := s.loadPatient(id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if err := s.db.Save(patient).Error; err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.respondPatient(id)
}

// DeletePatient cascades the patient's consultations like DeleteDoctor.
func (s *DirectoryService) DeletePatient(a actor.Actor, id uuid.UUID) error {
	if err := policy.Authorize(a, policy.OpDelete, &models.Patient{}); err != nil {
		return err
	}
	patient, err := s.loadPatient(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&models.Consultation{}).Error; err != nil {
			return fmt.Errorf("failed to cascade consultations: %w", err)
		}
		return tx.Delete(patient).Error
	})
}

// --- helpers ---

func (s *DirectoryService) loadClinic(id uuid.UUID) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := s.db.First(&clinic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("clinic %s not found", id)
		}
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	return &clinic, nil
}

func (s *DirectoryService) loadDoctor(id uuid.UUID) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.db.Preload("User").Preload("Clinics").First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor %s not found", id)
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	return &doctor, nil
}

func (s *DirectoryService) respondDoctor(id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := s.loadDoctor(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDoctorResponse(doctor)
	return &resp, nil
}

func (s *DirectoryService) loadPatient(id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Preload("User").First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient %s not found", id)
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return &patient, nil
}

func (s *DirectoryService) respondPatient(id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := s.loadPatient(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPatientResponse(patient)
	return &resp, nil
}
