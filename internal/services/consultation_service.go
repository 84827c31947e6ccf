package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/models"
	"github.com/clinicore/clinic-backend/internal/policy"
)

// ConsultationService owns the consultation ledger: creation, ownership-scoped
// reads and the status overwrite operation. Policy decisions are delegated to
// the policy package; this service only loads targets and applies outcomes.
type ConsultationService struct {
	db *gorm.DB
}

func NewConsultationService(db *gorm.DB) *ConsultationService {
	return &ConsultationService{db: db}
}

// ConsultationFilter narrows List results. Search matches doctor or patient
// first/last names, case-insensitively. Order is "created_at" or
// "-created_at".
type ConsultationFilter struct {
	Status string
	Search string
	Order  string
	Page   int
	Limit  int
}

func (s *ConsultationService) Create(a actor.Actor, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	if err := policy.Authorize(a, policy.OpCreate, &models.Consultation{}); err != nil {
		return nil, err
	}

	if !req.StartTime.Before(req.EndTime) {
		return nil, apperr.Validation("start_time must be before end_time")
	}

	status := models.StatusPending
	if req.Status != "" {
		status = models.Status(req.Status)
		if !status.IsValid() {
			return nil, apperr.InvalidStatus("unknown status %q", req.Status)
		}
	}

	var doctor models.Doctor
	if err := s.db.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor %s not found", req.DoctorID)
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	var patient models.Patient
	if err := s.db.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient %s not found", req.PatientID)
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	consultation := models.Consultation{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	return s.respond(consultation.ID)
}

func (s *ConsultationService) List(a actor.Actor, f ConsultationFilter) (*dto.ConsultationListResponse, error) {
	if !a.Role.IsValid() {
		return nil, apperr.Forbidden("role %q may not list consultations", a.Role)
	}
	if f.Status != "" && !models.Status(f.Status).IsValid() {
		return nil, apperr.InvalidStatus("unknown status %q", f.Status)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.db.Model(&models.Consultation{}).Scopes(actor.OwnedConsultations(a))

	if f.Status != "" {
		q = q.Where("consultations.status = ?", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(
			`(consultations.doctor_id IN (
				SELECT d.id FROM doctors d JOIN users u ON u.id = d.user_id
				WHERE LOWER(u.first_name) LIKE LOWER(?) OR LOWER(u.last_name) LIKE LOWER(?))
			OR consultations.patient_id IN (
				SELECT p.id FROM patients p JOIN users u ON u.id = p.user_id
				WHERE LOWER(u.first_name) LIKE LOWER(?) OR LOWER(u.last_name) LIKE LOWER(?)))`,
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}

	order := "created_at ASC"
	if f.Order == "-created_at" {
		order = "created_at DESC"
	}

	var consultations []models.Consultation
	err := q.Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Doctor.User").
		Preload("Doctor.Clinics").
		Preload("Patient.User").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}

	out := make([]dto.ConsultationResponse, 0, len(consultations))
	for i := range consultations {
		out = append(out, dto.NewConsultationResponse(&consultations[i]))
	}

	return &dto.ConsultationListResponse{
		Consultations: out,
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *ConsultationService) Get(a actor.Actor, id uuid.UUID) (*dto.ConsultationResponse, error) {
	consultation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(a, policy.OpRead, consultation); err != nil {
		return nil, err
	}
	resp := dto.NewConsultationResponse(consultation)
	return &resp, nil
}

// Update replaces the schedule and status of a consultation. CreatedAt is
// immutable and never touched.
func (s *ConsultationService) Update(a actor.Actor, id uuid.UUID, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error) {
	consultation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(a, policy.OpUpdate, consultation); err != nil {
		return nil, err
	}

	if !req.StartTime.Before(req.EndTime) {
		return nil, apperr.Validation("start_time must be before end_time")
	}
	status := consultation.Status
	if req.Status != "" {
		status = models.Status(req.Status)
		if !status.IsValid() {
			return nil, apperr.InvalidStatus("unknown status %q", req.Status)
		}
	}

	updates := map[string]interface{}{
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
		"status":     status,
	}
	if err := s.db.Model(consultation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}

	return s.respond(id)
}

func (s *ConsultationService) Delete(a actor.Actor, id uuid.UUID) error {
	consultation, err := s.load(id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(a, policy.OpDelete, consultation); err != nil {
		return err
	}
	if err := s.db.Delete(&models.Consultation{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}
	return nil
}

// ChangeStatus overwrites the status unconditionally with any member of the
// status set; ordering of the lifecycle is not enforced. Only the assigned
// doctor may call it.
func (s *ConsultationService) ChangeStatus(a actor.Actor, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.ConsultationResponse, error) {
	consultation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(a, policy.OpChangeStatus, consultation); err != nil {
		return nil, err
	}

	status := models.Status(req.Status)
	if !status.IsValid() {
		return nil, apperr.InvalidStatus("unknown status %q", req.Status)
	}

	if err := s.db.Model(consultation).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to change consultation status: %w", err)
	}

	return s.respond(id)
}

func (s *ConsultationService) load(id uuid.UUID) (*models.Consultation, error) {
	var consultation models.Consultation
	err := s.db.
		Preload("Doctor.User").
		Preload("Doctor.Clinics").
		Preload("Patient.User").
		First(&consultation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("consultation %s not found", id)
		}
		return nil, fmt.Errorf("failed to load consultation: %w", err)
	}
	return &consultation, nil
}

func (s *ConsultationService) respond(id uuid.UUID) (*dto.ConsultationResponse, error) {
	consultation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewConsultationResponse(consultation)
	return &resp, nil
}
