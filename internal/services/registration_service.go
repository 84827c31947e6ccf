package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/models"
)

// RegistrationService creates identities and links Patient/Doctor profiles to
// them. One-to-one and uniqueness invariants are guarded here and backed by
// unique indexes at the store level, so concurrent check-then-create races
// still fail on the second writer.
type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

func (s *RegistrationService) RegisterIdentity(req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperr.Validation("username is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	role := models.Role(req.Role)
	if !role.IsValid() {
		return nil, apperr.Validation("unknown role %q", req.Role)
	}

	var existing models.User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("username %q is already registered", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Password:  string(hash),
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// RegisterPatientProfile links a Patient profile to an existing identity. The
// identity's role is deliberately not cross-checked against the profile kind;
// the source system behaves the same way.
func (s *RegistrationService) RegisterPatientProfile(req *dto.RegisterPatientRequest) (*dto.PatientRegisteredResponse, error) {
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
		return nil, fmt.Errorf("failed to create patient profile: %w", err)
	}

	resp := dto.NewPatientRegisteredResponse(&patient, &user)
	return &resp, nil
}

func (s *RegistrationService) RegisterDoctorProfile(req *dto.RegisterDoctorRequest) (*dto.DoctorRegisteredResponse, error) {
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

	resp := dto.NewDoctorRegisteredResponse(doctor, &user)
	return &resp, nil
}

// UpdateIdentity is a self-update: only the authenticated caller reaches it,
// and it always targets the caller's own row. A password change revokes every
// outstanding refresh token in the same transaction.
func (s *RegistrationService) UpdateIdentity(userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, apperr.Validation("username must not be empty")
		}
		var other models.User
		if err := s.db.Where("username = ?", *req.Username).First(&other).Error; err == nil {
			return nil, apperr.Conflict("username %q is already registered", *req.Username)
		}
		user.Username = *req.Username
	}

	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.IsValid() {
			return nil, apperr.Validation("unknown role %q", *req.Role)
		}
		user.Role = role
	}

	passwordChanged := false
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, apperr.Validation("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
		passwordChanged = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if passwordChanged {
			return RevokeAllForUser(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// createDoctorRecord resolves the clinic set and creates the doctor row plus
// its clinic associations in one transaction. All unresolved clinic IDs are
// reported together.
func createDoctorRecord(db *gorm.DB, userID uuid.UUID, specialization string, clinicIDs []uuid.UUID) (*models.Doctor, error) {
	clinics, err := resolveClinics(db, clinicIDs)
	if err != nil {
		return nil, err
	}

	doctor := models.Doctor{
		ID:             uuid.New(),
		UserID:         userID,
		Specialization: specialization,
		Clinics:        clinics,
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&doctor).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create doctor profile: %w", err)
	}

	return &doctor, nil
}

func resolveClinics(db *gorm.DB, ids []uuid.UUID) ([]models.Clinic, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var clinics []models.Clinic
	if err := db.Where("id IN ?", ids).Find(&clinics).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve clinics: %w", err)
	}

	if len(clinics) != len(uniqueIDs(ids)) {
		found := make(map[uuid.UUID]bool, len(clinics))
		for _, c := range clinics {
			found[c.ID] = true
		}
		var missing []string
		for _, id := range uniqueIDs(ids) {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, apperr.Validation("unknown clinic ids: %s", strings.Join(missing, ", "))
	}

	return clinics, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
