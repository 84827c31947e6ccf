package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/models"
)

func consultationFor(doctorUser, patientUser uuid.UUID) *models.Consultation {
	return &models.Consultation{
		ID:      uuid.New(),
		Doctor:  models.Doctor{ID: uuid.New(), UserID: doctorUser},
		Patient: models.Patient{ID: uuid.New(), UserID: patientUser},
	}
}

func TestAuthorizeConsultation(t *testing.T) {
	doctorUser := uuid.New()
	patientUser := uuid.New()
	otherUser := uuid.New()

	consultation := consultationFor(doctorUser, patientUser)

	admin := actor.Actor{UserID: uuid.New(), Role: models.RoleAdmin}
	owningDoctor := actor.Actor{UserID: doctorUser, Role: models.RoleDoctor}
	otherDoctor := actor.Actor{UserID: otherUser, Role: models.RoleDoctor}
	owningPatient := actor.Actor{UserID: patientUser, Role: models.RolePatient}
	otherPatient := actor.Actor{UserID: otherUser, Role: models.RolePatient}

	tests := []struct {
		name    string
		actor   actor.Actor
		op      Op
		wantErr bool
	}{
		{"admin create", admin, OpCreate, false},
		{"doctor create", owningDoctor, OpCreate, true},
		{"patient create", owningPatient, OpCreate, true},

		{"admin read", admin, OpRead, false},
		{"owning doctor read", owningDoctor, OpRead, false},
		{"other doctor read", otherDoctor, OpRead, true},
		{"owning patient read", owningPatient, OpRead, false},
		{"other patient read", otherPatient, OpRead, true},

		{"admin update", admin, OpUpdate, false},
		{"owning doctor update", owningDoctor, OpUpdate, true},
		{"admin delete", admin, OpDelete, false},
		{"owning patient delete", owningPatient, OpDelete, true},

		{"owning doctor change_status", owningDoctor, OpChangeStatus, false},
		{"other doctor change_status", otherDoctor, OpChangeStatus, true},
		{"admin change_status", admin, OpChangeStatus, true},
		{"owning patient change_status", owningPatient, OpChangeStatus, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.op, consultation)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindForbidden),
					"denials must be Forbidden, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeDirectory(t *testing.T) {
	staffAdmin := actor.Actor{UserID: uuid.New(), Role: models.RoleAdmin, IsStaff: true}
	plainAdmin := actor.Actor{UserID: uuid.New(), Role: models.RoleAdmin}
	staffDoctor := actor.Actor{UserID: uuid.New(), Role: models.RoleDoctor, IsStaff: true}
	patient := actor.Actor{UserID: uuid.New(), Role: models.RolePatient}

	targets := []any{&models.Clinic{}, &models.Doctor{}, &models.Patient{}}

	for _, target := range targets {
		// Reads are open to every authenticated role.
		assert.NoError(t, Authorize(staffAdmin, OpRead, target))
		assert.NoError(t, Authorize(staffDoctor, OpRead, target))
		assert.NoError(t, Authorize(patient, OpRead, target))

		// Creation needs the admin role and the staff flag together.
		assert.NoError(t, Authorize(staffAdmin, OpCreate, target))
		assert.Error(t, Authorize(plainAdmin, OpCreate, target))
		assert.Error(t, Authorize(staffDoctor, OpCreate, target))
		assert.Error(t, Authorize(patient, OpCreate, target))

		// Mutation is admin-only.
		assert.NoError(t, Authorize(plainAdmin, OpUpdate, target))
		assert.Error(t, Authorize(staffDoctor, OpUpdate, target))
		assert.NoError(t, Authorize(plainAdmin, OpDelete, target))
		assert.Error(t, Authorize(patient, OpDelete, target))
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	unknown := actor.Actor{UserID: uuid.New(), Role: models.Role("auditor")}
	consultation := consultationFor(uuid.New(), uuid.New())

	assert.Error(t, Authorize(unknown, OpRead, consultation))
	assert.Error(t, Authorize(unknown, OpRead, &models.Clinic{}))
}

func TestAuthorizeUnknownTarget(t *testing.T) {
	admin := actor.Actor{UserID: uuid.New(), Role: models.RoleAdmin}
	err := Authorize(admin, OpRead, struct{}{})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
