package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/config"
	"github.com/clinicore/clinic-backend/internal/database"
	"github.com/clinicore/clinic-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role, staff bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  string(hash),
		Role:      role,
		IsStaff:   staff,
		FirstName: "Test",
		LastName:  username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedClinic(t *testing.T, db *gorm.DB, name string) *models.Clinic {
	t.Helper()

	clinic := &models.Clinic{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(clinic).Error)
	return clinic
}

func seedDoctor(t *testing.T, db *gorm.DB, user *models.User, clinics ...models.Clinic) *models.Doctor {
	t.Helper()

	doctor := &models.Doctor{
		ID:             uuid.New(),
		UserID:         user.ID,
		Specialization: "therapist",
		Clinics:        clinics,
	}
	require.NoError(t, db.Create(doctor).Error)
	return doctor
}

func seedPatient(t *testing.T, db *gorm.DB, user *models.User) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		ID:     uuid.New(),
		UserID: user.ID,
		Phone:  "+10000000000",
		Email:  user.Username + "@example.com",
	}
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func seedConsultation(t *testing.T, db *gorm.DB, doctor *models.Doctor, patient *models.Patient, status models.Status) *models.Consultation {
	t.Helper()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	consultation := &models.Consultation{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
	}
	require.NoError(t, db.Create(consultation).Error)
	return consultation
}

func actorFor(u *models.User) actor.Actor {
	return actor.Actor{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsStaff:  u.IsStaff,
	}
}
