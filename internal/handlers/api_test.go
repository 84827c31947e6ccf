package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicore/clinic-backend/internal/config"
	"github.com/clinicore/clinic-backend/internal/database"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/handlers"
	"github.com/clinicore/clinic-backend/internal/models"
	"github.com/clinicore/clinic-backend/internal/routes"
	"github.com/clinicore/clinic-backend/internal/services"
)

const testPassword = "password123"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}

	authService := services.NewAuthService(db, cfg)
	registrationService := services.NewRegistrationService(db)
	consultationService := services.NewConsultationService(db)
	directoryService := services.NewDirectoryService(db)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewRegistrationHandler(registrationService),
		handlers.NewConsultationHandler(consultationService),
		handlers.NewClinicHandler(directoryService),
		handlers.NewDoctorHandler(directoryService),
		handlers.NewPatientHandler(directoryService),
		handlers.NewHealthHandler(db),
	)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role, staff bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(hash),
		Role:     role,
		IsStaff:  staff,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func login(t *testing.T, app *fiber.App, username string) dto.TokenResponse {
	t.Helper()
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/token/", "", dto.TokenRequest{
		Username: username,
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var tokens dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens
}

func TestHealthEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)

	// An unreachable DB degrades the db field without failing the endpoint.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "down", health.DB)
}

func TestTokenFlow(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "alice", models.RolePatient, false)

	tokens := login(t, app, "alice")
	assert.Equal(t, "alice", tokens.User.Username)
	assert.Equal(t, "patient", tokens.User.Role)

	// Wrong password is indistinguishable from an unknown user.
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/token/", "", dto.TokenRequest{
		Username: "alice", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Refresh rotates the token; the old one is single-use.
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/token/refresh", "", dto.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var rotated dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/token/refresh", "", dto.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegistrationFlow(t *testing.T) {
	app, db := newTestApp(t)
	clinic := models.Clinic{ID: uuid.New(), Name: "North Clinic"}
	require.NoError(t, db.Create(&clinic).Error)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/register/user", "", dto.RegisterUserRequest{
		Username: "drjones", Password: testPassword, Role: "doctor",
		FirstName: "Dana", LastName: "Jones",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "doctor", user.Role)

	// Duplicate username is a conflict.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/register/user", "", dto.RegisterUserRequest{
		Username: "drjones", Password: testPassword, Role: "doctor",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/register/doctor", "", dto.RegisterDoctorRequest{
		User: user.ID, Specialization: "dermatology", Clinics: []uuid.UUID{clinic.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var doctor dto.DoctorRegisteredResponse
	require.NoError(t, json.Unmarshal(raw, &doctor))
	assert.Equal(t, []uuid.UUID{clinic.ID}, doctor.Clinics)

	// A second profile for the same identity is rejected.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/register/doctor", "", dto.RegisterDoctorRequest{
		User: user.ID, Specialization: "dermatology",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	patientUser := seedUser(t, db, "pat", models.RolePatient, false)
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/register/patient", "", dto.RegisterPatientRequest{
		User: patientUser.ID, Phone: "+1-555-0100", Email: "pat@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
}

func TestUpdateUserEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "renameme", models.RolePatient, false)

	newName := "renamed"
	resp, _ := doJSON(t, app, fiber.MethodPatch, "/api/update/user", "", dto.UpdateUserRequest{
		Username: &newName,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	tokens := login(t, app, "renameme")
	resp, raw := doJSON(t, app, fiber.MethodPatch, "/api/update/user", tokens.AccessToken, dto.UpdateUserRequest{
		Username: &newName,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "renamed", user.Username)
}

func TestConsultationAuthorizationFlow(t *testing.T) {
	app, db := newTestApp(t)

	seedUser(t, db, "admin", models.RoleAdmin, true)
	docUser := seedUser(t, db, "doc", models.RoleDoctor, false)
	otherDocUser := seedUser(t, db, "otherdoc", models.RoleDoctor, false)
	patUser := seedUser(t, db, "pat", models.RolePatient, false)

	doctor := models.Doctor{ID: uuid.New(), UserID: docUser.ID, Specialization: "cardiology"}
	require.NoError(t, db.Create(&doctor).Error)
	otherDoctor := models.Doctor{ID: uuid.New(), UserID: otherDocUser.ID, Specialization: "surgery"}
	require.NoError(t, db.Create(&otherDoctor).Error)
	patient := models.Patient{ID: uuid.New(), UserID: patUser.ID, Email: "pat@example.com"}
	require.NoError(t, db.Create(&patient).Error)

	adminTokens := login(t, app, "admin")
	docTokens := login(t, app, "doc")
	otherDocTokens := login(t, app, "otherdoc")
	patTokens := login(t, app, "pat")

	// No token at all keeps the protected surface closed.
	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/consultations/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Only a staff admin may create clinics.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/clinics/", docTokens.AccessToken, dto.ClinicRequest{Name: "Rogue"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/clinics/", adminTokens.AccessToken, dto.ClinicRequest{
		Name: "Central", LegalAddress: "1 Legal St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	// Consultation creation is admin-only; the status defaults to pending.
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	createReq := dto.CreateConsultationRequest{
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
	}
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/consultations/", docTokens.AccessToken, createReq)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/consultations/", adminTokens.AccessToken, createReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.ConsultationResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "pending", created.Status)

	consultationPath := "/api/consultations/" + created.ID.String()

	// The assigned doctor may jump straight to any status.
	resp, raw = doJSON(t, app, fiber.MethodPatch, consultationPath+"/change_status", docTokens.AccessToken,
		dto.ChangeStatusRequest{Status: "paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var changed dto.ConsultationResponse
	require.NoError(t, json.Unmarshal(raw, &changed))
	assert.Equal(t, "paid", changed.Status)

	// An unknown status value is rejected without side effects.
	resp, _ = doJSON(t, app, fiber.MethodPatch, consultationPath+"/change_status", docTokens.AccessToken,
		dto.ChangeStatusRequest{Status: "cancelled"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Patients never change statuses, even on their own consultations.
	resp, _ = doJSON(t, app, fiber.MethodPatch, consultationPath+"/change_status", patTokens.AccessToken,
		dto.ChangeStatusRequest{Status: "confirmed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A consultation outside the caller's scope is forbidden, not hidden.
	resp, _ = doJSON(t, app, fiber.MethodGet, consultationPath, otherDocTokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Both members see it in their scoped lists.
	for _, token := range []string{docTokens.AccessToken, patTokens.AccessToken} {
		resp, raw = doJSON(t, app, fiber.MethodGet, "/api/consultations/", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		var list dto.ConsultationListResponse
		require.NoError(t, json.Unmarshal(raw, &list))
		require.Len(t, list.Consultations, 1)
		assert.Equal(t, created.ID, list.Consultations[0].ID)
	}
	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/consultations/", otherDocTokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var empty dto.ConsultationListResponse
	require.NoError(t, json.Unmarshal(raw, &empty))
	assert.Empty(t, empty.Consultations)

	// Directory reads stay open to every role.
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/doctors/", patTokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
