package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/models"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)
	user := seedUser(t, db, "doc", models.RoleDoctor, true)

	resp, err := svc.Login(&dto.TokenRequest{Username: "doc", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	// Access token carries the actor claims the middleware relies on.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "doctor", claims["role"])
	assert.Equal(t, true, claims["is_staff"])
}

func TestLoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	seedUser(t, db, "doc", models.RoleDoctor, false)

	_, err := svc.Login(&dto.TokenRequest{Username: "doc", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated), "got %v", err)

	_, err = svc.Login(&dto.TokenRequest{Username: "nobody", Password: "password123"})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated), "got %v", err)
}

func TestRefreshRotation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	seedUser(t, db, "doc", models.RoleDoctor, false)

	first, err := svc.Login(&dto.TokenRequest{Username: "doc", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The presented token was rotated out; replaying it fails.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated), "got %v", err)
}

func TestLogoutRevokes(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	seedUser(t, db, "doc", models.RoleDoctor, false)

	resp, err := svc.Login(&dto.TokenRequest{Username: "doc", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated), "got %v", err)
}
