package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "clinic_db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("PORT", "9000")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, "9000", cfg.Port)
}

func TestParseDurationFallback(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "clinic_db")

	dsn := Load().DSN()
	assert.Contains(t, dsn, "host=pg")
	assert.Contains(t, dsn, "user=clinic")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=clinic_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
