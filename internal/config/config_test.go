package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("PETS_JWT_SECRET", "secret")
	t.Setenv("PETS_STORAGE_URL", "https://proj.supabase.co")
	t.Setenv("PETS_SERVICE_PORT", "9090")
	t.Setenv("PETS_DB_NAME", "pets_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "pets_test", cfg.DBConfig.DBName)
	assert.Equal(t, "disable", cfg.DBConfig.SSLMode)
	assert.Equal(t, "secret", cfg.AuthConfig.JWTSecret)
	assert.Equal(t, "https://proj.supabase.co", cfg.StorageConfig.BaseURL)
	assert.Equal(t, "avatars", cfg.StorageConfig.Bucket)
	assert.Equal(t, 30*time.Second, cfg.StorageConfig.Timeout)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("PETS_JWT_SECRET", "")
	t.Setenv("PETS_STORAGE_URL", "https://proj.supabase.co")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresStorageURL(t *testing.T) {
	t.Setenv("PETS_JWT_SECRET", "secret")
	t.Setenv("PETS_STORAGE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", User: "svc", Password: "pw",
		DBName: "pets", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://svc:pw@db:5432/pets?sslmode=disable", cfg.URL())
}
