package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL renders the config as a database URL for the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// AuthConfig holds the settings used to verify bearer tokens issued by the
// external identity provider.
type AuthConfig struct {
	// JWTSecret is the provider's signing secret (HS256).
	JWTSecret string
}

// StorageConfig holds the Supabase Storage settings for avatar objects.
type StorageConfig struct {
	BaseURL    string
	Bucket     string
	ServiceKey string
	Timeout    time.Duration
}

// ServiceConfig holds all configuration for the pets service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	AllowedOrigins []string
	DBConfig       DatabaseConfig
	AuthConfig     AuthConfig
	StorageConfig  StorageConfig
}

// Load reads configuration from PETS_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PETS")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "pets")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STORAGE_BUCKET", "avatars")
	v.SetDefault("STORAGE_TIMEOUT", "30s")

	cfg := &ServiceConfig{
		Port:           ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv:         v.GetString("APP_ENV"),
		AllowedOrigins: strings.Split(v.GetString("ALLOWED_ORIGINS"), ","),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		AuthConfig: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		StorageConfig: StorageConfig{
			BaseURL:    v.GetString("STORAGE_URL"),
			Bucket:     v.GetString("STORAGE_BUCKET"),
			ServiceKey: v.GetString("STORAGE_SERVICE_KEY"),
			Timeout:    v.GetDuration("STORAGE_TIMEOUT"),
		},
	}

	if cfg.AuthConfig.JWTSecret == "" {
		return nil, fmt.Errorf("PETS_JWT_SECRET is required")
	}
	if cfg.StorageConfig.BaseURL == "" {
		return nil, fmt.Errorf("PETS_STORAGE_URL is required")
	}
	return cfg, nil
}
