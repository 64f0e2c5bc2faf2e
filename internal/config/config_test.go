package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var envKeys = []string{
	"APP_HOST", "PORT", "APP_TIMEZONE",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME_SEC", "DB_CONNECT_TIMEOUT_SEC",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_EVENTS_CHANNEL",
	"AUTH_JWT_SECRET", "AUTH_JWT_ISSUER",
	"RELEASE_BASE_URL", "RELEASE_QR_SIZE", "RELEASE_PRESIGN_EXPIRY_SEC",
}

// clearEnv blanks every key Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "localhost:8080", cfg.AppHost)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Asia/Manila", cfg.TimeZone)
	assert.Equal(t, DatabaseConfig{
		Port:               "5432",
		SSLMode:            "disable",
		MaxOpenConns:       10,
		MaxIdleConns:       5,
		ConnMaxLifetimeSec: 300,
		ConnectTimeoutSec:  5,
	}, cfg.Database)
	assert.Equal(t, RedisConfig{Channel: "document-requests.status"}, cfg.Redis)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, ReleaseConfig{
		PublicBaseURL:    "http://localhost:8080",
		QRSize:           256,
		PresignExpirySec: 900,
	}, cfg.Release)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.brgy.local")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("DB_CONNECT_TIMEOUT_SEC", "2")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTH_JWT_SECRET", "shh")
	t.Setenv("AUTH_JWT_ISSUER", "brgy-portal")
	t.Setenv("RELEASE_BASE_URL", "https://portal.example.gov.ph/")
	t.Setenv("RELEASE_QR_SIZE", "512")

	cfg := Load()

	assert.Equal(t, "db.brgy.local", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.ConnectTimeoutSec)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, AuthConfig{JWTSecret: "shh", Issuer: "brgy-portal"}, cfg.Auth)
	assert.Equal(t, "https://portal.example.gov.ph", cfg.Release.PublicBaseURL)
	assert.Equal(t, 512, cfg.Release.QRSize)
}

func TestLoad_ReleaseBaseURLFollowsAppHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_HOST", "brgy.local:9000")

	assert.Equal(t, "http://brgy.local:9000", Load().Release.PublicBaseURL)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "ten")
	t.Setenv("RELEASE_QR_SIZE", "big")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 256, cfg.Release.QRSize)
	assert.False(t, cfg.MinIO.UseSSL)
}

func TestLocation(t *testing.T) {
	tests := []struct {
		zone string
		want string
	}{
		{"Asia/Manila", "Asia/Manila"},
		{"UTC", "UTC"},
		{"Not/AZone", "UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			cfg := &AppConfig{TimeZone: tt.zone}
			assert.Equal(t, tt.want, cfg.Location().String())
		})
	}

	assert.Equal(t, time.UTC, (&AppConfig{TimeZone: "Not/AZone"}).Location())
}
