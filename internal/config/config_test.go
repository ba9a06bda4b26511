package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Load_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, "course_catalog.json", cfg.CatalogPath)
	assert.Equal(t, "logs.json", cfg.LogPath)
	assert.Equal(t, 1, cfg.LogMaxSizeMB)
	assert.Equal(t, 3, cfg.LogMaxBackups)
	assert.Equal(t, "", cfg.OTLPEndpoint)
	assert.Equal(t, "course-catalog-service", cfg.OTELServiceName)
	assert.True(t, cfg.ConsoleTraces)
	assert.Equal(t, SessionMemory, cfg.SessionStore)
	assert.Equal(t, []string{"localhost:19092"}, cfg.KafkaBrokers)
	assert.Equal(t, "course-catalog.changes", cfg.ChangeFeedTopic)
	assert.False(t, cfg.ChangeFeedEnabled)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.ServerShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPIdleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestConfig_Load_CustomValues(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_URL", "postgres://user:pass@db:5432/catalog")
	t.Setenv("CATALOG_PATH", "/var/data/catalog.json")
	t.Setenv("LOG_PATH", "/var/log/app/logs.json")
	t.Setenv("LOG_MAX_SIZE_MB", "5")
	t.Setenv("LOG_MAX_BACKUPS", "7")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")
	t.Setenv("OTEL_SERVICE_NAME", "custom-catalog")
	t.Setenv("CONSOLE_TRACES", "false")
	t.Setenv("SESSION_SECRET", "abcd1234")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CHANGEFEED_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("CHANGEFEED_TOPIC", "catalog.events")
	t.Setenv("SEED_PATH", "seed/courses.yaml")
	t.Setenv("RATE_LIMIT_PER_MIN", "120")
	t.Setenv("REQUEST_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "postgres://user:pass@db:5432/catalog", cfg.DBURL)
	assert.Equal(t, "/var/data/catalog.json", cfg.CatalogPath)
	assert.Equal(t, "/var/log/app/logs.json", cfg.LogPath)
	assert.Equal(t, 5, cfg.LogMaxSizeMB)
	assert.Equal(t, 7, cfg.LogMaxBackups)
	assert.Equal(t, "otel-collector:4317", cfg.OTLPEndpoint)
	assert.Equal(t, "custom-catalog", cfg.OTELServiceName)
	assert.False(t, cfg.ConsoleTraces)
	assert.Equal(t, "abcd1234", cfg.SessionSecret)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.ChangeFeedEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "catalog.events", cfg.ChangeFeedTopic)
	assert.Equal(t, "seed/courses.yaml", cfg.SeedPath)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestConfig_EnvHelpers(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	cfg, err := Load()
	require.NoError(t, err)
	if !cfg.IsDev() {
		t.Fatalf("expected IsDev true")
	}
	if cfg.IsProd() || cfg.IsTest() {
		t.Fatalf("expected IsProd/IsTest false")
	}

	t.Setenv("APP_ENV", "PROD")
	cfg, err = Load()
	require.NoError(t, err)
	if !cfg.IsProd() {
		t.Fatalf("expected IsProd true for upper-case env")
	}

	t.Setenv("APP_ENV", "test")
	cfg, err = Load()
	require.NoError(t, err)
	if !cfg.IsTest() {
		t.Fatalf("expected IsTest true")
	}
}

func TestConfig_BackendSelectors(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("SESSION_STORE", "REDIS")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.UsesRedisSessions())

	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("SESSION_STORE", "memory")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesRedisSessions())
}

func TestConfig_Load_InvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.Load")
}
