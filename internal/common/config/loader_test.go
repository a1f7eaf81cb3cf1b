// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const minimalConfig = `
camunda:
  broker_address: zeebe:26500
database:
  postgres:
    host: db
    database: readiness
    user: readiness
  elasticsearch:
    addresses:
      - http://es:9200
  redis:
    address: redis:6379
workers:
  compute-readiness-score:
    enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "readiness-workers", cfg.App.Name)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://es:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, "assessments", cfg.Database.Elasticsearch.AssessmentsIdx)

	assert.Equal(t, "*/15 * * * *", cfg.Indicators.RefreshCron)
	assert.Equal(t, 5*time.Minute, GetSeconds(cfg.Indicators.CacheTTL))
	assert.Equal(t, "indicators:changes", cfg.Indicators.Channel)
	assert.Equal(t, 7*24*time.Hour, GetSeconds(cfg.Drafts.TTL))
	assert.Equal(t, "eu-west-1", cfg.Notifications.AWS.Region)
	assert.Equal(t, ":8080", cfg.Server.Address)

	w := cfg.Workers["compute-readiness-score"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(w.Timeout))
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("READINESS_TEST_PG_HOST", "pg.internal")

	body := replaceOnce(minimalConfig, "host: db", "host: ${READINESS_TEST_PG_HOST}")

	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
}

func TestLoadFromFile_EnvOverridesKeys(t *testing.T) {
	t.Setenv("DATABASE_REDIS_ADDRESS", "cache:6380")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", cfg.Database.Redis.Address)
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	for _, taskType := range []string{
		"compute-readiness-score",
		"save-assessment-draft",
		"create-assessment-record",
		"send-assessment-summary",
		"fetch-country-indicators",
		"refresh-country-indicators",
	} {
		assert.True(t, IsWorkerEnabled(cfg, taskType), taskType)
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{}}

	w := GetWorkerConfig(cfg, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))

	cfg.Workers["off"] = WorkerConfig{Enabled: false}
	assert.False(t, IsWorkerEnabled(cfg, "off"))
}

// ==========================
// Error Handling Tests
// ==========================

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"missing broker", "broker_address: zeebe:26500", "broker_address: \"\"", "camunda.broker_address"},
		{"missing postgres host", "host: db", "host: \"\"", "database.postgres.host"},
		{"missing redis", "address: redis:6379", "address: \"\"", "database.redis.address"},
		{"invalid cron", "workers:", "indicators:\n  refresh_cron: \"every minute\"\nworkers:", "indicators.refresh_cron"},
		{"email without sender", "workers:", "notifications:\n  email:\n    enabled: true\nworkers:", "from_email"},
		{"sns without topic", "workers:", "notifications:\n  sns:\n    enabled: true\nworkers:", "topic_arn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, replaceOnce(minimalConfig, tt.from, tt.to)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func replaceOnce(s, old, repl string) string {
	return strings.Replace(s, old, repl, 1)
}
