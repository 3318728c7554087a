package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLWithEnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("TEST_SHEET_ID", "sheet-123")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")

	path := writeConfig(t, `
app:
  port: "8000"
  env: dev
  retention_days: 14
storage:
  backend: sheets
sheets:
  credentials_file: /etc/creds.json
  spreadsheet_id: ${TEST_SHEET_ID}
redis:
  cache_ttl: 2h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 14, cfg.App.RetentionDays)
	assert.Equal(t, "sheets", cfg.Storage.Backend)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, 2*time.Hour, cfg.Redis.CacheTTL)
	assert.Equal(t, "gemini", cfg.Estimator.Backend)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "caloriecam")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 30, cfg.App.RetentionDays)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, "host=localhost user= password= dbname=caloriecam port=5432 sslmode=disable", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.JWT.Secret = "x"
	assert.Error(t, cfg.Validate(), "postgres needs a host")

	cfg.Database.Host, cfg.Database.Name = "db", "app"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Backend = "excel"
	assert.EqualError(t, cfg.Validate(), `unknown storage backend "excel"`)

	cfg.Storage.Backend = "postgres"
	cfg.Estimator.Backend = "magic"
	assert.EqualError(t, cfg.Validate(), `unknown estimator backend "magic"`)
}

func TestNormalizeEnv(t *testing.T) {
	assert.Equal(t, "development", normalizeEnv(" Local "))
	assert.Equal(t, "production", normalizeEnv("prod"))
	assert.Equal(t, "staging", normalizeEnv("staging"))
}
