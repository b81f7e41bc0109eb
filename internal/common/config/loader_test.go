package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_FileSource(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "churn-predictor"
  version: "1.0.0"
server:
  port: 9090
artifact:
  source: "file"
  path: "/var/lib/churn/bundle.json"
thresholds:
  high: 0.7
  medium: 0.4
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Artifact.Source)
	assert.Equal(t, "/var/lib/churn/bundle.json", cfg.Artifact.Path)
	assert.Equal(t, 0.7, cfg.Thresholds.High)
	assert.Equal(t, 0.4, cfg.Thresholds.Medium)
}

func TestLoadFromFile_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
artifact:
  source: "file"
  path: "/tmp/bundle.json"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "churn-predictor", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Thresholds.High)
	assert.Equal(t, 0.3, cfg.Thresholds.Medium)
	assert.Equal(t, 32, cfg.Inference.MaxConcurrent)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "churn:model", cfg.Artifact.Redis.KeyPrefix)
}

func TestLoadFromFile_MissingArtifactPath(t *testing.T) {
	path := writeConfig(t, `
artifact:
  source: "file"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact.path is required")
}

func TestLoadFromFile_UnknownSource(t *testing.T) {
	path := writeConfig(t, `
artifact:
  source: "s3"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact.source must be")
}

func TestLoadFromFile_ThresholdOrdering(t *testing.T) {
	path := writeConfig(t, `
artifact:
  source: "file"
  path: "/tmp/bundle.json"
thresholds:
  high: 0.3
  medium: 0.6
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be below")
}

func TestLoadFromFile_PostgresSourceRequiresCoreFields(t *testing.T) {
	path := writeConfig(t, `
artifact:
  source: "postgres"
  postgres:
    host: "localhost"
    database: "churn"
`)

	t.Setenv("DB_USER", "")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact.postgres.user is required")
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, Database: "churn",
		User: "svc", Password: "secret", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=svc password=secret dbname=churn sslmode=require",
		cfg.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
