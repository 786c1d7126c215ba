package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, "127.0.0.1", cfg.Hive.Host)
	assert.Equal(t, 9083, cfg.Hive.Port)
	assert.NoError(t, cfg.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hivesync.yaml")
	contents := `
database: analytics
hive:
  host: metastore.internal
  port: 9084
log_level: debug
batching:
  glue_add: 10
  glue_update: 5
  hive_add: 50
  hive_update: 25
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "analytics", cfg.Database)
	assert.Equal(t, "metastore.internal", cfg.Hive.Host)
	assert.Equal(t, 9084, cfg.Hive.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Batching{GlueAdd: 10, GlueUpdate: 5, HiveAdd: 50, HiveUpdate: 25}, cfg.Batching)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [this is not a string"), 0o644))

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestValidateRejectsEmptyDatabase(t *testing.T) {
	cfg := Default()
	cfg.Database = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cfg := Default()
	cfg.Hive.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Hive.Port = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeBatchSizes(t *testing.T) {
	cfg := Default()
	cfg.Batching.HiveUpdate = -5
	assert.Error(t, cfg.Validate())
}
