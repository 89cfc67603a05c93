package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{SearchDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "kombuchadb", cfg.Job)
	assert.Equal(t, filepath.Join("files", "db_tables"), cfg.DataDir)
	assert.Equal(t, filepath.Join("files", "dbs"), cfg.DBDir)
	assert.Equal(t, "sqlite", cfg.Storage.Kind)
	assert.Equal(t, filepath.Join("files", "db_tables", SQLiteFileName), cfg.DSN())
	assert.False(t, cfg.Load.EnsureSchema)
	assert.Equal(t, "none", cfg.Metrics.Backend)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigName+".yaml"), []byte(`
job: nightly
data_dir: /srv/tables
storage:
  kind: postgres
  dsn: postgres://file
load:
  ensure_schema: true
`), 0o644))

	t.Setenv("KOMBUCHADB_STORAGE_DSN", "postgres://env")
	t.Setenv("KOMBUCHADB_LOAD_REPORT", "/tmp/report.yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	flags.String("kind", "", "")
	require.NoError(t, flags.Parse([]string{"--data-dir", "/flag/tables"}))

	cfg, err := Load(LoadOptions{SearchDir: dir, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Job, "file")
	assert.Equal(t, "/flag/tables", cfg.DataDir, "flag beats file")
	assert.Equal(t, "postgres", cfg.Storage.Kind, "unset flag does not override file")
	assert.Equal(t, "postgres://env", cfg.Storage.DSN, "env beats file")
	assert.Equal(t, "postgres://env", cfg.DSN())
	assert.Equal(t, "/tmp/report.yaml", cfg.Load.Report)
	assert.True(t, cfg.Load.EnsureSchema)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KOMBUCHADB_METRICS_BACKEND=pushgateway\nKOMBUCHADB_JOB=from-dotenv\n"), 0o644))
	t.Setenv("KOMBUCHADB_JOB", "from-env")
	// godotenv leaves variables it sets behind; register them for cleanup.
	t.Setenv("KOMBUCHADB_METRICS_BACKEND", "")
	require.NoError(t, os.Unsetenv("KOMBUCHADB_METRICS_BACKEND"))

	cfg, err := Load(LoadOptions{SearchDir: dir, EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "pushgateway", cfg.Metrics.Backend)
	assert.Equal(t, "from-env", cfg.Job, "existing variables win over .env")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)

	_, err = Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("storage: [unclosed"), 0o644))
	_, err = Load(LoadOptions{ConfigFile: bad})
	assert.Error(t, err)
}
