package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowform/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5400, cfg.Port)
	assert.Equal(t, "data/flowform.db", cfg.DBPath)
	assert.Equal(t, "web", cfg.WebDir)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:5400", cfg.Addr())
}

func TestTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowform.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
host = "0.0.0.0"
port = 5410
db_path = "/var/lib/flowform/flowform.db"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 5410, cfg.Port)
	assert.Equal(t, "/var/lib/flowform/flowform.db", cfg.DBPath)
	assert.Equal(t, "web", cfg.WebDir, "untouched keys keep defaults")
}

func TestEnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowform.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = 5410`), 0o644))

	t.Setenv("PORT", "5420")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/flowform")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5420, cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/flowform", cfg.DatabaseURL)
}

func TestInvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5400, cfg.Port)
}

func TestMissingConfigFileIsFine(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5400, cfg.Port)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# local overrides
PORT=5430
DB_PATH="data/test.db"
LOG_LEVEL='debug'
MALFORMED LINE
=novalue
`), 0o644))

	t.Setenv("PORT", "5440") // existing env wins over the file
	os.Unsetenv("DB_PATH")
	os.Unsetenv("LOG_LEVEL")
	t.Cleanup(func() {
		os.Unsetenv("DB_PATH")
		os.Unsetenv("LOG_LEVEL")
	})

	require.NoError(t, config.LoadEnvFile(path))

	assert.Equal(t, "5440", os.Getenv("PORT"))
	assert.Equal(t, "data/test.db", os.Getenv("DB_PATH"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	require.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}
