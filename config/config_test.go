package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	for _, key := range []string{"PORT", "AUTO_MIGRATE", "APP_ENV"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, DevelopmentEnvironment, cfg.Stage)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", " ")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.EqualError(t, err, "Missing an env variable `DATABASE_URL`")
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("AUTO_MIGRATE", "")
	os.Unsetenv("AUTO_MIGRATE")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nAUTO_MIGRATE=false\nSTORAGE=postgres\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, StorageMemory, cfg.Storage)
}
