package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "menu", cfg.ServiceName)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "restaurantdb", cfg.MongoDatabase)
	assert.Equal(t, "menuitems", cfg.MongoCollection)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/menu-test.db")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("SEED_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/menu-test.db", cfg.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.True(t, cfg.SeedOnStart)
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_PORT=9100\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HTTP_PORT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.HTTPPort)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("GRPC_PORT: \"6000\"\nLOG_LEVEL: debug\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "6000", cfg.GRPCPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "redis")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
