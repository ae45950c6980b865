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

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "focusos.db")
	return cfg
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Daemon.TickInterval)
	assert.Equal(t, "focusos.commands", cfg.Messaging.Subject)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "focusos.db", filepath.Base(Default().Database.Path))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modifier func(*Config)
		errorMsg string
	}{
		{name: "defaults", modifier: func(*Config) {}},
		{name: "bad log level", modifier: func(c *Config) { c.Logging.Level = "loud" }, errorMsg: "logging.level"},
		{name: "metrics without port", modifier: func(c *Config) { c.Metrics.Addr = "localhost" }, errorMsg: "metrics.addr"},
		{name: "metrics with port", modifier: func(c *Config) { c.Metrics.Addr = ":9090" }},
		{name: "nats without subject", modifier: func(c *Config) {
			c.Messaging.NATSURL = "nats://localhost:4222"
			c.Messaging.Subject = ""
		}, errorMsg: "messaging.subject"},
		{name: "zero tick", modifier: func(c *Config) { c.Daemon.TickInterval = 0 }, errorMsg: "tickInterval"},
		{name: "slow tick", modifier: func(c *Config) { c.Daemon.TickInterval = 2 * time.Minute }, errorMsg: "tickInterval"},
		{name: "negative debounce", modifier: func(c *Config) { c.Daemon.WatchDebounce = -time.Second }, errorMsg: "watchDebounce"},
		{name: "bad database", modifier: func(c *Config) { c.Database.CacheSize = 0 }, errorMsg: "database: cacheSize"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			tt.modifier(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := testConfig(t)
	cfg.Logging.Level = "debug"
	cfg.Metrics.Addr = "127.0.0.1:9464"
	cfg.Daemon.TickInterval = 2 * time.Second
	cfg.Database.RetentionDays = 90
	require.NoError(t, cfg.Write(path, false))

	err := cfg.Write(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, cfg.Write(path, true))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Logging.Level)
	assert.Equal(t, "127.0.0.1:9464", loaded.Metrics.Addr)
	assert.Equal(t, 2*time.Second, loaded.Daemon.TickInterval)
	assert.Equal(t, 90, loaded.Database.RetentionDays)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "data", "focusos.db")

	t.Setenv("FOCUSOS_TEST_DB_DIR", filepath.Join(dir, "data"))
	content := strings.Join([]string{
		"database:",
		"  path: ${FOCUSOS_TEST_DB_DIR}/focusos.db",
		"daemon:",
		"  tickInterval: 500ms",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Daemon.TickInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "WAL", cfg.Database.JournalMode)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [not, a, map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOCUSOS_DB_PATH", filepath.Join(dir, "env.db"))
	t.Setenv("FOCUSOS_LOG_LEVEL", "warn")
	t.Setenv("FOCUSOS_METRICS_ADDR", ":9100")
	t.Setenv("FOCUSOS_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("FOCUSOS_TICK_INTERVAL", "250ms")
	t.Setenv("FOCUSOS_EXPORT_DIR", dir)
	t.Setenv("FOCUSOS_NOTIFICATIONS", "off")
	t.Setenv("FOCUSOS_FAVICONS", "yes")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvironment())

	assert.Equal(t, filepath.Join(dir, "env.db"), cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Messaging.NATSURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Daemon.TickInterval)
	assert.Equal(t, dir, cfg.Export.Dir)
	assert.False(t, cfg.Notifications.Enabled)
	assert.True(t, cfg.Favicons.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvironment_InvalidTick(t *testing.T) {
	t.Setenv("FOCUSOS_TICK_INTERVAL", "soon")

	err := Default().ApplyEnvironment()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOCUSOS_TICK_INTERVAL")
}

func TestLoadEnvFiles(t *testing.T) {
	const fresh = "FOCUSOS_TEST_DOTENV_FRESH"
	require.NoError(t, os.Unsetenv(fresh))
	t.Cleanup(func() { _ = os.Unsetenv(fresh) })
	t.Setenv("FOCUSOS_TEST_DOTENV_KEEP", "process")

	dir := t.TempDir()
	content := fresh + "=from-file\nFOCUSOS_TEST_DOTENV_KEEP=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	loaded, err := LoadEnvFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "from-file", os.Getenv(fresh))
	assert.Equal(t, "process", os.Getenv("FOCUSOS_TEST_DOTENV_KEEP"), "existing variables are not overridden")

	loaded, err = LoadEnvFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
