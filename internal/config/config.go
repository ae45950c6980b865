package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"focusos/internal/database"
)

// Config is the focusos configuration file
type Config struct {
	Database      database.Config     `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Messaging     MessagingConfig     `yaml:"messaging"`
	Daemon        DaemonConfig        `yaml:"daemon"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Favicons      FaviconConfig       `yaml:"favicons"`
	Export        ExportConfig        `yaml:"export"`
}

// LoggingConfig controls the JSON log output
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"` // host:port, empty disables the endpoint
}

// MessagingConfig selects the command transport
type MessagingConfig struct {
	NATSURL string `yaml:"natsUrl"` // empty uses the in-process bus
	Subject string `yaml:"subject"`
}

// DaemonConfig holds the daemon loop settings
type DaemonConfig struct {
	TickInterval  time.Duration `yaml:"tickInterval"`
	WatchDebounce time.Duration `yaml:"watchDebounce"`
}

// NotificationsConfig toggles OS notifications for unlocked achievements
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FaviconConfig toggles favicon discovery for tracked visits
type FaviconConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExportConfig holds the default export directory
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DataDir returns the per-user focusos directory
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "focusos")
}

// DefaultPath returns the default configuration file location
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	db := database.DefaultConfig()
	db.Path = filepath.Join(DataDir(), "focusos.db")

	return &Config{
		Database:      *db,
		Logging:       LoggingConfig{Level: "info"},
		Messaging:     MessagingConfig{Subject: "focusos.commands"},
		Daemon:        DaemonConfig{TickInterval: time.Second, WatchDebounce: 250 * time.Millisecond},
		Notifications: NotificationsConfig{Enabled: true},
		Favicons:      FaviconConfig{Enabled: false, Timeout: 5 * time.Second},
		Export:        ExportConfig{Dir: "."},
	}
}

// Load reads .env files, the YAML file at path and FOCUSOS_* overrides,
// then validates. An empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	if _, err := LoadEnvFiles("."); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnvironment applies FOCUSOS_* overrides, including the database
// FOCUSOS_DB_* variables
func (c *Config) ApplyEnvironment() error {
	if err := c.Database.LoadFromEnvironment(); err != nil {
		return err
	}

	if v := os.Getenv("FOCUSOS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("FOCUSOS_METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
	if v, ok := os.LookupEnv("FOCUSOS_NATS_URL"); ok {
		c.Messaging.NATSURL = v
	}
	if v := os.Getenv("FOCUSOS_NATS_SUBJECT"); v != "" {
		c.Messaging.Subject = v
	}
	if v := os.Getenv("FOCUSOS_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FOCUSOS_TICK_INTERVAL: %w", err)
		}
		c.Daemon.TickInterval = d
	}
	if v := os.Getenv("FOCUSOS_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v, ok := parseBool(os.Getenv("FOCUSOS_NOTIFICATIONS")); ok {
		c.Notifications.Enabled = v
	}
	if v, ok := parseBool(os.Getenv("FOCUSOS_FAVICONS")); ok {
		c.Favicons.Enabled = v
	}
	return nil
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, true
	case "0", "f", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks every section and creates the database directory
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: invalid level %q", c.Logging.Level)
	}

	if c.Metrics.Addr != "" && !strings.Contains(c.Metrics.Addr, ":") {
		return fmt.Errorf("metrics.addr: expected host:port, got %q", c.Metrics.Addr)
	}

	if c.Messaging.NATSURL != "" && c.Messaging.Subject == "" {
		return fmt.Errorf("messaging.subject is required when natsUrl is set")
	}

	if c.Daemon.TickInterval <= 0 || c.Daemon.TickInterval > time.Minute {
		return fmt.Errorf("daemon.tickInterval must be between 0 and 1m, got %v", c.Daemon.TickInterval)
	}
	if c.Daemon.WatchDebounce < 0 {
		return fmt.Errorf("daemon.watchDebounce cannot be negative, got %v", c.Daemon.WatchDebounce)
	}
	if c.Favicons.Timeout < 0 {
		return fmt.Errorf("favicons.timeout cannot be negative, got %v", c.Favicons.Timeout)
	}
	return nil
}

// Write saves c as YAML at path. An existing file is only replaced when force is set.
func (c *Config) Write(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
