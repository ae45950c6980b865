package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// parseBoolEnv reads an environment variable and parses it as a boolean.
// Returns the parsed value and whether the variable was present and valid.
// Accepts true/false, 1/0, t/f, yes/no, y/n, on/off (case-insensitive).
func parseBoolEnv(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// Config holds the key-value database settings
type Config struct {
	Path                  string        `json:"path" yaml:"path"`
	MaxConnections        int           `json:"maxConnections" yaml:"maxConnections"`
	MaxIdleConns          int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime       time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	ConnMaxIdleTime       time.Duration `json:"connMaxIdleTime" yaml:"connMaxIdleTime"`
	ForceSingleConnection bool          `json:"forceSingleConnection" yaml:"forceSingleConnection"`

	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"` // run embedded migrations on startup

	JournalMode     string `json:"journalMode" yaml:"journalMode"`         // WAL, DELETE, MEMORY, ...
	SynchronousMode string `json:"synchronousMode" yaml:"synchronousMode"` // OFF, NORMAL, FULL, EXTRA
	CacheSize       int    `json:"cacheSize" yaml:"cacheSize"`             // KB
	BusyTimeout     int    `json:"busyTimeout" yaml:"busyTimeout"`         // milliseconds

	// Daily buckets older than this are deleted by the retention job (0 = keep forever)
	RetentionDays int `json:"retentionDays" yaml:"retentionDays"`

	Environment string `json:"environment" yaml:"environment"` // development, production, test
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path:            "focusos.db",
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 24 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,

		AutoMigrate: true,

		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       2000,
		BusyTimeout:     5000,

		RetentionDays: 0,

		Environment: "production",
	}
}

// DevelopmentConfig returns a configuration for local development
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Path = "focusos_dev.db"
	config.Environment = "development"
	return config
}

// TestConfig returns an in-memory configuration for tests
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = ":memory:"
	config.Environment = "test"
	config.AutoMigrate = true

	// Every connection to :memory: is a separate database
	config.ForceSingleConnection = true
	config.JournalMode = "MEMORY"
	config.SynchronousMode = "OFF"
	config.CacheSize = 1000
	config.BusyTimeout = 1000

	return config
}

// LoadFromEnvironment applies FOCUSOS_DB_* overrides
func (c *Config) LoadFromEnvironment() error {
	if path := os.Getenv("FOCUSOS_DB_PATH"); path != "" {
		c.Path = path
	}

	if maxConns := os.Getenv("FOCUSOS_DB_MAX_CONNECTIONS"); maxConns != "" {
		if val, err := strconv.Atoi(maxConns); err == nil && val > 0 {
			c.MaxConnections = val
		}
	}

	if maxIdle := os.Getenv("FOCUSOS_DB_MAX_IDLE_CONNECTIONS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil && val >= 0 {
			c.MaxIdleConns = val
		}
	}

	if lifetime := os.Getenv("FOCUSOS_DB_CONN_MAX_LIFETIME"); lifetime != "" {
		if val, err := time.ParseDuration(lifetime); err == nil {
			c.ConnMaxLifetime = val
		}
	}

	if idleTime := os.Getenv("FOCUSOS_DB_CONN_MAX_IDLE_TIME"); idleTime != "" {
		if val, err := time.ParseDuration(idleTime); err == nil {
			c.ConnMaxIdleTime = val
		}
	}

	if forceSingle, present := parseBoolEnv("FOCUSOS_DB_FORCE_SINGLE_CONNECTION"); present {
		c.ForceSingleConnection = forceSingle
	}

	if autoMigrate, present := parseBoolEnv("FOCUSOS_DB_AUTO_MIGRATE"); present {
		c.AutoMigrate = autoMigrate
	}

	if journalMode := os.Getenv("FOCUSOS_DB_JOURNAL_MODE"); journalMode != "" {
		c.JournalMode = journalMode
	}

	if syncMode := os.Getenv("FOCUSOS_DB_SYNCHRONOUS_MODE"); syncMode != "" {
		c.SynchronousMode = syncMode
	}

	if cacheSize := os.Getenv("FOCUSOS_DB_CACHE_SIZE"); cacheSize != "" {
		if val, err := strconv.Atoi(cacheSize); err == nil && val > 0 {
			c.CacheSize = val
		}
	}

	if busyTimeout := os.Getenv("FOCUSOS_DB_BUSY_TIMEOUT"); busyTimeout != "" {
		if val, err := strconv.Atoi(busyTimeout); err == nil && val >= 0 {
			c.BusyTimeout = val
		}
	}

	if retentionDays := os.Getenv("FOCUSOS_DB_RETENTION_DAYS"); retentionDays != "" {
		if val, err := strconv.Atoi(retentionDays); err == nil && val >= 0 {
			c.RetentionDays = val
		}
	}

	if environment := os.Getenv("FOCUSOS_ENVIRONMENT"); environment != "" {
		c.Environment = environment
	}

	return nil
}

// Validate checks the configuration and creates the database directory if needed
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if !c.IsInMemory() {
		dir := filepath.Dir(c.Path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	if c.MaxConnections <= 0 {
		return fmt.Errorf("maxConnections must be positive, got %d", c.MaxConnections)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("maxIdleConns cannot be negative, got %d", c.MaxIdleConns)
	}
	if c.MaxIdleConns > c.MaxConnections {
		return fmt.Errorf("maxIdleConns (%d) cannot be greater than maxConnections (%d)", c.MaxIdleConns, c.MaxConnections)
	}
	if c.ConnMaxLifetime < 0 {
		return fmt.Errorf("connMaxLifetime cannot be negative, got %v", c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime < 0 {
		return fmt.Errorf("connMaxIdleTime cannot be negative, got %v", c.ConnMaxIdleTime)
	}

	switch strings.ToUpper(c.JournalMode) {
	case "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("invalid journalMode: %s", c.JournalMode)
	}
	if c.IsInMemory() && strings.EqualFold(c.JournalMode, "WAL") {
		return fmt.Errorf("journalMode cannot be WAL when using in-memory database")
	}

	switch strings.ToUpper(c.SynchronousMode) {
	case "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("invalid synchronousMode: %s", c.SynchronousMode)
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("cacheSize must be positive, got %d", c.CacheSize)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busyTimeout cannot be negative, got %d", c.BusyTimeout)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retentionDays cannot be negative, got %d", c.RetentionDays)
	}

	switch c.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	return nil
}

// GetConnectionString builds the go-sqlite3 DSN with pragma query parameters
func (c *Config) GetConnectionString() string {
	values := url.Values{}
	values.Set("_journal_mode", strings.ToUpper(c.JournalMode))
	values.Set("_synchronous", strings.ToUpper(c.SynchronousMode))
	// Negative cache size is interpreted by SQLite as KB
	values.Set("_cache_size", strconv.Itoa(-c.CacheSize))
	values.Set("_busy_timeout", strconv.Itoa(c.BusyTimeout))

	// Only the characters that would break query parsing are escaped
	path := c.Path
	if strings.ContainsAny(path, "?&") {
		path = strings.ReplaceAll(path, "?", "%3F")
		path = strings.ReplaceAll(path, "&", "%26")
	}

	return path + "?" + values.Encode()
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsInMemory returns true if the database is configured to use in-memory storage
func (c *Config) IsInMemory() bool {
	return c.Path == ":memory:"
}

// IsTest returns true if the environment is set to test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// ConfigForEnvironment returns the preset for env
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		return DefaultConfig()
	}
}
