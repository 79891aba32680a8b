package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gst-invoice-api/internal/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate      bool          `mapstructure:"auto_migrate"`
}

// DefaultDatabaseConfig returns default database configuration
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		ConnectionString: "./data/gst.db",
		MaxOpenConns:     1,
		MaxIdleConns:     1,
		ConnMaxLifetime:  time.Hour,
		AutoMigrate:      true,
	}
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.ConnectionString == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max open connections must be at least 1")
	}

	if c.MaxIdleConns < 1 {
		return fmt.Errorf("max idle connections must be at least 1")
	}

	if c.ConnMaxLifetime < time.Minute {
		return fmt.Errorf("connection max lifetime must be at least 1 minute")
	}

	return nil
}

// ToConnectionConfig converts DatabaseConfig to database.ConnectionConfig
func (c *DatabaseConfig) ToConnectionConfig(logger *logrus.Logger) *database.ConnectionConfig {
	return &database.ConnectionConfig{
		DatabasePath:    c.ConnectionString,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		Logger:          logger,
		SkipMigrations:  !c.AutoMigrate,
	}
}

// EnsureDirectories creates the directory holding the database file
func (c *DatabaseConfig) EnsureDirectories() error {
	if c.ConnectionString == ":memory:" {
		return nil
	}

	dbDir := filepath.Dir(c.ConnectionString)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	return nil
}

func parseDuration(key string) (time.Duration, error) {
	value := viper.GetString(key)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
