package config

import (
	"fmt"
	"os"
	"strings"

	"gst-invoice-api/internal/adapters/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Log         LogConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	GST         GSTSettings
	RateLimit   RateLimitConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// StorageConfig holds file storage configuration for rendered documents
type StorageConfig struct {
	Type      string // "local" or "memory"
	LocalPath string
	Retry     bool
}

// RateLimitConfig holds the per-client request limit. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func setDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("DB_CONNECTION_STRING", "./data/gst.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 1)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 1)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("STORAGE_LOCAL_PATH", "./data/documents")
	viper.SetDefault("STORAGE_RETRY", true)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("GST_COUNTRY_CODE", "IN")
	viper.SetDefault("COMPANY_CODE", "INV")
	viper.SetDefault("COMPANY_NAME", "GST Invoice")
	viper.SetDefault("RETURN_CODE", "RET")
	viper.SetDefault("INVOICE_NUMBERING", "sequence")
	viper.SetDefault("SALES_DISCOUNT_PERCENT", "5")
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	setDefaults()

	lifetime, err := parseDuration("DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}

	settings, err := LoadGSTSettings()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			ConnectionString: viper.GetString("DB_CONNECTION_STRING"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  lifetime,
			AutoMigrate:      viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Storage: StorageConfig{
			Type:      viper.GetString("STORAGE_TYPE"),
			LocalPath: viper.GetString("STORAGE_LOCAL_PATH"),
			Retry:     viper.GetBool("STORAGE_RETRY"),
		},
		GST: *settings,
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must be non-negative")
	}
	if err := c.GST.Validate(); err != nil {
		return fmt.Errorf("invalid GST configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// NewLogger builds the application logger
func (c LogConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(c.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// ToStorageConfig converts StorageConfig to the storage adapter configuration
func (c StorageConfig) ToStorageConfig() *storage.StorageConfig {
	config := &storage.StorageConfig{
		Type:     c.Type,
		BasePath: c.LocalPath,
	}
	if c.Retry {
		config.Retry = storage.DefaultRetryConfig()
	}
	return config
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
