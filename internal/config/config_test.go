package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad(t *testing.T) {
	clearGSTEnv(t)
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "DB_CONNECTION_STRING", "DB_CONN_MAX_LIFETIME", "STORAGE_TYPE", "STORAGE_LOCAL_PATH", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Port != "8081" {
			t.Errorf("Expected port 8081, got %s", cfg.Port)
		}
		if cfg.Database.ConnectionString != "./data/gst.db" {
			t.Errorf("Expected default database path, got %s", cfg.Database.ConnectionString)
		}
		if cfg.Database.ConnMaxLifetime != time.Hour {
			t.Errorf("Expected 1h lifetime, got %s", cfg.Database.ConnMaxLifetime)
		}
		if cfg.GST.CompanyStateCode != "29" {
			t.Errorf("Expected state 29, got %s", cfg.GST.CompanyStateCode)
		}
		if cfg.RateLimit.RPS != 20 || cfg.RateLimit.Burst != 40 {
			t.Errorf("Unexpected rate limit: %+v", cfg.RateLimit)
		}
		if cfg.IsProduction() {
			t.Error("Expected development environment")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ENVIRONMENT", "Production")
		t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
		t.Setenv("STORAGE_TYPE", "memory")
		t.Setenv("COMPANY_STATE_CODE", "27")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Port != "9090" || !cfg.IsProduction() {
			t.Errorf("Unexpected server settings: %s %s", cfg.Port, cfg.Environment)
		}
		if cfg.Database.ConnMaxLifetime != 30*time.Minute {
			t.Errorf("Expected 30m lifetime, got %s", cfg.Database.ConnMaxLifetime)
		}
		if cfg.Storage.ToStorageConfig().Type != "memory" {
			t.Errorf("Expected memory storage, got %s", cfg.Storage.Type)
		}
		if cfg.GST.ServiceConfig().TaxConfig.SellerStateCode != "27" {
			t.Errorf("Expected seller state 27")
		}
	})

	invalid := []struct {
		name  string
		key   string
		value string
	}{
		{"bad lifetime", "DB_CONN_MAX_LIFETIME", "forever"},
		{"short lifetime", "DB_CONN_MAX_LIFETIME", "10s"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"negative rate limit", "RATE_LIMIT_RPS", "-1"},
		{"bad state", "COMPANY_STATE_CODE", "00"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s expected error", tt.key, tt.value)
			}
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	logger := LogConfig{Level: "debug", Format: "json"}.NewLogger()
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", logger.Formatter)
	}

	logger = LogConfig{Level: "nonsense"}.NewLogger()
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level fallback, got %s", logger.GetLevel())
	}
}

func TestStorageConfig_ToStorageConfig(t *testing.T) {
	cfg := StorageConfig{Type: "local", LocalPath: "/tmp/docs", Retry: true}.ToStorageConfig()
	if cfg.BasePath != "/tmp/docs" || cfg.Retry == nil {
		t.Errorf("Unexpected storage config: %+v", cfg)
	}

	cfg = StorageConfig{Type: "memory"}.ToStorageConfig()
	if cfg.Retry != nil {
		t.Error("Expected no retry config")
	}
}

func TestAdaptForMount(t *testing.T) {
	cfg := &Config{
		Database: *DefaultDatabaseConfig(),
		Storage:  StorageConfig{Type: "local", LocalPath: "./data/documents"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
	cfg.Database.MaxOpenConns = 4

	cfg = adaptForMount(cfg, "/mnt/efs")

	if cfg.Database.ConnectionString != filepath.Join("/mnt/efs", "gst.db") {
		t.Errorf("Expected database on mount, got %s", cfg.Database.ConnectionString)
	}
	if cfg.Database.MaxOpenConns != 1 {
		t.Errorf("Expected single connection, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Storage.LocalPath != filepath.Join("/mnt/efs", "documents") {
		t.Errorf("Expected documents on mount, got %s", cfg.Storage.LocalPath)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json logs, got %s", cfg.Log.Format)
	}

	explicit := &Config{
		Database: DatabaseConfig{ConnectionString: "/data/custom.db", MaxOpenConns: 1, MaxIdleConns: 1},
		Storage:  StorageConfig{Type: "memory"},
	}
	explicit = adaptForMount(explicit, "/mnt/efs")
	if explicit.Database.ConnectionString != "/data/custom.db" {
		t.Errorf("Explicit database path was replaced: %s", explicit.Database.ConnectionString)
	}
	if explicit.Storage.LocalPath != "" {
		t.Errorf("Memory storage got a path: %s", explicit.Storage.LocalPath)
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *DatabaseConfig)
		wantErr bool
	}{
		{"defaults", func(c *DatabaseConfig) {}, false},
		{"empty path", func(c *DatabaseConfig) { c.ConnectionString = "" }, true},
		{"no connections", func(c *DatabaseConfig) { c.MaxOpenConns = 0 }, true},
		{"no idle connections", func(c *DatabaseConfig) { c.MaxIdleConns = 0 }, true},
		{"short lifetime", func(c *DatabaseConfig) { c.ConnMaxLifetime = time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultDatabaseConfig()
			tt.modify(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
