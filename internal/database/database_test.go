package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func TestConnectionManager_ConnectAndMigrate(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "database_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cm := NewConnectionManager(&ConnectionConfig{
		DatabasePath: filepath.Join(tempDir, "nested", "gst.db"),
		Logger:       testLogger(),
	})

	if err := cm.Ping(); err == nil {
		t.Error("Ping() should fail before Connect()")
	}

	if err := cm.Connect(); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer cm.Close()

	if err := cm.Connect(); err == nil {
		t.Error("Connect() should fail when already connected")
	}

	if err := cm.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() failed: %v", err)
	}

	mm := cm.GetMigrationManager()
	if err := mm.ValidateSchema(); err != nil {
		t.Errorf("ValidateSchema() failed: %v", err)
	}

	status, err := mm.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() failed: %v", err)
	}
	if status.Version != 1 || status.Dirty || !status.Applied {
		t.Errorf("unexpected migration status %+v", status)
	}
}

func TestMigrationManager_RunMigrationsIsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "database_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	db, err := InitializeDatabase(filepath.Join(tempDir, "gst.db"), testLogger())
	if err != nil {
		t.Fatalf("InitializeDatabase() failed: %v", err)
	}
	defer db.Close()

	mm := NewMigrationManager(db, testLogger()).WithoutBackup()
	if err := mm.RunMigrations(); err != nil {
		t.Errorf("second RunMigrations() failed: %v", err)
	}

	if err := mm.RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() failed: %v", err)
	}
	if err := mm.ValidateSchema(); err == nil {
		t.Error("ValidateSchema() should fail after rollback")
	}

	if err := mm.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() after rollback failed: %v", err)
	}
	if err := mm.ValidateSchema(); err != nil {
		t.Errorf("ValidateSchema() failed: %v", err)
	}
}

func TestUniqueIndexes(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "database_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	db, err := InitializeDatabase(filepath.Join(tempDir, "gst.db"), testLogger())
	if err != nil {
		t.Fatalf("InitializeDatabase() failed: %v", err)
	}
	defer db.Close()

	insert := `INSERT INTO vendors (id, code, name) VALUES (?, ?, ?)`
	if _, err := db.Exec(insert, "v1", "VEND123456001", "Dairy One"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := db.Exec(insert, "v2", "VEND123456001", "Dairy Two"); err == nil {
		t.Error("duplicate vendor code should violate the unique index")
	}
}

func TestConnectionManager_SkipMigrations(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "database_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "gst.db")

	empty := NewConnectionManager(&ConnectionConfig{
		DatabasePath:   dbPath,
		Logger:         testLogger(),
		SkipMigrations: true,
	})
	if err := empty.Connect(); err == nil {
		empty.Close()
		t.Fatal("Connect() should fail on an unmigrated database")
	}

	db, err := InitializeDatabase(dbPath, testLogger())
	if err != nil {
		t.Fatalf("InitializeDatabase() failed: %v", err)
	}
	db.Close()

	migrated := NewConnectionManager(&ConnectionConfig{
		DatabasePath:   dbPath,
		Logger:         testLogger(),
		SkipMigrations: true,
	})
	if err := migrated.Connect(); err != nil {
		t.Fatalf("Connect() on a migrated database failed: %v", err)
	}
	migrated.Close()
}
