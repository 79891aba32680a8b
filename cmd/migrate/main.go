package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"gst-invoice-api/internal/database"
	"gst-invoice-api/internal/migration"
	"gst-invoice-api/internal/repositories/sqlite"
	"gst-invoice-api/internal/services"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbPath  = flag.String("db", "./data/gst.db", "Database file path")
		action  = flag.String("action", "up", "Migration action: up, down, status, validate, seed")
		seedDir = flag.String("seed", "./seed", "Directory with products.json, customers.json and vendors.json")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	logger.WithFields(logrus.Fields{
		"db_path": absDBPath,
		"action":  *action,
	}).Info("Starting migration tool")

	switch *action {
	case "up":
		err = runMigrationsUp(absDBPath, logger)
	case "down":
		err = withManager(absDBPath, logger, func(m *database.MigrationManager) error {
			return m.RollbackMigration()
		})
	case "status":
		err = withManager(absDBPath, logger, showMigrationStatus)
	case "validate":
		err = withManager(absDBPath, logger, validateSchema)
	case "seed":
		err = runSeed(absDBPath, *seedDir, logger)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate, seed")
	}
	if err != nil {
		logger.WithError(err).Fatalf("Migration %s failed", *action)
	}

	logger.Info("Migration tool completed successfully")
}

func runMigrationsUp(dbPath string, logger *logrus.Logger) error {
	cm := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath: dbPath,
		Logger:       logger,
	})
	if err := cm.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cm.Close()

	return cm.GetMigrationManager().ValidateSchema()
}

// withManager opens the database without applying pending migrations
func withManager(dbPath string, logger *logrus.Logger, fn func(m *database.MigrationManager) error) error {
	db, err := database.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(database.NewMigrationManager(db, logger))
}

func showMigrationStatus(m *database.MigrationManager) error {
	status, err := m.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}

func validateSchema(m *database.MigrationManager) error {
	if err := m.ValidateSchema(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Println("Schema validation passed successfully")
	return nil
}

func runSeed(dbPath, seedDir string, logger *logrus.Logger) error {
	cm := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath: dbPath,
		Logger:       logger,
	})
	if err := cm.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cm.Close()

	svc, err := services.NewServiceContainer(sqlite.NewSQLiteRepositoryManager(cm.GetDB(), logger), nil, nil, logger)
	if err != nil {
		return err
	}

	importer := migration.NewSeedImporter(svc, seedDir, logger)
	if found, _ := importer.CheckSeedFilesExist(); !found {
		return fmt.Errorf("no seed files in %s", seedDir)
	}

	result, err := importer.Import(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d products, %d customers, %d vendors (%d skipped)\n",
		result.ProductsImported, result.CustomersImported, result.VendorsImported, result.Skipped)
	for _, w := range result.Warnings {
		fmt.Printf("  %s\n", w)
	}
	return nil
}
