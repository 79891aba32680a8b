package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/adapters/storage"
	"gst-invoice-api/internal/config"
	"gst-invoice-api/internal/database"
	"gst-invoice-api/internal/handlers"
	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/repositories/sqlite"
	"gst-invoice-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Services *services.ServiceContainer
	Repos    repositories.RepositoryManager
	Files    storage.FileStorage

	conn *database.ConnectionManager
}

// NewContainer opens the database, the document store and the services
// described by cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := cfg.Log.NewLogger()

	if err := cfg.Database.EnsureDirectories(); err != nil {
		return nil, err
	}

	conn := database.NewConnectionManager(cfg.Database.ToConnectionConfig(logger))
	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	files, err := storage.New(cfg.Storage.ToStorageConfig(), logger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create document storage: %w", err)
	}

	repos := sqlite.NewSQLiteRepositoryManager(conn.GetDB(), logger)

	svc, err := services.NewServiceContainer(repos, files, cfg.GST.ServiceConfig(), logger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"environment":  cfg.Environment,
		"company_code": cfg.GST.CompanyCode,
		"state_code":   cfg.GST.CompanyStateCode,
		"storage":      cfg.Storage.Type,
	}).Info("Application container initialized")

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Services: svc,
		Repos:    repos,
		Files:    files,
		conn:     conn,
	}, nil
}

// Router builds the HTTP router over the container's services
func (c *Container) Router() *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return handlers.NewRouter(&handlers.RouterConfig{
		Services:  c.Services,
		Logger:    c.Logger,
		RateLimit: c.Config.RateLimit,
		Health:    c.conn.HealthCheck,
		Swagger:   !c.Config.IsProduction(),
	})
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Services != nil {
		if err := c.Services.Close(); err != nil {
			return fmt.Errorf("failed to close services: %w", err)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
