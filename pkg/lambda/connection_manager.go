package lambda

import (
	"context"
	"sync"
	"time"

	"gst-invoice-api/internal/config"
	"gst-invoice-api/pkg/server"
)

// ConnectionManager keeps the container and router alive across warm invocations
type ConnectionManager struct {
	container   *server.Container
	handler     HandlerFunc
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	config      *config.Config
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize opens the container for cfg. Later calls are no-ops until Cleanup.
func (cm *ConnectionManager) Initialize(cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.initialized {
		return nil
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		return err
	}

	cm.config = cfg
	cm.container = container
	cm.handler = HTTPHandler(container.Router())
	cm.lastUsed = time.Now()
	cm.initialized = true
	return nil
}

// Handle serves one request through the shared router
func (cm *ConnectionManager) Handle(ctx context.Context, req *Request) (*Response, error) {
	if err := cm.ensure(); err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.lastUsed = time.Now()
	handler := cm.handler
	cm.mu.Unlock()

	return handler(ctx, req)
}

func (cm *ConnectionManager) ensure() error {
	cm.mu.RLock()
	ready := cm.initialized
	cfg := cm.config
	cm.mu.RUnlock()
	if ready {
		return nil
	}

	if cfg == nil {
		var err error
		cfg, err = config.GetOptimizedConfig()
		if err != nil {
			return err
		}
	}
	return cm.Initialize(cfg)
}

// IsHealthy checks if the connection manager is healthy
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	// Check if connection is stale (older than 5 minutes)
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup closes the container. The next request opens it again.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.handler = nil
	cm.initialized = false
	return nil
}
