// Package connector provides access to e-commerce platform data for
// migration analysis. Connectors return loosely-typed records because each
// platform exposes a different catalog schema; downstream analysis inspects
// the maps for the fields it understands.
package connector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/erentorlak/storemigrate/migration"
)

// ErrUnsupportedPlatform is returned when no connector is registered for a platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Connector fetches store data from an e-commerce platform.
type Connector interface {
	// GetProducts returns up to limit product records.
	GetProducts(ctx context.Context, limit int) ([]map[string]any, error)

	// GetCustomers returns up to limit customer records.
	GetCustomers(ctx context.Context, limit int) ([]map[string]any, error)

	// GetOrders returns up to limit order records.
	GetOrders(ctx context.Context, limit int) ([]map[string]any, error)

	// GetCategories returns up to limit category records.
	GetCategories(ctx context.Context, limit int) ([]map[string]any, error)

	// GetPlatformInfo returns platform metadata such as version and plan.
	GetPlatformInfo(ctx context.Context) (map[string]any, error)
}

// Factory creates a connector for a platform from its access configuration.
type Factory func(cfg migration.PlatformConfig) (Connector, error)

var (
	factoryRegistry = make(map[string]Factory)
	factoryMu       sync.RWMutex
)

// Register adds a connector factory for a platform. Later registrations
// replace earlier ones, which tests use to install fixtures.
func Register(platform string, f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factoryRegistry[platform] = f
}

// New creates a connector for the given platform.
func New(platform string, cfg migration.PlatformConfig) (Connector, error) {
	factoryMu.RLock()
	f, ok := factoryRegistry[platform]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return f(cfg)
}

// Registered returns the platforms with a registered factory.
func Registered() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(factoryRegistry))
	for name := range factoryRegistry {
		names = append(names, name)
	}
	return names
}
