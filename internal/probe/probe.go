package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/nulzo/provider-engine/internal/core/domain"
)

// Prober performs a liveness check against a single provider. What "healthy"
// means (credential validity, reachability) is up to the implementation; the
// monitor only records the boolean outcome.
type Prober interface {
	Name() string
	Type() string // e.g., "openai", "anthropic"
	Probe(ctx context.Context) error
}

// Factory is a function that creates a Prober instance given a configuration.
type Factory func(cfg domain.ProviderConfig) (Prober, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a prober factory available to the system.
// 'type' is the key (e.g., "openai", "ollama").
func Register(proberType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[proberType]; exists {
		panic(fmt.Sprintf("prober factory %s already registered", proberType))
	}
	factories[proberType] = f
}

// Get retrieves a factory to create a prober of a specific type.
func Get(proberType string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[proberType]
	if !ok {
		return nil, fmt.Errorf("prober factory not found for type: %s", proberType)
	}
	return f, nil
}

// New creates a prober for the given provider config by looking up its type.
func New(cfg domain.ProviderConfig) (Prober, error) {
	factoryFunc, err := Get(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("factory lookup failed for type %s: %w", cfg.Type, err)
	}
	return factoryFunc(cfg)
}
