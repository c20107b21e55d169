package catalog

import (
	"context"

	"github.com/nulzo/provider-engine/internal/core/domain"
)

// Source produces the current provider catalog. Every successful fetch yields
// the complete list; the engine replaces its snapshot wholesale, so entries a
// source stops returning are dropped rather than merged.
type Source interface {
	Fetch(ctx context.Context) ([]domain.ProviderDescriptor, error)
}
