package catalog

import (
	"context"

	"github.com/nulzo/provider-engine/internal/core/domain"
)

// StaticSource serves the catalog straight from configuration. It never fails,
// which makes it the default for single-node deployments.
type StaticSource struct {
	descriptors []domain.ProviderDescriptor
}

func NewStaticSource(providers []domain.ProviderConfig) *StaticSource {
	descriptors := make([]domain.ProviderDescriptor, 0, len(providers))
	for _, p := range providers {
		descriptors = append(descriptors, p.Descriptor())
	}
	return &StaticSource{descriptors: descriptors}
}

func (s *StaticSource) Fetch(ctx context.Context) ([]domain.ProviderDescriptor, error) {
	out := make([]domain.ProviderDescriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out, nil
}
