package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/httpclient"
	"github.com/nulzo/provider-engine/pkg/api"
)

// HTTPSource fetches the catalog document from a remote endpoint. A fetch
// error surfaces to the engine, which keeps its previous snapshot.
type HTTPSource struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPSource(url, apiKey string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.ProviderDescriptor, error) {
	var doc api.CatalogDocument

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["Authorization"] = "Bearer " + s.apiKey
	}

	if err := httpclient.SendRequest(ctx, s.client, http.MethodGet, s.url, headers, nil, &doc); err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	descriptors := make([]domain.ProviderDescriptor, 0, len(doc.Providers))
	for _, p := range doc.Providers {
		caps := make(map[domain.TaskType]bool, len(p.Capabilities))
		for k, v := range p.Capabilities {
			if t, ok := domain.ParseTaskType(k); ok {
				caps[t] = v
			}
		}
		display := p.DisplayName
		if display == "" {
			display = p.Name
		}
		descriptors = append(descriptors, domain.ProviderDescriptor{
			Name:         p.Name,
			DisplayName:  display,
			Priority:     p.Priority,
			Models:       p.Models,
			Capabilities: caps,
			Enabled:      p.Enabled,
		})
	}

	return descriptors, nil
}
