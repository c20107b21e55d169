package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/httpclient"
	"github.com/nulzo/provider-engine/internal/probe"
)

func init() {
	probe.Register("ollama", NewProber)
}

// Prober checks a local Ollama daemon. No credentials are involved; the
// version endpoint answers iff the daemon is up.
type Prober struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewProber(config domain.ProviderConfig) (probe.Prober, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	return &Prober{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *Prober) Name() string {
	return p.config.Name
}

func (p *Prober) Type() string {
	return "ollama"
}

func (p *Prober) Probe(ctx context.Context) error {
	// the /v1 suffix belongs to the OpenAI-compatible surface, not the native API
	rootURL := strings.TrimSuffix(strings.TrimRight(p.config.BaseURL, "/"), "/v1")
	url := fmt.Sprintf("%s/api/version", rootURL)

	return httpclient.SendRequest(ctx, p.client, http.MethodGet, url, nil, nil, nil)
}
