package anthropic

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

const defaultVersion = "2023-06-01"

func init() {
	probe.Register("anthropic", NewProber)
}

// Prober checks the Anthropic API. The models listing endpoint requires auth
// and is cheap, which makes it a good liveness candidate.
type Prober struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewProber(config domain.ProviderConfig) (probe.Prober, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic prober %s: api key is required", config.Name)
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}
	return &Prober{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (p *Prober) Name() string {
	return p.config.Name
}

func (p *Prober) Type() string {
	return "anthropic"
}

func (p *Prober) Probe(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models?limit=1", strings.TrimRight(p.config.BaseURL, "/"))

	version := defaultVersion
	if v, ok := p.config.Config["version"]; ok {
		version = v
	}

	headers := map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": version,
	}

	return httpclient.SendRequest(ctx, p.client, http.MethodGet, url, headers, nil, nil)
}
