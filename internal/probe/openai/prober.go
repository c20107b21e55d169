package openai

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
	probe.Register("openai", NewProber)
}

// Prober checks an OpenAI-compatible endpoint. The models listing requires
// auth, so a 200 verifies both reachability and credential validity.
type Prober struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewProber(config domain.ProviderConfig) (probe.Prober, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai prober %s: api key is required", config.Name)
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
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
	return "openai"
}

func (p *Prober) Probe(ctx context.Context) error {
	url := fmt.Sprintf("%s/models", strings.TrimRight(p.config.BaseURL, "/"))

	headers := map[string]string{
		"Authorization": "Bearer " + p.config.APIKey,
	}
	if org, ok := p.config.Config["organization"]; ok {
		headers["OpenAI-Organization"] = org
	}

	return httpclient.SendRequest(ctx, p.client, http.MethodGet, url, headers, nil, nil)
}
