package google

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
	probe.Register("google", NewProber)
}

// Prober checks the Google Gemini API via the models listing, which validates
// the API key as a side effect.
type Prober struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewProber(config domain.ProviderConfig) (probe.Prober, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("google prober %s: api key is required", config.Name)
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
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
	return "google"
}

func (p *Prober) Probe(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models?pageSize=1&key=%s",
		strings.TrimRight(p.config.BaseURL, "/"), p.config.APIKey)

	return httpclient.SendRequest(ctx, p.client, http.MethodGet, url, nil, nil, nil)
}
