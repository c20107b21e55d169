package api

import "time"

// Provider is the public representation of a catalog entry, enriched with the
// latest health outcome where one exists.
type Provider struct {
	Name         string          `json:"name"`
	DisplayName  string          `json:"display_name"`
	Priority     int             `json:"priority"`
	Models       []string        `json:"models,omitempty"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
	Enabled      bool            `json:"enabled"`
	Healthy      bool            `json:"healthy"`
	LastChecked  *time.Time      `json:"last_checked,omitempty"`
}

// ProviderList is the response for GET /v1/providers.
type ProviderList struct {
	Providers     []Provider `json:"providers"`
	HealthLoading bool       `json:"health_loading"`
}

// HealthStatus is the response for GET /v1/providers/:name/health.
type HealthStatus struct {
	Provider    string     `json:"provider"`
	Healthy     bool       `json:"healthy"`
	Loading     bool       `json:"loading"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

// HealthProbe is one persisted probe outcome, as served by the audit log
// endpoints.
type HealthProbe struct {
	Provider  string    `json:"provider"`
	Healthy   bool      `json:"healthy"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// HealthLog is the response for the audit log endpoints.
type HealthLog struct {
	Probes []HealthProbe `json:"probes"`
}

// SuggestionResponse is the response for GET /v1/suggest.
type SuggestionResponse struct {
	Task             string    `json:"task"`
	Suggested        *Provider `json:"suggested_provider"`
	AvailableForTask bool      `json:"available_for_task"`
}

// SelectRequest is the payload for PUT /v1/selection.
type SelectRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// SelectionResponse is the response for GET and PUT /v1/selection.
type SelectionResponse struct {
	Selected *Provider `json:"selected_provider"`
}

// RefreshResponse acknowledges an on-demand health refresh.
type RefreshResponse struct {
	Started bool `json:"started"`
}
