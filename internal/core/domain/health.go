package domain

import "time"

// HealthRecord is the last known probe outcome for a provider. Records are
// created lazily on first probe and overwritten each cycle, never deleted.
type HealthRecord struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
}

// SuggestionResult is the outcome of the suggestion policy for one task type.
// Provider may be non-nil while AvailableForTask is false: when every capable
// provider is unhealthy a recommendation is still surfaced, since an offline
// provider may recover by the time the caller acts.
type SuggestionResult struct {
	Provider         *ProviderDescriptor `json:"suggested_provider"`
	AvailableForTask bool                `json:"available_for_task"`
}
