package domain

import "time"

// TaskType is the closed set of workloads a provider can be asked to serve.
// It is only ever used as a capability lookup key and is never persisted.
type TaskType string

const (
	TaskText     TaskType = "text"
	TaskImage    TaskType = "image"
	TaskAudio    TaskType = "audio"
	TaskAnalysis TaskType = "analysis"
)

// ParseTaskType maps a raw string onto the closed TaskType set.
func ParseTaskType(s string) (TaskType, bool) {
	switch TaskType(s) {
	case TaskText, TaskImage, TaskAudio, TaskAnalysis:
		return TaskType(s), true
	}
	return "", false
}

// ProviderDescriptor describes a single AI backend as reported by the catalog.
// Descriptors are immutable once fetched; updates arrive as a whole new Snapshot.
type ProviderDescriptor struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"display_name"`
	Priority     int               `json:"priority"` // lower wins, catalog order breaks ties
	Models       []string          `json:"models"`
	Capabilities map[TaskType]bool `json:"capabilities"`
	Enabled      bool              `json:"enabled"`
}

// Supports reports whether the descriptor declares the task type with supported=true.
func (p ProviderDescriptor) Supports(task TaskType) bool {
	return p.Capabilities[task]
}

// Snapshot is an immutable view of the provider catalog. The whole snapshot is
// swapped atomically on refresh, so readers never observe a partially updated
// registry. Catalog order is preserved because it breaks priority ties.
type Snapshot struct {
	providers []ProviderDescriptor
	index     map[string]int
	fetchedAt time.Time
}

// NewSnapshot builds a snapshot from catalog order. Duplicate names keep the
// first occurrence, matching the catalog source's own ordering contract.
func NewSnapshot(providers []ProviderDescriptor) *Snapshot {
	s := &Snapshot{
		providers: make([]ProviderDescriptor, 0, len(providers)),
		index:     make(map[string]int, len(providers)),
		fetchedAt: time.Now(),
	}
	for _, p := range providers {
		if _, dup := s.index[p.Name]; dup {
			continue
		}
		s.index[p.Name] = len(s.providers)
		s.providers = append(s.providers, p)
	}
	return s
}

// Get returns the descriptor for name, if present.
func (s *Snapshot) Get(name string) (ProviderDescriptor, bool) {
	if s == nil {
		return ProviderDescriptor{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return ProviderDescriptor{}, false
	}
	return s.providers[i], true
}

// Providers returns every descriptor in catalog order.
func (s *Snapshot) Providers() []ProviderDescriptor {
	if s == nil {
		return nil
	}
	out := make([]ProviderDescriptor, len(s.providers))
	copy(out, s.providers)
	return out
}

// Enabled returns the enabled descriptors in catalog order. Disabled providers
// never participate in selection or suggestion.
func (s *Snapshot) Enabled() []ProviderDescriptor {
	if s == nil {
		return nil
	}
	var out []ProviderDescriptor
	for _, p := range s.providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of descriptors in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.providers)
}

// FetchedAt is when this snapshot was built.
func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}
