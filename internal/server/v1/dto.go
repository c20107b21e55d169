package v1

import (
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/internal/store/model"
	"github.com/nulzo/provider-engine/pkg/api"
)

// toAPIProvider merges a catalog descriptor with its latest health outcome.
func toAPIProvider(svc engine.Service, p domain.ProviderDescriptor) api.Provider {
	caps := make(map[string]bool, len(p.Capabilities))
	for task, ok := range p.Capabilities {
		caps[string(task)] = ok
	}

	out := api.Provider{
		Name:         p.Name,
		DisplayName:  p.DisplayName,
		Priority:     p.Priority,
		Models:       p.Models,
		Capabilities: caps,
		Enabled:      p.Enabled,
		Healthy:      svc.ProviderHealth(p.Name),
	}

	if rec, ok := svc.HealthRecord(p.Name); ok {
		checked := rec.CheckedAt
		out.LastChecked = &checked
	}

	return out
}

func toHealthLog(entries []model.HealthLog) api.HealthLog {
	out := api.HealthLog{Probes: make([]api.HealthProbe, 0, len(entries))}
	for _, e := range entries {
		probe := api.HealthProbe{
			Provider:  e.Provider,
			Healthy:   e.Healthy,
			LatencyMS: e.LatencyMS,
			CheckedAt: e.CheckedAt,
		}
		if e.Error.Valid {
			probe.Error = e.Error.String
		}
		out.Probes = append(out.Probes, probe)
	}
	return out
}
