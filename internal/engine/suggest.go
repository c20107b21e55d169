package engine

import (
	"sort"

	"github.com/nulzo/provider-engine/internal/core/domain"
)

// Suggest maps a task type to a ranked provider recommendation.
//
// Algorithm:
//  1. Filter the snapshot to enabled providers that declare the task type.
//     Empty set -> {nil, false}.
//  2. Prefer the healthy subset. If no capable provider is healthy, fall back
//     to the full capable set — a recommendation is still surfaced, since an
//     offline provider may recover by the time the caller acts — but
//     AvailableForTask reflects only the healthy-subset outcome.
//  3. Rank by ascending priority; ties keep catalog order (stable sort).
//
// An empty or unknown task type returns {nil, false} without inspecting the
// snapshot.
func Suggest(snap *domain.Snapshot, healthy func(string) bool, task domain.TaskType) domain.SuggestionResult {
	if _, ok := domain.ParseTaskType(string(task)); !ok {
		return domain.SuggestionResult{}
	}

	var capable []domain.ProviderDescriptor
	for _, p := range snap.Enabled() {
		if p.Supports(task) {
			capable = append(capable, p)
		}
	}
	if len(capable) == 0 {
		return domain.SuggestionResult{}
	}

	var healthySet []domain.ProviderDescriptor
	for _, p := range capable {
		if healthy(p.Name) {
			healthySet = append(healthySet, p)
		}
	}

	available := len(healthySet) > 0
	candidates := healthySet
	if !available {
		candidates = capable
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})

	top := candidates[0]
	return domain.SuggestionResult{Provider: &top, AvailableForTask: available}
}
