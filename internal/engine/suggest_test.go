package engine

import (
	"testing"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textProvider(name string, priority int, enabled bool) domain.ProviderDescriptor {
	return domain.ProviderDescriptor{
		Name:         name,
		DisplayName:  name,
		Priority:     priority,
		Capabilities: map[domain.TaskType]bool{domain.TaskText: true},
		Enabled:      enabled,
	}
}

func allHealthy(string) bool  { return true }
func noneHealthy(string) bool { return false }

func TestSuggest_UnknownTask(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{textProvider("openai", 1, true)})

	res := Suggest(snap, allHealthy, "")
	assert.Nil(t, res.Provider)
	assert.False(t, res.AvailableForTask)

	res = Suggest(snap, allHealthy, "video")
	assert.Nil(t, res.Provider)
	assert.False(t, res.AvailableForTask)
}

func TestSuggest_NoCapableProvider(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
	})

	res := Suggest(snap, allHealthy, domain.TaskImage)
	assert.Nil(t, res.Provider)
	assert.False(t, res.AvailableForTask)
}

func TestSuggest_PrefersHealthyOverPriority(t *testing.T) {
	// openai outranks claude, but only claude is healthy
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
		textProvider("claude", 2, true),
	})
	healthy := func(name string) bool { return name == "claude" }

	res := Suggest(snap, healthy, domain.TaskText)
	require.NotNil(t, res.Provider)
	assert.Equal(t, "claude", res.Provider.Name)
	assert.True(t, res.AvailableForTask)
}

func TestSuggest_AllUnhealthyFallsBackToFullSet(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
		textProvider("claude", 2, true),
	})

	res := Suggest(snap, noneHealthy, domain.TaskText)
	require.NotNil(t, res.Provider)
	assert.Equal(t, "openai", res.Provider.Name)
	assert.False(t, res.AvailableForTask, "a fallback recommendation is not an available one")
}

func TestSuggest_DisabledNeverSuggested(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, false),
		textProvider("claude", 2, true),
	})

	res := Suggest(snap, allHealthy, domain.TaskText)
	require.NotNil(t, res.Provider)
	assert.Equal(t, "claude", res.Provider.Name)
}

func TestSuggest_PriorityTieKeepsCatalogOrder(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("first", 3, true),
		textProvider("second", 3, true),
		textProvider("third", 3, true),
	})

	res := Suggest(snap, allHealthy, domain.TaskText)
	require.NotNil(t, res.Provider)
	assert.Equal(t, "first", res.Provider.Name)
}

func TestSuggest_LowerPriorityWins(t *testing.T) {
	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("backup", 10, true),
		textProvider("primary", 1, true),
	})

	res := Suggest(snap, allHealthy, domain.TaskText)
	require.NotNil(t, res.Provider)
	assert.Equal(t, "primary", res.Provider.Name)
	assert.True(t, res.AvailableForTask)
}
