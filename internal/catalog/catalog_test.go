package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource_Fetch(t *testing.T) {
	src := NewStaticSource([]domain.ProviderConfig{
		{
			Name:         "openai",
			Type:         "openai",
			DisplayName:  "OpenAI",
			Priority:     1,
			Capabilities: map[string]bool{"text": true, "image": true},
			Enabled:      true,
		},
		{
			Name:    "ollama",
			Type:    "ollama",
			Enabled: false,
		},
	})

	descriptors, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, "openai", descriptors[0].Name)
	assert.True(t, descriptors[0].Supports(domain.TaskText))
	assert.True(t, descriptors[0].Supports(domain.TaskImage))
	assert.False(t, descriptors[0].Supports(domain.TaskAudio))
	assert.False(t, descriptors[1].Enabled)
}

func TestHTTPSource_Fetch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"providers": [
				{"name": "openai", "priority": 1, "capabilities": {"text": true, "video": true}, "enabled": true},
				{"name": "claude", "display_name": "Anthropic", "priority": 2, "enabled": true}
			]
		}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "catalog-key")

	descriptors, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, "Bearer catalog-key", gotAuth)

	// unknown capability keys are dropped at the boundary
	assert.True(t, descriptors[0].Supports(domain.TaskText))
	assert.Len(t, descriptors[0].Capabilities, 1)

	// display name falls back to the provider name
	assert.Equal(t, "openai", descriptors[0].DisplayName)
	assert.Equal(t, "Anthropic", descriptors[1].DisplayName)
}

func TestHTTPSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "")

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}
