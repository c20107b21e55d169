package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/internal/server/middleware"
	"github.com/nulzo/provider-engine/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockService scripts the engine facade for handler tests.
type mockService struct {
	providers  []domain.ProviderDescriptor
	healthy    map[string]bool
	records    map[string]domain.HealthRecord
	loading    bool
	suggestion domain.SuggestionResult
	selected   *domain.ProviderDescriptor
	setErr     error
	history    []model.HealthLog
	refreshed  atomic.Int64
}

func (m *mockService) Start(ctx context.Context) error { return nil }
func (m *mockService) Stop()                           {}

func (m *mockService) Providers() []domain.ProviderDescriptor { return m.providers }

func (m *mockService) EnabledProviders() []domain.ProviderDescriptor {
	var out []domain.ProviderDescriptor
	for _, p := range m.providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

func (m *mockService) ProviderHealth(name string) bool { return m.healthy[name] }

func (m *mockService) HealthRecord(name string) (domain.HealthRecord, bool) {
	rec, ok := m.records[name]
	return rec, ok
}

func (m *mockService) HealthLoading() bool { return m.loading }

func (m *mockService) HealthHistory(ctx context.Context, name string, limit int) ([]model.HealthLog, error) {
	return m.history, nil
}

func (m *mockService) LatestHealth(ctx context.Context) ([]model.HealthLog, error) {
	return m.history, nil
}

func (m *mockService) Suggest(task domain.TaskType) domain.SuggestionResult { return m.suggestion }

func (m *mockService) SelectedProvider() *domain.ProviderDescriptor { return m.selected }

func (m *mockService) SetSelectedProvider(ctx context.Context, name string) error { return m.setErr }

func (m *mockService) RefreshHealth(ctx context.Context)      { m.refreshed.Add(1) }
func (m *mockService) RefreshCatalog(ctx context.Context) error { return nil }

func (m *mockService) Subscribe() (<-chan engine.ChangeEvent, func()) {
	ch := make(chan engine.ChangeEvent)
	return ch, func() { close(ch) }
}

func newTestRouter(svc engine.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	providerHandler := NewProviderHandler(svc)
	router.GET("/v1/providers", providerHandler.ListProviders)
	router.GET("/v1/providers/:name/health", providerHandler.ProviderHealth)
	router.GET("/v1/providers/:name/health/log", providerHandler.ProviderHealthLog)
	router.GET("/v1/health/log", providerHandler.HealthLog)
	router.POST("/v1/health/refresh", providerHandler.RefreshHealth)

	suggestHandler := NewSuggestHandler(svc)
	router.GET("/v1/suggest", suggestHandler.Suggest)

	selectionHandler := NewSelectionHandler(svc)
	router.GET("/v1/selection", selectionHandler.GetSelection)
	router.PUT("/v1/selection", selectionHandler.SetSelection)

	return router
}

func testDescriptor(name string, priority int) domain.ProviderDescriptor {
	return domain.ProviderDescriptor{
		Name:         name,
		DisplayName:  name,
		Priority:     priority,
		Capabilities: map[domain.TaskType]bool{domain.TaskText: true},
		Enabled:      true,
	}
}

func TestListProviders(t *testing.T) {
	now := time.Now()
	svc := &mockService{
		providers: []domain.ProviderDescriptor{testDescriptor("openai", 1), testDescriptor("claude", 2)},
		healthy:   map[string]bool{"openai": true},
		records:   map[string]domain.HealthRecord{"openai": {Healthy: true, CheckedAt: now}},
		loading:   true,
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Providers []struct {
			Name        string     `json:"name"`
			Healthy     bool       `json:"healthy"`
			LastChecked *time.Time `json:"last_checked"`
		} `json:"providers"`
		HealthLoading bool `json:"health_loading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body.Providers, 2)
	assert.True(t, body.HealthLoading)
	assert.True(t, body.Providers[0].Healthy)
	assert.NotNil(t, body.Providers[0].LastChecked)
	assert.False(t, body.Providers[1].Healthy)
	assert.Nil(t, body.Providers[1].LastChecked)
}

func TestProviderHealth_Unknown(t *testing.T) {
	svc := &mockService{providers: []domain.ProviderDescriptor{testDescriptor("openai", 1)}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/providers/ghost/health", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
}

func TestProviderHealth_Known(t *testing.T) {
	svc := &mockService{
		providers: []domain.ProviderDescriptor{testDescriptor("openai", 1)},
		healthy:   map[string]bool{"openai": true},
		records:   map[string]domain.HealthRecord{"openai": {Healthy: true, CheckedAt: time.Now()}},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/providers/openai/health", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Provider string `json:"provider"`
		Healthy  bool   `json:"healthy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "openai", body.Provider)
	assert.True(t, body.Healthy)
}

func TestProviderHealthLog(t *testing.T) {
	svc := &mockService{
		history: []model.HealthLog{
			{Provider: "openai", Healthy: true, LatencyMS: 42, CheckedAt: time.Now()},
			{Provider: "openai", Healthy: false, Error: sql.NullString{String: "timeout", Valid: true}, CheckedAt: time.Now().Add(-time.Minute)},
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/providers/openai/health/log", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Probes []struct {
			Provider string `json:"provider"`
			Healthy  bool   `json:"healthy"`
			Error    string `json:"error"`
		} `json:"probes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Probes, 2)
	assert.True(t, body.Probes[0].Healthy)
	assert.Equal(t, "timeout", body.Probes[1].Error)
}

func TestRefreshHealth(t *testing.T) {
	svc := &mockService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/health/refresh", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"started":true`)

	assert.Eventually(t, func() bool {
		return svc.refreshed.Load() == 1
	}, time.Second, time.Millisecond)
}

func TestSuggest(t *testing.T) {
	top := testDescriptor("openai", 1)
	svc := &mockService{
		providers:  []domain.ProviderDescriptor{top},
		healthy:    map[string]bool{"openai": true},
		suggestion: domain.SuggestionResult{Provider: &top, AvailableForTask: true},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/suggest?task=text", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Task      string `json:"task"`
		Suggested *struct {
			Name string `json:"name"`
		} `json:"suggested_provider"`
		AvailableForTask bool `json:"available_for_task"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "text", body.Task)
	require.NotNil(t, body.Suggested)
	assert.Equal(t, "openai", body.Suggested.Name)
	assert.True(t, body.AvailableForTask)
}

func TestSuggest_UnknownTask(t *testing.T) {
	svc := &mockService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/suggest?task=video", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSelection(t *testing.T) {
	selected := testDescriptor("claude", 2)
	svc := &mockService{
		providers: []domain.ProviderDescriptor{selected},
		selected:  &selected,
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/selection", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"claude"`)
}

func TestSetSelection_Rejected(t *testing.T) {
	svc := &mockService{
		setErr: domain.RejectSelection(domain.SelectionUnknownProvider, "ghost"),
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/selection", strings.NewReader(`{"provider":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_provider")
}

func TestSetSelection_MissingBody(t *testing.T) {
	svc := &mockService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/selection", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetSelection_Valid(t *testing.T) {
	selected := testDescriptor("openai", 1)
	svc := &mockService{
		providers: []domain.ProviderDescriptor{selected},
		selected:  &selected,
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/selection", strings.NewReader(`{"provider":"openai"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openai"`)
}
