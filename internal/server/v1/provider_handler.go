package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/pkg/api"
)

type ProviderHandler struct {
	service engine.Service
}

func NewProviderHandler(service engine.Service) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// ListProviders returns the full catalog snapshot with health annotations.
//
// GET /v1/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	providers := h.service.Providers()

	out := make([]api.Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, toAPIProvider(h.service, p))
	}

	c.JSON(http.StatusOK, api.ProviderList{
		Providers:     out,
		HealthLoading: h.service.HealthLoading(),
	})
}

// ProviderHealth returns the latest health outcome for a single provider.
// A provider with no completed probe yet reads unhealthy with Loading set.
//
// GET /v1/providers/:name/health
func (h *ProviderHandler) ProviderHealth(c *gin.Context) {
	name := c.Param("name")

	found := false
	for _, p := range h.service.Providers() {
		if p.Name == name {
			found = true
			break
		}
	}
	if !found {
		c.Error(api.NotFoundError("Unknown provider: " + name))
		return
	}

	status := api.HealthStatus{
		Provider: name,
		Healthy:  h.service.ProviderHealth(name),
		Loading:  h.service.HealthLoading(),
	}
	if rec, ok := h.service.HealthRecord(name); ok {
		checked := rec.CheckedAt
		status.LastChecked = &checked
	}

	c.JSON(http.StatusOK, status)
}

// ProviderHealthLog returns the persisted probe history for one provider,
// newest first. Empty without durable storage.
//
// GET /v1/providers/:name/health/log?limit=20
func (h *ProviderHandler) ProviderHealthLog(c *gin.Context) {
	name := c.Param("name")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.service.HealthHistory(c.Request.Context(), name, limit)
	if err != nil {
		c.Error(api.NewError(http.StatusInternalServerError, "Internal Server Error",
			"Failed to read the probe log.", api.WithLog(err)))
		return
	}

	c.JSON(http.StatusOK, toHealthLog(entries))
}

// HealthLog returns the newest persisted outcome per provider.
//
// GET /v1/health/log
func (h *ProviderHandler) HealthLog(c *gin.Context) {
	entries, err := h.service.LatestHealth(c.Request.Context())
	if err != nil {
		c.Error(api.NewError(http.StatusInternalServerError, "Internal Server Error",
			"Failed to read the probe log.", api.WithLog(err)))
		return
	}

	c.JSON(http.StatusOK, toHealthLog(entries))
}

// RefreshHealth starts (or joins) an on-demand probe cycle. The response is
// an acknowledgment; callers observe results via the providers endpoints.
//
// POST /v1/health/refresh
func (h *ProviderHandler) RefreshHealth(c *gin.Context) {
	// the cycle must outlive this request
	go h.service.RefreshHealth(context.WithoutCancel(c.Request.Context()))

	c.JSON(http.StatusAccepted, api.RefreshResponse{Started: true})
}
