package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/internal/server/validator"
	"github.com/nulzo/provider-engine/pkg/api"
)

type SelectionHandler struct {
	service engine.Service
}

func NewSelectionHandler(service engine.Service) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// GetSelection returns the effective selected provider after the fallback
// rule has been applied. A nil provider means the catalog is empty.
//
// GET /v1/selection
func (h *SelectionHandler) GetSelection(c *gin.Context) {
	resp := api.SelectionResponse{}
	if p := h.service.SelectedProvider(); p != nil {
		out := toAPIProvider(h.service, *p)
		resp.Selected = &out
	}

	c.JSON(http.StatusOK, resp)
}

// SetSelection writes a new explicit selection. Unknown or disabled
// providers are rejected and the stored selection is left untouched.
//
// PUT /v1/selection
func (h *SelectionHandler) SetSelection(c *gin.Context) {
	var req api.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if err := h.service.SetSelectedProvider(c.Request.Context(), req.Provider); err != nil {
		c.Error(err)
		return
	}

	resp := api.SelectionResponse{}
	if p := h.service.SelectedProvider(); p != nil {
		out := toAPIProvider(h.service, *p)
		resp.Selected = &out
	}

	c.JSON(http.StatusOK, resp)
}
