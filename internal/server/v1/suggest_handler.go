package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/pkg/api"
)

type SuggestHandler struct {
	service engine.Service
}

func NewSuggestHandler(service engine.Service) *SuggestHandler {
	return &SuggestHandler{service: service}
}

// Suggest returns the best provider for a task type.
//
// GET /v1/suggest?task=text
func (h *SuggestHandler) Suggest(c *gin.Context) {
	raw := c.Query("task")

	task, ok := domain.ParseTaskType(raw)
	if !ok {
		c.Error(api.BadRequestError("Unknown task type: " + raw))
		return
	}

	result := h.service.Suggest(task)

	resp := api.SuggestionResponse{
		Task:             string(task),
		AvailableForTask: result.AvailableForTask,
	}
	if result.Provider != nil {
		p := toAPIProvider(h.service, *result.Provider)
		resp.Suggested = &p
	}

	c.JSON(http.StatusOK, resp)
}
