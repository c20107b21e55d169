package server

import (
	"github.com/nulzo/provider-engine/internal/server/middleware"
	v1 "github.com/nulzo/provider-engine/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	// 1. Global Middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Tracing("provider-engine"))
	s.router.Use(middleware.ErrorHandler(s.logger))

	// 2. Liveness (Public)
	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/ready", healthHandler.Ready)

	// 3. API V1 Group
	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(middleware.RateLimit(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger))
	{
		providerHandler := v1.NewProviderHandler(s.service)
		api.GET("/providers", providerHandler.ListProviders)
		api.GET("/providers/:name/health", providerHandler.ProviderHealth)
		api.GET("/providers/:name/health/log", providerHandler.ProviderHealthLog)
		api.GET("/health/log", providerHandler.HealthLog)
		api.POST("/health/refresh", providerHandler.RefreshHealth)

		suggestHandler := v1.NewSuggestHandler(s.service)
		api.GET("/suggest", suggestHandler.Suggest)

		selectionHandler := v1.NewSelectionHandler(s.service)
		api.GET("/selection", selectionHandler.GetSelection)
		api.PUT("/selection", selectionHandler.SetSelection)
	}
}
