package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/config"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/internal/server/middleware"
	"github.com/nulzo/provider-engine/internal/server/validator"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service engine.Service
}

func New(cfg *config.Config, logger *zap.Logger, service engine.Service) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	s := &Server{
		router:  router,
		service: service,
		logger:  logger,
		config:  cfg,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
