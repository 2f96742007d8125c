package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/internal/resolver"
	"github.com/TerryChengTW/coin-porter/pkg/config"
)

type Handlers struct {
	ResolutionSvc resolver.IResolutionService
	Logger        zerolog.Logger
	Config        *config.Config
}

func New(resolutionSvc resolver.IResolutionService, logger zerolog.Logger, config *config.Config) *Handlers {
	return &Handlers{
		ResolutionSvc: resolutionSvc,
		Logger:        logger,
		Config:        config,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	resolveHandler := NewResolveHandler(h.ResolutionSvc, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/v1")
	{
		v1.POST("/resolve", resolveHandler.Resolve)
		v1.GET("/exchanges", resolveHandler.ListExchanges)
		v1.GET("/exchanges/:exchange/coins/:coin", resolveHandler.GetCapabilities)
	}
}
