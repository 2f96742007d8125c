package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/internal/resolver"
)

type ResolveHandler struct {
	resolutionSvc resolver.IResolutionService
	logger        zerolog.Logger
}

func NewResolveHandler(resolutionSvc resolver.IResolutionService, logger zerolog.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolutionSvc: resolutionSvc,
		logger:        logger,
	}
}

// Resolve handles POST /v1/resolve. Business outcomes (no path, infeasible
// amount) return 200 with the decision; only malformed requests are client
// errors.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var req domain.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	decision, err := h.resolutionSvc.Resolve(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, decision)
}

func (h *ResolveHandler) ListExchanges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"exchanges": h.resolutionSvc.KnownExchanges(),
	})
}

// GetCapabilities handles GET /v1/exchanges/:exchange/coins/:coin and
// returns the normalized capability record, refreshing it when stale.
func (h *ResolveHandler) GetCapabilities(c *gin.Context) {
	exchangeID := strings.ToLower(c.Param("exchange"))
	coin := strings.ToUpper(c.Param("coin"))

	capability, err := h.resolutionSvc.Capabilities(c.Request.Context(), exchangeID, coin)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Capability Unavailable",
			"message": err.Error(),
		})
		return
	}
	if capability == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": coin + " is not listed on " + exchangeID,
		})
		return
	}

	c.JSON(http.StatusOK, capability)
}
