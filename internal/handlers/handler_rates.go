package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to cached exchange rates.
type rateHandler struct {
	rateLookupService portssvc.RateLookupSvcFacade
	rateSyncService   portssvc.RateSyncSvcFacade
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, lookup portssvc.RateLookupSvcFacade, sync portssvc.RateSyncSvcFacade) {
	h := &rateHandler{rateLookupService: lookup, rateSyncService: sync}

	rates := rg.Group("/rates")
	{
		rates.GET("/:from/:to", h.getRate)
		rates.POST("/sync", h.syncRates)
	}
}

// getRate godoc
// @Summary Get a cached exchange rate
// @Description Retrieves the cached rate for a currency pair, enforcing the TTL policy.
// @Tags rates
// @Produce json
// @Param from path string true "From currency code"
// @Param to path string true "To currency code"
// @Param max_age_seconds query int false "Override the configured TTL"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Rate stale or missing; run a sync"
// @Router /rates/{from}/{to} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	var maxAge *time.Duration
	if raw := c.Query("max_age_seconds"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "max_age_seconds must be a non-negative integer"})
			return
		}
		age := time.Duration(seconds) * time.Second
		maxAge = &age
	}

	point, err := h.rateLookupService.GetRate(c.Request.Context(), c.Param("from"), c.Param("to"), maxAge)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrStaleRate):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponse(point))
}

// syncRates godoc
// @Summary Refresh the rate cache
// @Description Polls the configured rate providers and merges their results. Partial
// @Description failures are reported in the response, not as an error status.
// @Tags rates
// @Accept json
// @Produce json
// @Param sync body dto.RateSyncRequest false "Optional source filter"
// @Success 200 {object} dto.RateSyncResult
// @Router /rates/sync [post]
func (h *rateHandler) syncRates(c *gin.Context) {
	var req dto.RateSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	result, err := h.rateSyncService.RunUpdate(c.Request.Context(), req.Source)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Rate sync failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sync rates"})
		return
	}

	c.JSON(http.StatusOK, result)
}
