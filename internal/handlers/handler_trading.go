package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tradingHandler handles HTTP requests for buy/sell operations and the
// portfolio view.
type tradingHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerTradingRoutes registers routes related to trading.
func registerTradingRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &tradingHandler{ledgerService: ledgerService}

	trade := rg.Group("/trade")
	{
		trade.POST("/buy", h.buy)
		trade.POST("/sell", h.sell)
	}
	rg.GET("/portfolio", h.showPortfolio)
}

// buy godoc
// @Summary Buy currency
// @Description Buys an amount of a currency, paying from the base-currency wallet
// @Description at the cached rate.
// @Tags trading
// @Accept json
// @Produce json
// @Param trade body dto.TradeRequest true "Trade details"
// @Success 200 {object} dto.TradeSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse "Rate stale or missing; run a sync"
// @Router /trade/buy [post]
func (h *tradingHandler) buy(c *gin.Context) {
	h.trade(c, h.ledgerService.Buy)
}

// sell godoc
// @Summary Sell currency
// @Description Sells an amount of a held currency into the base-currency wallet
// @Description at the cached rate.
// @Tags trading
// @Accept json
// @Produce json
// @Param trade body dto.TradeRequest true "Trade details"
// @Success 200 {object} dto.TradeSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse "Rate stale or missing; run a sync"
// @Router /trade/sell [post]
func (h *tradingHandler) sell(c *gin.Context) {
	h.trade(c, h.ledgerService.Sell)
}

// trade binds the request, runs the given ledger operation for the
// authenticated user and maps the error taxonomy to HTTP statuses.
func (h *tradingHandler) trade(c *gin.Context, operation func(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := operation(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrStaleRate):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Trade failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Trade failed"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// showPortfolio godoc
// @Summary Show portfolio valued in a base currency
// @Description Converts every held balance into the requested base currency and sums
// @Description the total. Fails entirely when any held currency lacks a fresh rate.
// @Tags trading
// @Produce json
// @Param base query string false "Base currency code (defaults to the configured base)"
// @Success 200 {object} dto.PortfolioSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Rate stale or missing; run a sync"
// @Router /portfolio [get]
func (h *tradingHandler) showPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.ledgerService.ShowPortfolio(c.Request.Context(), userID, c.Query("base"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrStaleRate):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to build portfolio summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build portfolio summary"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
