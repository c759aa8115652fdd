package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Crook1Boss35/valutatrade-hub/internal/adapters/rates"
	"github.com/Crook1Boss35/valutatrade-hub/internal/adapters/storage/jsonfile"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/handlers"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
	"github.com/Crook1Boss35/valutatrade-hub/internal/platform/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// File-backed stores (atomic replace semantics, single-writer)
	rateRepo := jsonfile.NewRateRepository(cfg.RatesPath, cfg.RatesHistoryPath)
	userRepo := jsonfile.NewUserRepository(cfg.UsersPath)
	portfolioRepo := jsonfile.NewPortfolioRepository(cfg.PortfoliosPath)

	// One shared HTTP client bounds every provider call by the request timeout.
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	sources := []portssvc.RateSource{
		rates.NewCoinGeckoSource(httpClient, cfg.CoinGeckoURL, cfg.BaseCurrency, cfg.CryptoCurrencies),
		rates.NewExchangeRateAPISource(httpClient, cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, cfg.BaseCurrency, cfg.FiatCurrencies),
	}

	currencyService := services.NewCurrencyService()
	rateLookupService := services.NewRateLookupService(rateRepo, currencyService, cfg.RatesTTL)
	container := &portssvc.ServiceContainer{
		Currency:   currencyService,
		User:       services.NewUserService(userRepo, portfolioRepo),
		RateSync:   services.NewRateSyncService(rateRepo, sources),
		RateLookup: rateLookupService,
		Ledger:     services.NewLedgerService(portfolioRepo, currencyService, rateLookupService, cfg.BaseCurrency),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
