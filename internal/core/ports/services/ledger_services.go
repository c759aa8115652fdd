package services

import (
	"context"

	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
)

// LedgerSvcFacade defines the balance-mutating trade operations and the
// portfolio valuation view.
type LedgerSvcFacade interface {
	// Buy acquires req.Amount of req.Currency, paying from the base-currency
	// wallet at the cached rate. Both wallet mutations apply atomically or not
	// at all.
	Buy(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error)

	// Sell disposes req.Amount of req.Currency into the base-currency wallet at
	// the cached rate. The traded-currency wallet must already exist.
	Sell(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error)

	// ShowPortfolio values every held balance in the requested base currency and
	// sums the total. It fails entirely when any held currency lacks a fresh rate.
	ShowPortfolio(ctx context.Context, userID, baseCode string) (*dto.PortfolioSummary, error)
}
