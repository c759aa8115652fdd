package dto

import (
	"github.com/shopspring/decimal"
)

// TradeRequest defines the payload for a buy or sell operation. Amount is the
// quantity of the traded currency; Base defaults to the configured base currency.
type TradeRequest struct {
	Currency string          `json:"currency" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Base     string          `json:"base"`
}

// TradeSummary carries everything a caller needs to render a receipt: opening and
// closing balances on both sides, and the rate applied for cross-currency trades.
type TradeSummary struct {
	Currency       string           `json:"currency"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyBefore decimal.Decimal  `json:"currencyBefore"`
	CurrencyAfter  decimal.Decimal  `json:"currencyAfter"`
	Base           string           `json:"base"`
	BaseBefore     *decimal.Decimal `json:"baseBefore,omitempty"`
	BaseAfter      *decimal.Decimal `json:"baseAfter,omitempty"`
	RatePair       string           `json:"ratePair,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	ConvertedValue *decimal.Decimal `json:"convertedValue,omitempty"`
}

// PortfolioRow is one held currency valued in the requested base currency.
type PortfolioRow struct {
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	ValueInBase decimal.Decimal `json:"valueInBase"`
}

// PortfolioSummary is the full portfolio view: every wallet converted into the
// base currency and the total across all of them.
type PortfolioSummary struct {
	Base  string          `json:"base"`
	Rows  []PortfolioRow  `json:"rows"`
	Total decimal.Decimal `json:"total"`
}
