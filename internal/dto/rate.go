package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// RateResponse defines the structure for API responses containing a cached rate.
type RateResponse struct {
	Pair      string          `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source"`
}

// ToRateResponse converts a domain.RatePoint to RateResponse DTO.
func ToRateResponse(point *domain.RatePoint) RateResponse {
	return RateResponse{
		Pair:      point.Pair,
		Rate:      point.Rate,
		UpdatedAt: point.UpdatedAt,
		Source:    point.Source,
	}
}

// RateSyncRequest defines the optional payload for triggering a rate sync.
// Source restricts the run to providers whose name contains the given string.
type RateSyncRequest struct {
	Source string `json:"source"`
}

// RateSyncResult summarises one aggregator run: how many pairs were written, the
// refresh timestamp stamped on the snapshot (absent when every source failed), and
// the per-source error strings collected along the way.
type RateSyncResult struct {
	UpdatedCount int        `json:"updatedCount"`
	LastRefresh  *time.Time `json:"lastRefresh,omitempty"`
	Errors       []string   `json:"errors"`
}
