package services

import (
	"context"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
)

// RateSource fetches current prices from one external provider and normalizes
// them into RatePoints keyed by pair. Implementations must isolate per-pair
// parsing problems (skip the pair) and surface transport or protocol failures
// as a single apperrors.ErrExternal-wrapped error.
type RateSource interface {
	// Name identifies the provider (used for source filtering and logging).
	Name() string

	// FetchRates fetches and normalizes the provider's current prices.
	FetchRates(ctx context.Context) (map[string]domain.RatePoint, error)
}

// RateSyncSvcFacade defines the aggregator that refreshes the local rate cache.
type RateSyncSvcFacade interface {
	// RunUpdate polls the configured sources (optionally filtered by name),
	// merges their results and persists the snapshot and history. A failing
	// source never blocks the others; its error is collected in the result.
	RunUpdate(ctx context.Context, sourceFilter string) (*dto.RateSyncResult, error)
}

// RateLookupSvcFacade defines TTL-guarded access to the cached rates.
type RateLookupSvcFacade interface {
	// GetRate returns the cached rate for the exact pair from->to. maxAge overrides
	// the configured TTL when non-nil. A missing or expired entry yields
	// apperrors.ErrStaleRate; unknown currency codes yield apperrors.ErrNotFound.
	GetRate(ctx context.Context, fromCode, toCode string, maxAge *time.Duration) (*domain.RatePoint, error)
}
