package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
)

// rateLookupService reads the cached snapshot and enforces the TTL policy.
type rateLookupService struct {
	rateRepo    portsrepo.RateSnapshotReader
	currencySvc portssvc.CurrencySvcFacade
	defaultTTL  time.Duration
}

// NewRateLookupService creates a new rate lookup service with the given default TTL.
func NewRateLookupService(rateRepo portsrepo.RateSnapshotReader, currencySvc portssvc.CurrencySvcFacade, defaultTTL time.Duration) portssvc.RateLookupSvcFacade {
	return &rateLookupService{rateRepo: rateRepo, currencySvc: currencySvc, defaultTTL: defaultTTL}
}

// Ensure rateLookupService implements the portssvc.RateLookupSvcFacade interface
var _ portssvc.RateLookupSvcFacade = (*rateLookupService)(nil)

// GetRate returns the cached rate for the exact pair from->to. There is no
// inverse-pair fallback and no synthetic cross rate: only the stored pair is
// honored, and the cache is never mutated on the read path.
func (s *rateLookupService) GetRate(ctx context.Context, fromCode, toCode string, maxAge *time.Duration) (*domain.RatePoint, error) {
	fromCurrency, err := s.currencySvc.GetCurrencyByCode(ctx, fromCode)
	if err != nil {
		return nil, err
	}
	toCurrency, err := s.currencySvc.GetCurrencyByCode(ctx, toCode)
	if err != nil {
		return nil, err
	}

	ttl := s.defaultTTL
	if maxAge != nil {
		ttl = *maxAge
	}

	snapshot, err := s.rateRepo.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate snapshot: %w", err)
	}

	pair := domain.PairKey(fromCurrency.Code, toCurrency.Code)
	point, ok := snapshot.Pairs[pair]
	if !ok {
		return nil, fmt.Errorf("%w: no cached rate for %s; run a rate sync", apperrors.ErrStaleRate, pair)
	}

	if age := time.Since(point.UpdatedAt); age > ttl {
		return nil, fmt.Errorf("%w: cached rate for %s is %s old (max %s); run a rate sync",
			apperrors.ErrStaleRate, pair, age.Truncate(time.Second), ttl)
	}

	return &point, nil
}
