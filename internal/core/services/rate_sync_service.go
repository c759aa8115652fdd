package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
)

// rateSyncService orchestrates the configured rate sources and persists their
// merged results into the snapshot and history stores.
type rateSyncService struct {
	sources  []portssvc.RateSource
	rateRepo portsrepo.RateRepositoryFacade
}

// NewRateSyncService creates a new rate sync service over the given sources.
func NewRateSyncService(rateRepo portsrepo.RateRepositoryFacade, sources []portssvc.RateSource) portssvc.RateSyncSvcFacade {
	return &rateSyncService{sources: sources, rateRepo: rateRepo}
}

// Ensure rateSyncService implements the portssvc.RateSyncSvcFacade interface
var _ portssvc.RateSyncSvcFacade = (*rateSyncService)(nil)

// RunUpdate polls every configured source (optionally filtered by name), isolating
// per-source failures: one provider going down never blocks the others. Same-pair
// conflicts between sources are resolved by updated_at, the same last-write-wins
// rule the snapshot store applies against persisted state.
func (s *rateSyncService) RunUpdate(ctx context.Context, sourceFilter string) (*dto.RateSyncResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Rate sync started",
		slog.String("source_filter", sourceFilter),
		slog.Int("sources", len(s.sources)),
	)

	filter := strings.ToLower(strings.TrimSpace(sourceFilter))

	batch := make(map[string]domain.RatePoint)
	var records []domain.RateHistoryRecord
	errs := []string{}

	for _, source := range s.sources {
		if filter != "" && !strings.Contains(strings.ToLower(source.Name()), filter) {
			continue
		}

		points, err := source.FetchRates(ctx)
		if err != nil {
			logger.Warn("Rate source failed",
				slog.String("source", source.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err.Error())
			continue
		}

		for pair, point := range points {
			// Every observation goes to history; the batch keeps the newest per pair.
			records = append(records, domain.NewHistoryRecord(point))
			if current, ok := batch[pair]; ok && !point.UpdatedAt.After(current.UpdatedAt) {
				continue
			}
			batch[pair] = point
		}
	}

	result := &dto.RateSyncResult{
		UpdatedCount: len(batch),
		Errors:       errs,
	}

	if len(batch) > 0 {
		refreshTS := time.Now().UTC().Truncate(time.Second)
		if err := s.rateRepo.WriteSnapshot(ctx, batch, refreshTS); err != nil {
			return nil, fmt.Errorf("failed to write rate snapshot: %w", err)
		}
		if err := s.rateRepo.AppendHistory(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to append rate history: %w", err)
		}
		result.LastRefresh = &refreshTS
	}

	logger.Info("Rate sync finished",
		slog.Int("updated_count", result.UpdatedCount),
		slog.Int("error_count", len(result.Errors)),
	)
	return result, nil
}
