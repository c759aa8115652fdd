package repositories

import (
	"context"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// RateSnapshotReader defines read operations for the rate cache.
type RateSnapshotReader interface {
	// ReadSnapshot loads the current snapshot. A missing or unreadable cache file
	// yields the empty snapshot, never an error.
	ReadSnapshot(ctx context.Context) (domain.RateSnapshot, error)
}

// RateSnapshotWriter defines write operations for the rate cache.
type RateSnapshotWriter interface {
	// WriteSnapshot merges the update into the stored snapshot. For each pair the
	// stored point is replaced only when the incoming updated_at is strictly newer
	// (last-write-wins), then last_refresh is set to refreshTS.
	WriteSnapshot(ctx context.Context, pairsUpdate map[string]domain.RatePoint, refreshTS time.Time) error
}

// RateHistoryWriter defines append operations for the rate history log.
type RateHistoryWriter interface {
	// AppendHistory appends records whose IDs are not yet present in the log.
	// When every record is already known the log file is left untouched.
	AppendHistory(ctx context.Context, records []domain.RateHistoryRecord) error
}

// RateHistoryReader defines read operations for the rate history log.
type RateHistoryReader interface {
	ListHistory(ctx context.Context) ([]domain.RateHistoryRecord, error)
}

// RateRepositoryFacade combines all rate-cache repository interfaces.
// This is a facade for clients that need access to all operations.
type RateRepositoryFacade interface {
	RateSnapshotReader
	RateSnapshotWriter
	RateHistoryReader
	RateHistoryWriter
}
