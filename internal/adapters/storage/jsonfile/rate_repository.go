package jsonfile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
)

// RateRepository stores the rate snapshot and the append-only history log as
// JSON files.
type RateRepository struct {
	snapshotPath string
	historyPath  string
}

// NewRateRepository creates a RateRepository writing to the given file paths.
func NewRateRepository(snapshotPath, historyPath string) *RateRepository {
	return &RateRepository{snapshotPath: snapshotPath, historyPath: historyPath}
}

// Ensure RateRepository implements the repository facade.
var _ portsrepo.RateRepositoryFacade = (*RateRepository)(nil)

// snapshotEntry is the on-disk shape of one cached pair. The pair key itself is
// the map key; Meta is deliberately not persisted in the snapshot (history keeps it).
type snapshotEntry struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
	Source    string          `json:"source"`
}

// snapshotFile is the on-disk shape of the rate cache.
type snapshotFile struct {
	Pairs       map[string]snapshotEntry `json:"pairs"`
	LastRefresh *time.Time               `json:"last_refresh"`
}

// ReadSnapshot loads the cache. A missing, empty or corrupt file is treated as
// the empty snapshot, never as a failure.
func (r *RateRepository) ReadSnapshot(ctx context.Context) (domain.RateSnapshot, error) {
	file := r.readSnapshotFile()

	snapshot := domain.EmptyRateSnapshot()
	snapshot.LastRefresh = file.LastRefresh
	for pair, entry := range file.Pairs {
		snapshot.Pairs[pair] = domain.RatePoint{
			Pair:      pair,
			Rate:      entry.Rate,
			UpdatedAt: entry.UpdatedAt,
			Source:    entry.Source,
		}
	}
	return snapshot, nil
}

// WriteSnapshot merges pairsUpdate into the stored snapshot using last-write-wins
// on updated_at and stamps last_refresh, then atomically replaces the file.
func (r *RateRepository) WriteSnapshot(ctx context.Context, pairsUpdate map[string]domain.RatePoint, refreshTS time.Time) error {
	file := r.readSnapshotFile()

	for pair, point := range pairsUpdate {
		current, exists := file.Pairs[pair]
		if exists && !point.UpdatedAt.After(current.UpdatedAt) {
			continue
		}
		file.Pairs[pair] = snapshotEntry{
			Rate:      point.Rate,
			UpdatedAt: point.UpdatedAt,
			Source:    point.Source,
		}
	}
	file.LastRefresh = &refreshTS

	return writeJSONFileAtomic(r.snapshotPath, file)
}

// readSnapshotFile loads the raw snapshot document, falling back to an empty one
// when the file is missing or unreadable.
func (r *RateRepository) readSnapshotFile() snapshotFile {
	var file snapshotFile
	if err := readJSONFile(r.snapshotPath, &file); err != nil {
		return snapshotFile{Pairs: map[string]snapshotEntry{}}
	}
	if file.Pairs == nil {
		file.Pairs = map[string]snapshotEntry{}
	}
	return file
}

// ListHistory returns every recorded rate observation in append order.
func (r *RateRepository) ListHistory(ctx context.Context) ([]domain.RateHistoryRecord, error) {
	var history []domain.RateHistoryRecord
	if err := readJSONFile(r.historyPath, &history); err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	return history, nil
}

// AppendHistory appends records whose IDs are not yet in the log. Records are
// immutable once written; when nothing new remains the file is left untouched.
func (r *RateRepository) AppendHistory(ctx context.Context, records []domain.RateHistoryRecord) error {
	history, err := r.ListHistory(ctx)
	if err != nil {
		// Corrupt history must not be silently truncated by a rewrite.
		return err
	}

	existing := make(map[string]struct{}, len(history))
	for _, record := range history {
		existing[record.ID] = struct{}{}
	}

	var fresh []domain.RateHistoryRecord
	for _, record := range records {
		if _, dup := existing[record.ID]; dup {
			continue
		}
		existing[record.ID] = struct{}{}
		fresh = append(fresh, record)
	}

	if len(fresh) == 0 {
		return nil
	}

	return writeJSONFileAtomic(r.historyPath, append(history, fresh...))
}
