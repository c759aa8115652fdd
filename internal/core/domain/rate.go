package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RatePoint is the current best-known rate for one pair: one unit of the pair's FROM
// currency is worth Rate units of its TO currency.
type RatePoint struct {
	Pair      string          `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
	Source    string          `json:"source"`
	// Meta carries provider diagnostics (latency, status code, provider ids).
	// It is never consulted by merge or lookup logic.
	Meta map[string]any `json:"meta,omitempty"`
}

// RateSnapshot is the persisted cache: at most one RatePoint per pair.
type RateSnapshot struct {
	Pairs       map[string]RatePoint `json:"pairs"`
	LastRefresh *time.Time           `json:"last_refresh"`
}

// EmptyRateSnapshot returns the zero-value snapshot used when no cache file exists.
func EmptyRateSnapshot() RateSnapshot {
	return RateSnapshot{Pairs: map[string]RatePoint{}}
}

// RateHistoryRecord is one immutable rate observation in the append-only history log.
type RateHistoryRecord struct {
	ID           string          `json:"id"` // "<pair>_<timestamp>"
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Timestamp    time.Time       `json:"timestamp"`
	Source       string          `json:"source"`
	Meta         map[string]any  `json:"meta,omitempty"`
}

// PairKey builds the "<FROM>_<TO>" cache key for a currency pair.
func PairKey(fromCode, toCode string) string {
	return fromCode + "_" + toCode
}

// SplitPair splits a "<FROM>_<TO>" key back into its currency codes.
// The second return is false when the key does not have exactly one separator.
func SplitPair(pair string) (fromCode, toCode string, ok bool) {
	parts := strings.Split(pair, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// HistoryRecordID derives the idempotency key for a history record.
func HistoryRecordID(pair string, updatedAt time.Time) string {
	return pair + "_" + updatedAt.UTC().Format(time.RFC3339)
}

// NewHistoryRecord builds the history record for a fetched rate point.
func NewHistoryRecord(point RatePoint) RateHistoryRecord {
	fromCode, toCode, _ := SplitPair(point.Pair)
	return RateHistoryRecord{
		ID:           HistoryRecordID(point.Pair, point.UpdatedAt),
		FromCurrency: fromCode,
		ToCurrency:   toCode,
		Rate:         point.Rate,
		Timestamp:    point.UpdatedAt,
		Source:       point.Source,
		Meta:         point.Meta,
	}
}
