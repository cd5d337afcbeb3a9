package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotStatus tells callers whether a snapshot is within its TTL or is
// being served as a fallback while fresh data is unavailable.
type SnapshotStatus string

const (
	StatusFresh         SnapshotStatus = "fresh"
	StatusStaleFallback SnapshotStatus = "stale-fallback"
)

// RateQuote is one row of the published rate table. Rates are kept exactly as
// the source page quotes them: CNY per 100 units of the foreign currency.
type RateQuote struct {
	Code    string
	Buy     decimal.Decimal
	Sell    decimal.Decimal
	Middle  decimal.Decimal
	PubTime time.Time
}

// RateSnapshot is the result of one fetch+parse cycle. Snapshots are immutable
// once constructed; a refresh produces a new snapshot and never mutates an old
// one, so readers can hold a snapshot without synchronization.
type RateSnapshot struct {
	Quotes    map[string]RateQuote
	FetchedAt time.Time
	Status    SnapshotStatus
}

func NewSnapshot(quotes []RateQuote, fetchedAt time.Time) *RateSnapshot {
	m := make(map[string]RateQuote, len(quotes))
	for _, q := range quotes {
		if _, ok := m[q.Code]; ok {
			continue // at most one quote per code, first row wins
		}
		m[q.Code] = q
	}
	return &RateSnapshot{Quotes: m, FetchedAt: fetchedAt, Status: StatusFresh}
}

func (s *RateSnapshot) Quote(code string) (RateQuote, bool) {
	q, ok := s.Quotes[code]
	return q, ok
}

// Codes returns the quoted currency codes in stable order.
func (s *RateSnapshot) Codes() []string {
	codes := make([]string, 0, len(s.Quotes))
	for c := range s.Quotes {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// AsStale returns a copy marked as a stale fallback. The receiver is left
// untouched.
func (s *RateSnapshot) AsStale() *RateSnapshot {
	stale := *s
	stale.Status = StatusStaleFallback
	return &stale
}

// ConversionResult carries the converted value together with the snapshot
// metadata, so callers can surface "as of" information to the end user.
type ConversionResult struct {
	From      string
	To        string
	Amount    decimal.Decimal
	Converted decimal.Decimal
	Rate      decimal.Decimal // per-unit from->to rate actually used
	FetchedAt time.Time
	Status    SnapshotStatus
}
