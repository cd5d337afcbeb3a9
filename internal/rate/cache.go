package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bocrates/internal/adapters"
	"bocrates/internal/domain"
)

// SnapshotCache holds the most recent parsed snapshot and coordinates
// refresh-on-expiry across concurrent callers: at most one fetch+parse cycle
// runs at a time, and callers that did not win the refresh race are served
// the current snapshot immediately instead of blocking on network I/O.
type SnapshotCache struct {
	fetcher adapters.PageFetcher
	parser  adapters.QuoteParser
	ttl     time.Duration

	now func() time.Time

	mu         sync.Mutex
	snapshot   *domain.RateSnapshot
	expiresAt  time.Time
	refreshing bool
}

func NewSnapshotCache(fetcher adapters.PageFetcher, parser adapters.QuoteParser, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{fetcher: fetcher, parser: parser, ttl: ttl, now: time.Now}
}

// GetSnapshot returns the current snapshot, refreshing it when expired.
// Freshness is best effort, not linearizable: while a refresh is in flight,
// other callers get the previous snapshot marked stale-fallback. The call
// fails only when no snapshot has ever been obtained. A TTL of zero or below
// means every call refreshes, still de-duplicated through the in-flight flag.
func (c *SnapshotCache) GetSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	c.mu.Lock()
	if c.snapshot != nil && c.now().Before(c.expiresAt) {
		snap := c.snapshot
		c.mu.Unlock()
		return snap, nil
	}
	if c.refreshing {
		// Stale-read-through: someone else is already fetching.
		snap := c.snapshot
		c.mu.Unlock()
		if snap == nil {
			return nil, domain.ErrNoDataAvailable
		}
		return snap.AsStale(), nil
	}
	c.refreshing = true
	prev := c.snapshot
	c.mu.Unlock()

	// An abandoned caller must not cancel the refresh it triggered; the
	// result is installed for future callers regardless.
	snap, err := c.refresh(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
	if err != nil {
		if prev == nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoDataAvailable, err)
		}
		// Keep serving the previous snapshot; the next call after the
		// (already passed) expiry attempts the refresh again.
		return prev.AsStale(), nil
	}
	c.snapshot = snap
	c.expiresAt = snap.FetchedAt.Add(c.ttl)
	return snap, nil
}

// ExpiresAt reports when the current snapshot becomes eligible for refresh.
func (c *SnapshotCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

func (c *SnapshotCache) refresh(ctx context.Context) (*domain.RateSnapshot, error) {
	execID := uuid.NewString()
	logrus.Infof("Refreshing rate snapshot; execID: %s", execID)

	html, err := c.fetcher.FetchPage(ctx)
	if err != nil {
		logrus.WithError(err).Warnf("Rate page fetch failed; execID: %s", execID)
		return nil, err
	}

	// An empty quote set is a parse failure by contract, so a populated
	// snapshot is never overwritten by an empty one.
	quotes, err := c.parser.Parse(html)
	if err != nil {
		logrus.WithError(err).Warnf("Rate page parse failed; execID: %s", execID)
		return nil, err
	}

	snap := domain.NewSnapshot(quotes, c.now())
	logrus.Infof("Rate snapshot refreshed with %d quotes; execID: %s", len(snap.Quotes), execID)
	return snap, nil
}
