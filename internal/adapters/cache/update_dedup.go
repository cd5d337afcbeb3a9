package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// RistrettoUpdateDedup remembers processed Telegram update IDs. Telegram
// redelivers an update whenever the webhook does not answer with a 2xx, so
// the webhook consults this before dispatching a command.
type RistrettoUpdateDedup struct {
	cache *ristretto.Cache
}

func NewUpdateDedup(maxItems int64) (*RistrettoUpdateDedup, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create update dedup cache failed: %w", err)
	}
	return &RistrettoUpdateDedup{cache: c}, nil
}

func (c *RistrettoUpdateDedup) Seen(updateID int) bool {
	_, ok := c.cache.Get(toKey(updateID))
	return ok
}

func (c *RistrettoUpdateDedup) Mark(updateID int) {
	c.cache.Set(toKey(updateID), struct{}{}, 1)
	// A redelivery can arrive moments after the original; make the write
	// visible before the webhook answers.
	c.cache.Wait()
}

func (c *RistrettoUpdateDedup) Close() { c.cache.Close() }

func toKey(id int) string { return fmt.Sprintf("upd:%d", id) }
