// Package pricecache keeps recently fetched item prices between runs.
package pricecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CurrentVersion tags the persisted document layout. Documents with any other
// tag are discarded on load.
const CurrentVersion = "1"

// DefaultTTL is how long a fetched price stays fresh.
const DefaultTTL = 300000 * time.Millisecond

// Record is the lowest-price snapshot of one item.
type Record struct {
	LowestPrices []int `json:"lowest_5_prices"`
	CheckedAt    int64 `json:"checked_at"` // epoch milliseconds
}

// Cache maps item names to their last fetched prices.
type Cache struct {
	Version string            `json:"version"`
	Prices  map[string]Record `json:"prices"`
}

// New returns an empty cache at the current version.
func New() *Cache {
	return &Cache{Version: CurrentVersion, Prices: make(map[string]Record)}
}

// Get returns the record for name, if any.
func (c *Cache) Get(name string) (Record, bool) {
	rec, ok := c.Prices[name]
	return rec, ok
}

// Upsert replaces the record for name with prices checked at now.
func (c *Cache) Upsert(name string, prices []int, now time.Time) {
	cp := make([]int, len(prices))
	copy(cp, prices)
	c.Prices[name] = Record{LowestPrices: cp, CheckedAt: now.UnixMilli()}
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	return len(c.Prices)
}

// IsFresh reports whether rec was checked less than ttl before now.
func IsFresh(rec Record, now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-rec.CheckedAt < ttl.Milliseconds()
}

// Load reads the cache from store. A missing document yields an empty cache.
// An unreadable, unparsable or outdated document is discarded as a whole and
// removed from the store; failing to remove it is an error.
func Load(ctx context.Context, store Store) (*Cache, error) {
	data, err := store.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return discard(ctx, store, "unreadable", err)
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return discard(ctx, store, "unparsable", err)
	}
	if c.Version != CurrentVersion {
		return discard(ctx, store, "version mismatch",
			eris.Errorf("pricecache: found version %q, want %q", c.Version, CurrentVersion))
	}
	if c.Prices == nil {
		c.Prices = make(map[string]Record)
	}
	return &c, nil
}

func discard(ctx context.Context, store Store, reason string, cause error) (*Cache, error) {
	zap.L().Warn("pricecache: discarding cache",
		zap.String("reason", reason),
		zap.String("store", store.Name()),
		zap.Error(cause),
	)
	if err := store.Remove(ctx); err != nil {
		return nil, eris.Wrap(err, "pricecache: remove discarded cache")
	}
	return New(), nil
}

// Save writes the whole cache to store as one document.
func Save(ctx context.Context, store Store, c *Cache) error {
	data, err := json.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "pricecache: marshal")
	}
	if err := store.Write(ctx, data); err != nil {
		return eris.Wrap(err, "pricecache: write")
	}
	return nil
}
