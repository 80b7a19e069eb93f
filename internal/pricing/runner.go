// Package pricing runs the offering price check end to end.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/syndicate-prices/internal/pricecache"
	"github.com/sells-group/syndicate-prices/internal/wiki"
)

// PageSource returns the wiki HTML for a syndicate.
type PageSource interface {
	Page(ctx context.Context, s wiki.Syndicate) (string, error)
}

// Extractor turns a wiki page into offering names.
type Extractor interface {
	Extract(page string) ([]string, error)
}

// PriceSource returns the lowest sell prices for an item. It never fails;
// unavailable data is an empty list.
type PriceSource interface {
	LowestPrices(ctx context.Context, name string) []int
}

// Clock returns the current time.
type Clock func() time.Time

// Runner sequences extraction, cache lookups, throttled fetches and
// persistence.
type Runner struct {
	Pages     PageSource
	Extractor Extractor
	Market    PriceSource
	Throttle  Throttle
	Store     pricecache.Store
	Clock     Clock
	TTL       time.Duration
}

// Stats summarizes one run.
type Stats struct {
	Offerings int
	CacheHits int
	Fetched   int
	Empty     int
}

// Run checks prices for every offering of the syndicate and returns the
// report over the whole cache.
func (r *Runner) Run(ctx context.Context, s wiki.Syndicate) (Report, Stats, error) {
	log := zap.L().With(
		zap.String("run_id", uuid.New().String()),
		zap.String("syndicate", string(s)),
	)
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = pricecache.DefaultTTL
	}

	cache, err := pricecache.Load(ctx, r.Store)
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "pricing: load cache")
	}

	page, err := r.Pages.Page(ctx, s)
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "pricing: fetch wiki page")
	}
	offerings, err := r.Extractor.Extract(page)
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "pricing: extract offerings")
	}
	log.Info("extracted offerings", zap.Int("count", len(offerings)))

	stats := Stats{Offerings: len(offerings)}
	for _, name := range offerings {
		if rec, ok := cache.Get(name); ok && pricecache.IsFresh(rec, clock(), ttl) {
			stats.CacheHits++
			log.Debug("cache hit", zap.String("item", name))
			continue
		}

		if err := r.Throttle.Wait(ctx); err != nil {
			return nil, stats, eris.Wrap(err, "pricing: throttle")
		}
		prices := r.Market.LowestPrices(ctx, name)
		cache.Upsert(name, prices, clock())
		stats.Fetched++
		if len(prices) == 0 {
			stats.Empty++
		}
		log.Debug("fetched prices", zap.String("item", name), zap.Ints("prices", prices))
	}

	if err := pricecache.Save(ctx, r.Store, cache); err != nil {
		return nil, stats, eris.Wrap(err, "pricing: save cache")
	}
	log.Info("price check complete",
		zap.Int("offerings", stats.Offerings),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("fetched", stats.Fetched),
		zap.Int("empty", stats.Empty),
	)

	return BuildReport(cache), stats, nil
}

// CachedReport builds the report from the persisted cache without fetching.
func CachedReport(ctx context.Context, store pricecache.Store) (Report, error) {
	cache, err := pricecache.Load(ctx, store)
	if err != nil {
		return nil, eris.Wrap(err, "pricing: load cache")
	}
	return BuildReport(cache), nil
}
