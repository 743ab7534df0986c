package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmiller/grimoire/internal/cache"
	obserrors "github.com/jmiller/grimoire/internal/errors"
	"github.com/jmiller/grimoire/internal/match"
	"github.com/jmiller/grimoire/internal/metadata"
	"github.com/jmiller/grimoire/internal/obs"
)

// Identify searches every configured site for the query, ranks the combined
// candidates, and streams them best-first over the returned channel. The
// channel is closed after the last record. A site that errors only costs its
// own results; Identify returns an error only when every queried site failed.
// No configured sites at all (e.g. every cookie empty) yields an empty,
// closed channel and a nil error.
func (c *Catalog) Identify(ctx context.Context, query Query) (<-chan *metadata.Record, error) {
	records, err := c.gather(ctx, query)
	if err != nil {
		return nil, err
	}

	match.Rank(query.Title, query.Authors, records)

	out := make(chan *metadata.Record, len(records))
	for _, record := range records {
		out <- record
	}
	close(out)

	return out, nil
}

// gather runs the per-site searches concurrently and merges their candidates.
// The merge is the only shared state and is guarded by a mutex; each site
// otherwise works independently.
func (c *Catalog) gather(ctx context.Context, query Query) ([]*metadata.Record, error) {
	if len(c.sites) == 0 {
		slog.Info("No sites configured with a cookie, returning no results")
		return nil, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		records  []*metadata.Record
		failures []error
	)

	for _, site := range c.sites {
		wg.Add(1)
		go func(site Site) {
			defer wg.Done()

			siteRecords, err := c.searchSite(ctx, site, query)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if obserrors.IsAuthError(err) {
					slog.Warn("Cookie rejected, paste a fresh cf_clearance value", "site", site.Name(), "error", err)
				} else {
					slog.Warn("Site search failed", "site", site.Name(), "error", err)
				}
				failures = append(failures, fmt.Errorf("%s: %w", site.Name(), err))
				return
			}
			records = append(records, siteRecords...)
		}(site)
	}

	wg.Wait()

	if len(failures) == len(c.sites) {
		return nil, errors.Join(failures...)
	}

	return records, nil
}

// searchSite produces mapped candidates for one storefront. A known site
// identifier skips the search entirely; otherwise the keyword ladder is
// walked until a rung returns hits.
func (c *Catalog) searchSite(ctx context.Context, site Site, query Query) ([]*metadata.Record, error) {
	if id := query.Identifiers[site.Name()]; id != "" {
		record, err := c.lookupRecord(ctx, site, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, nil
		}
		return []*metadata.Record{record}, nil
	}

	var hits []obs.SearchHit
	for _, keyword := range match.KeywordLadder(query.Title, query.Authors) {
		found, err := c.cachedSearch(ctx, site, keyword)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			hits = found
			break
		}
		slog.Debug("No hits, trying next keyword", "site", site.Name(), "keyword", keyword)
	}

	if len(hits) > c.maxResults {
		hits = hits[:c.maxResults]
	}

	records := make([]*metadata.Record, 0, len(hits))
	for _, hit := range hits {
		record, err := c.lookupRecord(ctx, site, hit.ID)
		if err != nil {
			// A single bad product should not sink the site's other hits,
			// but an auth failure will repeat for every hit.
			if obserrors.IsAuthError(err) {
				return nil, err
			}
			slog.Warn("Skipping candidate", "site", site.Name(), "id", hit.ID, "error", err)
			continue
		}
		if record != nil {
			records = append(records, record)
		}
	}

	return records, nil
}

// cachedSearch wraps a site search in the response cache. Empty result sets
// are kept on the shorter negative TTL so new releases show up reasonably soon.
func (c *Catalog) cachedSearch(ctx context.Context, site Site, keyword string) ([]obs.SearchHit, error) {
	cacheKey := site.Name() + ":" + keyword
	hits, _, err := cache.GetOrFetchWithTTL("obs_search_cache", cacheKey, func() ([]obs.SearchHit, error) {
		return site.Search(ctx, keyword)
	}, cache.SelectNegativeCacheTTL(func(hits []obs.SearchHit) bool {
		return len(hits) == 0
	}))
	return hits, err
}

// cachedProduct wraps a product with a not-found marker for negative caching.
type cachedProduct struct {
	Product  *obs.Product `json:"product"`
	NotFound bool         `json:"not_found"`
}

// lookupRecord fetches product details (through the cache), maps them to a
// canonical record and remembers the cover URL for later download. Returns
// (nil, nil) when the storefront has no such product.
func (c *Catalog) lookupRecord(ctx context.Context, site Site, id string) (*metadata.Record, error) {
	cacheKey := site.Name() + ":" + id
	cached, _, err := cache.GetOrFetchWithTTL("obs_product_cache", cacheKey, func() (*cachedProduct, error) {
		product, err := site.Product(ctx, id)
		if errors.Is(err, obs.ErrNotFound) {
			return &cachedProduct{NotFound: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return &cachedProduct{Product: product}, nil
	}, cache.SelectNegativeCacheTTL(func(p *cachedProduct) bool {
		return p.NotFound
	}))
	if err != nil {
		return nil, err
	}
	if cached.NotFound {
		return nil, nil
	}

	coverURL := site.CoverURL(cached.Product.ImagePath)

	record, err := metadata.MapProduct(site.Name(), coverURL, cached.Product)
	if err != nil {
		return nil, err
	}

	if coverURL != "" {
		c.rememberCoverURL(site.Name(), id, coverURL)
	}

	return record, nil
}
