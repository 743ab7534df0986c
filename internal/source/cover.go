package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmiller/grimoire/internal/cache"
)

// ErrCoverNotFound is returned when a product exists but has no cover image,
// or when the identifier is unknown to the storefront.
var ErrCoverNotFound = errors.New("cover not found")

// DownloadCover fetches the raw cover bytes for a previously returned
// identifier. The cover URL is resolved from the cover cache populated during
// identify; on a cache miss the product details are re-fetched by id, so a
// cover can be downloaded without ever repeating the search.
func (c *Catalog) DownloadCover(ctx context.Context, siteName, productID string) ([]byte, error) {
	site := c.siteByName(siteName)
	if site == nil {
		return nil, fmt.Errorf("site %q is not configured (is its cookie set?)", siteName)
	}

	coverURL := c.cachedCoverURL(siteName, productID)
	if coverURL == "" {
		record, err := c.lookupRecord(ctx, site, productID)
		if err != nil {
			return nil, err
		}
		if record == nil || record.CoverURL == nil {
			return nil, ErrCoverNotFound
		}
		coverURL = *record.CoverURL
	}

	return site.Cover(ctx, coverURL)
}

func (c *Catalog) siteByName(name string) Site {
	for _, site := range c.sites {
		if site.Name() == name {
			return site
		}
	}
	return nil
}

// rememberCoverURL stores a product's cover URL in the persistent cache.
// Failures are logged and ignored; the URL can always be recovered from the
// product endpoint.
func (c *Catalog) rememberCoverURL(siteName, productID, coverURL string) {
	cacheDB, err := cache.GetGlobalCache()
	if err != nil {
		slog.Debug("Cover URL not cached", "error", err)
		return
	}

	data, err := json.Marshal(coverURL)
	if err != nil {
		return
	}

	if err := cacheDB.Set("cover_url_cache", siteName+":"+productID, string(data), cache.DefaultCacheTTL); err != nil {
		slog.Debug("Cover URL not cached", "site", siteName, "id", productID, "error", err)
	}
}

func (c *Catalog) cachedCoverURL(siteName, productID string) string {
	cacheDB, err := cache.GetGlobalCache()
	if err != nil {
		return ""
	}

	data, found, err := cacheDB.Get("cover_url_cache", siteName+":"+productID)
	if err != nil || !found {
		return ""
	}

	var coverURL string
	if err := json.Unmarshal([]byte(data), &coverURL); err != nil {
		return ""
	}
	return coverURL
}
