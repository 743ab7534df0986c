// Package source implements the catalog façade: it fans a query out to every
// configured storefront, maps and ranks the candidates, and serves cover
// downloads by stored identifier.
package source

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/obs"
)

const defaultMaxResultsPerSite = 5

// Query is a metadata search request. Any combination of fields may be set;
// a known identifier short-circuits the search for that site.
type Query struct {
	Title       string
	Authors     []string
	Identifiers map[string]string
}

// Site is the per-storefront client surface the catalog needs.
// *obs.Client implements it.
type Site interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]obs.SearchHit, error)
	Product(ctx context.Context, id string) (*obs.Product, error)
	CoverURL(imagePath string) string
	Cover(ctx context.Context, coverURL string) ([]byte, error)
}

var _ Site = (*obs.Client)(nil)

// Catalog aggregates the storefronts configured for this search.
type Catalog struct {
	sites      []Site
	maxResults int
}

// NewCatalog creates a catalog over the given sites.
func NewCatalog(sites []Site, opts ...CatalogOption) *Catalog {
	catalog := &Catalog{
		sites:      sites,
		maxResults: defaultMaxResultsPerSite,
	}
	for _, opt := range opts {
		opt(catalog)
	}
	return catalog
}

// CatalogOption is a functional option for configuring the Catalog.
type CatalogOption func(*Catalog)

// WithMaxResults caps how many candidates are fetched per site.
func WithMaxResults(n int) CatalogOption {
	return func(c *Catalog) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// FromConfig builds a catalog from the current configuration, snapshotting
// each site's cookie now. Sites whose cookie is empty are skipped silently;
// the settings UI may fill them in before the next search. Call this once per
// search so cookie edits between searches are picked up.
func FromConfig(opts ...CatalogOption) *Catalog {
	var sites []Site

	for _, site := range obs.BuiltinSites() {
		cookie := config.SiteCookie(site.Name)
		if cookie == "" {
			slog.Debug("Skipping site without cookie", "site", site.Name)
			continue
		}

		clientOpts := []obs.Option{
			obs.WithUserAgent(config.UserAgent),
			obs.WithAPIBaseURL(viper.GetString("sites." + site.Name + ".api_base")),
			obs.WithImageBaseURL(viper.GetString("sites." + site.Name + ".image_base")),
		}
		sites = append(sites, obs.NewClient(site, cookie, clientOpts...))
	}

	return NewCatalog(sites, opts...)
}
