package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// Each entry stores its own expires_at, fixed when the entry is written.
// That is what lets "not found" answers live on the short negative TTL while
// regular entries keep the configured one.

// SearchCacheSchema defines the schema for storefront search_ahead responses
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS obs_search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_obs_search_expires_at ON obs_search_cache(expires_at);
`

// ProductCacheSchema defines the schema for storefront product detail responses
const ProductCacheSchema = `
CREATE TABLE IF NOT EXISTS obs_product_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_obs_product_expires_at ON obs_product_cache(expires_at);
`

// CoverURLCacheSchema defines the schema for product id → cover URL mappings.
// This is what lets a cover be downloaded later from just a site:id identifier
// without repeating the search.
const CoverURLCacheSchema = `
CREATE TABLE IF NOT EXISTS cover_url_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cover_url_expires_at ON cover_url_cache(expires_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SearchCacheSchema,
	ProductCacheSchema,
	CoverURLCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"obs_search_cache":  true,
	"obs_product_cache": true,
	"cover_url_cache":   true,
}
