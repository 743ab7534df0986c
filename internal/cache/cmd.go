package cache

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Kind string `arg:"" help:"Cache kind to invalidate: search, product, cover" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "kind", i.Kind, "database", cacheDB)

	// Map kind to cache table name
	tableNames := map[string]string{
		"search":  "obs_search_cache",
		"product": "obs_product_cache",
		"cover":   "cover_url_cache",
	}

	tableName, ok := tableNames[i.Kind]
	if !ok {
		return fmt.Errorf("invalid cache kind '%s'; valid kinds are: search, product, cover", i.Kind)
	}

	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	slog.Info("Cache invalidated", "kind", i.Kind, "rows_deleted", rowsDeleted)
	return nil
}
