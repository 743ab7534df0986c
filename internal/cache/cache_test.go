package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmiller/grimoire/internal/cache"
	"github.com/jmiller/grimoire/internal/testutil"
)

func TestSetGetRoundTrip(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	require.NoError(t, db.Set("obs_search_cache", "dmsguild:dracula", `["17003"]`, time.Hour))

	data, hit, err := db.Get("obs_search_cache", "dmsguild:dracula")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `["17003"]`, data)
}

func TestGetMiss(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	_, hit, err := db.Get("obs_search_cache", "no-such-key")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGetExpired(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	// An entry whose expiry has already passed is a miss.
	require.NoError(t, db.Set("obs_product_cache", "dmsguild:17003", `{}`, -time.Hour))

	_, hit, err := db.Get("obs_product_cache", "dmsguild:17003")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSetOverwrites(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	require.NoError(t, db.Set("cover_url_cache", "dmsguild:17003", "old", time.Hour))
	require.NoError(t, db.Set("cover_url_cache", "dmsguild:17003", "new", time.Hour))

	data, hit, err := db.Get("cover_url_cache", "dmsguild:17003")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "new", data)
}

func TestInvalidTableName(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	assert.Error(t, db.Set("users; DROP TABLE users", "key", "data", time.Hour))

	_, _, err = db.Get("bogus_table", "key")
	assert.Error(t, err)

	_, err = db.InvalidateSource("bogus_table")
	assert.Error(t, err)
}

func TestInvalidateSource(t *testing.T) {
	testutil.SetTestConfig(t)

	db, err := cache.GetGlobalCache()
	require.NoError(t, err)

	require.NoError(t, db.Set("obs_search_cache", "a", "1", time.Hour))
	require.NoError(t, db.Set("obs_search_cache", "b", "2", time.Hour))
	require.NoError(t, db.Set("obs_product_cache", "c", "3", time.Hour))

	deleted, err := db.InvalidateSource("obs_search_cache")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, hit, err := db.Get("obs_search_cache", "a")
	require.NoError(t, err)
	assert.False(t, hit)

	// Other tables are untouched.
	_, hit, err = db.Get("obs_product_cache", "c")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestGetOrFetchCachesResult(t *testing.T) {
	testutil.SetTestConfig(t)

	fetches := 0
	fetch := func() ([]string, error) {
		fetches++
		return []string{"17003", "17004"}, nil
	}

	got, fromCache, err := cache.GetOrFetch("obs_search_cache", "dmsguild:monster", fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []string{"17003", "17004"}, got)

	got, fromCache, err = cache.GetOrFetch("obs_search_cache", "dmsguild:monster", fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, []string{"17003", "17004"}, got)

	assert.Equal(t, 1, fetches)
}

func TestGetOrFetchPropagatesFetchError(t *testing.T) {
	testutil.SetTestConfig(t)

	fetch := func() (string, error) {
		return "", assert.AnError
	}

	_, _, err := cache.GetOrFetch("obs_search_cache", "dmsguild:broken", fetch)
	assert.ErrorIs(t, err, assert.AnError)

	// Errors are never cached; a later successful fetch goes through.
	got, fromCache, err := cache.GetOrFetch("obs_search_cache", "dmsguild:broken", func() (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "recovered", got)
}

func TestSelectNegativeCacheTTL(t *testing.T) {
	selector := cache.SelectNegativeCacheTTL(func(hits []string) bool {
		return len(hits) == 0
	})

	assert.Equal(t, cache.NegativeCacheTTL, selector(nil))
	assert.NotEqual(t, cache.NegativeCacheTTL, selector([]string{"17003"}))
}
