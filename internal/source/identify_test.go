package source

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/jmiller/grimoire/internal/errors"
	"github.com/jmiller/grimoire/internal/metadata"
	"github.com/jmiller/grimoire/internal/obs"
	"github.com/jmiller/grimoire/internal/testutil"
)

// fakeSite is an in-memory Site backed by fixed fixtures.
type fakeSite struct {
	mu          sync.Mutex
	name        string
	hits        map[string][]obs.SearchHit
	products    map[string]*obs.Product
	covers      map[string][]byte
	searchErr   error
	productErr  error
	searchCalls int
}

func (f *fakeSite) Name() string { return f.name }

func (f *fakeSite) Search(_ context.Context, keyword string) ([]obs.SearchHit, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits[keyword], nil
}

func (f *fakeSite) Product(_ context.Context, id string) (*obs.Product, error) {
	if f.productErr != nil {
		return nil, f.productErr
	}
	product, ok := f.products[id]
	if !ok {
		return nil, obs.ErrNotFound
	}
	return product, nil
}

func (f *fakeSite) CoverURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return "https://img.test/" + imagePath
}

func (f *fakeSite) Cover(_ context.Context, coverURL string) ([]byte, error) {
	data, ok := f.covers[coverURL]
	if !ok {
		return nil, obserrors.NewNetworkError(f.name, assert.AnError)
	}
	return data, nil
}

func product(id, title string, authors ...string) *obs.Product {
	return &obs.Product{ID: id, Title: title, Authors: authors}
}

func drain(ch <-chan *metadata.Record) []*metadata.Record {
	var records []*metadata.Record
	for record := range ch {
		records = append(records, record)
	}
	return records
}

func TestIdentifyNoSites(t *testing.T) {
	catalog := NewCatalog(nil)

	ch, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.NoError(t, err)

	// The channel must be closed even when there is nothing to stream.
	assert.Empty(t, drain(ch))
}

func TestIdentifyMergesAndRanks(t *testing.T) {
	testutil.SetTestConfig(t)

	guild := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "1", Name: "Curse of Strahd"}, {ID: "2", Name: "Monster Manual"}},
		},
		products: map[string]*obs.Product{
			"1": product("1", "Curse of Strahd"),
			"2": product("2", "Monster Manual"),
		},
	}
	rpg := &fakeSite{
		name: "drivethrurpg",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "9", Name: "Monster Manual (Revised)"}},
		},
		products: map[string]*obs.Product{
			"9": product("9", "Monster Manual (Revised)"),
		},
	}

	catalog := NewCatalog([]Site{guild, rpg})

	ch, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.NoError(t, err)

	records := drain(ch)
	require.Len(t, records, 3)

	assert.Equal(t, "Monster Manual", records[0].Title)
	assert.True(t, records[0].BestMatch)
	assert.False(t, records[1].BestMatch)
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Score >= records[i].Score)
	}
}

func TestIdentifyPartialFailure(t *testing.T) {
	testutil.SetTestConfig(t)

	healthy := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "2", Name: "Monster Manual"}},
		},
		products: map[string]*obs.Product{"2": product("2", "Monster Manual")},
	}
	broken := &fakeSite{
		name:      "drivethrurpg",
		searchErr: obserrors.NewAuthError("drivethrurpg", 403),
	}

	catalog := NewCatalog([]Site{healthy, broken})

	ch, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.NoError(t, err)

	records := drain(ch)
	require.Len(t, records, 1)
	assert.Equal(t, "dmsguild", records[0].Source)
}

func TestIdentifyAllSitesFail(t *testing.T) {
	testutil.SetTestConfig(t)

	catalog := NewCatalog([]Site{
		&fakeSite{name: "dmsguild", searchErr: obserrors.NewAuthError("dmsguild", 403)},
		&fakeSite{name: "drivethrurpg", searchErr: obserrors.NewNetworkError("drivethrurpg", assert.AnError)},
	})

	_, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.Error(t, err)
	assert.True(t, obserrors.IsAuthError(err))
	assert.True(t, obserrors.IsNetworkError(err))
}

func TestIdentifyIdentifierShortCircuit(t *testing.T) {
	testutil.SetTestConfig(t)

	site := &fakeSite{
		name:     "dmsguild",
		products: map[string]*obs.Product{"17003": product("17003", "Monster Manual")},
	}

	catalog := NewCatalog([]Site{site})

	ch, err := catalog.Identify(context.Background(), Query{
		Title:       "Monster Manual",
		Identifiers: map[string]string{"dmsguild": "17003"},
	})
	require.NoError(t, err)

	records := drain(ch)
	require.Len(t, records, 1)
	assert.Equal(t, "17003", records[0].ID())
	// A known identifier goes straight to the product endpoint.
	assert.Equal(t, 0, site.searchCalls)
}

func TestIdentifyKeywordLadderFallback(t *testing.T) {
	testutil.SetTestConfig(t)

	// Nothing for the full title, a hit once the version tag is stripped.
	site := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Dungeon Crawl": {{ID: "5", Name: "Dungeon Crawl"}},
		},
		products: map[string]*obs.Product{"5": product("5", "Dungeon Crawl")},
	}

	catalog := NewCatalog([]Site{site})

	ch, err := catalog.Identify(context.Background(), Query{Title: "Dungeon Crawl v1.0"})
	require.NoError(t, err)

	records := drain(ch)
	require.Len(t, records, 1)
	assert.Equal(t, "Dungeon Crawl", records[0].Title)
	assert.Equal(t, 2, site.searchCalls)
}

func TestIdentifySecondSearchServedFromCache(t *testing.T) {
	testutil.SetTestConfig(t)

	site := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "2", Name: "Monster Manual"}},
		},
		products: map[string]*obs.Product{"2": product("2", "Monster Manual")},
	}

	catalog := NewCatalog([]Site{site})
	query := Query{Title: "Monster Manual"}

	ch, err := catalog.Identify(context.Background(), query)
	require.NoError(t, err)
	drain(ch)

	ch, err = catalog.Identify(context.Background(), query)
	require.NoError(t, err)
	records := drain(ch)

	require.Len(t, records, 1)
	assert.Equal(t, 1, site.searchCalls)
}

func TestIdentifyCapsResultsPerSite(t *testing.T) {
	testutil.SetTestConfig(t)

	site := &fakeSite{
		name:     "dmsguild",
		hits:     map[string][]obs.SearchHit{"Goblins": nil},
		products: map[string]*obs.Product{},
	}
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		site.hits["Goblins"] = append(site.hits["Goblins"], obs.SearchHit{ID: id, Name: "Goblins " + id})
		site.products[id] = product(id, "Goblins "+id)
	}

	catalog := NewCatalog([]Site{site}, WithMaxResults(2))

	ch, err := catalog.Identify(context.Background(), Query{Title: "Goblins"})
	require.NoError(t, err)

	assert.Len(t, drain(ch), 2)
}

func TestIdentifySkipsVanishedProducts(t *testing.T) {
	testutil.SetTestConfig(t)

	// The second hit 404s on the product endpoint; the first still comes back.
	site := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "2", Name: "Monster Manual"}, {ID: "404", Name: "Gone"}},
		},
		products: map[string]*obs.Product{"2": product("2", "Monster Manual")},
	}

	catalog := NewCatalog([]Site{site})

	ch, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.NoError(t, err)

	records := drain(ch)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].ID())
}

func TestDownloadCoverAfterIdentify(t *testing.T) {
	testutil.SetTestConfig(t)

	imageBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x10, 0x20}
	site := &fakeSite{
		name: "dmsguild",
		hits: map[string][]obs.SearchHit{
			"Monster Manual": {{ID: "2", Name: "Monster Manual"}},
		},
		products: map[string]*obs.Product{
			"2": {ID: "2", Title: "Monster Manual", ImagePath: "8957/240640.jpg"},
		},
		covers: map[string][]byte{
			"https://img.test/8957/240640.jpg": imageBytes,
		},
	}

	catalog := NewCatalog([]Site{site})

	ch, err := catalog.Identify(context.Background(), Query{Title: "Monster Manual"})
	require.NoError(t, err)
	drain(ch)

	data, err := catalog.DownloadCover(context.Background(), "dmsguild", "2")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)

	// The cover URL came from the cache, so no extra search ran.
	assert.Equal(t, 1, site.searchCalls)
}

func TestDownloadCoverWithoutPriorSearch(t *testing.T) {
	testutil.SetTestConfig(t)

	imageBytes := []byte{0x89, 0x50, 0x4E, 0x47}
	site := &fakeSite{
		name: "dmsguild",
		products: map[string]*obs.Product{
			"2": {ID: "2", Title: "Monster Manual", ImagePath: "8957/240640.jpg"},
		},
		covers: map[string][]byte{
			"https://img.test/8957/240640.jpg": imageBytes,
		},
	}

	catalog := NewCatalog([]Site{site})

	data, err := catalog.DownloadCover(context.Background(), "dmsguild", "2")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)
	assert.Equal(t, 0, site.searchCalls)
}

func TestDownloadCoverUnknownSite(t *testing.T) {
	catalog := NewCatalog(nil)

	_, err := catalog.DownloadCover(context.Background(), "dmsguild", "2")
	assert.Error(t, err)
}

func TestDownloadCoverProductWithoutImage(t *testing.T) {
	testutil.SetTestConfig(t)

	site := &fakeSite{
		name:     "dmsguild",
		products: map[string]*obs.Product{"2": product("2", "Monster Manual")},
	}

	catalog := NewCatalog([]Site{site})

	_, err := catalog.DownloadCover(context.Background(), "dmsguild", "2")
	assert.ErrorIs(t, err, ErrCoverNotFound)
}
