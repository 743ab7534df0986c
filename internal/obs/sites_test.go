package obs

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBuiltinSite(t *testing.T) {
	site, err := BuiltinSite("dmsguild")
	assert.NoError(t, err)
	assert.Equal(t, 40, site.SiteID)
	assert.Equal(t, 18, site.GroupID)

	_, err = BuiltinSite("nosuchstore")
	assert.Error(t, err)
}

func TestBuiltinSitesIsACopy(t *testing.T) {
	sites := BuiltinSites()
	assert.Equal(t, 3, len(sites))

	sites[0].APIBaseURL = "mutated"

	fresh, err := BuiltinSite(sites[0].Name)
	assert.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh.APIBaseURL)
}

func TestBuiltinSitesHaveDistinctIdentity(t *testing.T) {
	names := map[string]bool{}
	for _, site := range BuiltinSites() {
		assert.False(t, names[site.Name], "duplicate site %q", site.Name)
		names[site.Name] = true
		assert.NotZero(t, site.SiteID)
		assert.NotZero(t, site.GroupID)
		assert.NotZero(t, site.APIBaseURL)
		assert.NotZero(t, site.ImageBaseURL)
	}
}
