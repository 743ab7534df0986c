package obs

import "fmt"

// Site describes one OneBookShelf storefront. All storefronts share the same
// internal API shape and differ only in hostnames and the siteId/groupId pair
// the API expects.
type Site struct {
	// Name is the short identifier used in config keys and identifier maps.
	Name string
	// APIBaseURL is the base of the internal JSON API, e.g.
	// "https://api.dmsguild.com".
	APIBaseURL string
	// ImageBaseURL is the base for cover images, e.g.
	// "https://www.dmsguild.com/images".
	ImageBaseURL string
	// SiteID and GroupID are the storefront's identifiers within the shared
	// OneBookShelf platform, as captured from browser traffic.
	SiteID  int
	GroupID int
}

// Builtin storefronts. The siteId/groupId pairs are not documented anywhere;
// they were captured from the sites' own search requests and can be overridden
// through config if OneBookShelf renumbers them.
var builtinSites = []Site{
	{
		Name:         "dmsguild",
		APIBaseURL:   "https://api.dmsguild.com",
		ImageBaseURL: "https://www.dmsguild.com/images",
		SiteID:       40,
		GroupID:      18,
	},
	{
		Name:         "drivethrurpg",
		APIBaseURL:   "https://api.drivethrurpg.com",
		ImageBaseURL: "https://www.drivethrurpg.com/images",
		SiteID:       2,
		GroupID:      1,
	},
	{
		Name:         "drivethrufiction",
		APIBaseURL:   "https://api.drivethrufiction.com",
		ImageBaseURL: "https://www.drivethrufiction.com/images",
		SiteID:       70,
		GroupID:      25,
	},
}

// BuiltinSites returns a copy of the builtin storefront table.
func BuiltinSites() []Site {
	sites := make([]Site, len(builtinSites))
	copy(sites, builtinSites)
	return sites
}

// BuiltinSite looks up a builtin storefront by name.
func BuiltinSite(name string) (Site, error) {
	for _, site := range builtinSites {
		if site.Name == name {
			return site, nil
		}
	}
	return Site{}, fmt.Errorf("unknown storefront %q", name)
}
