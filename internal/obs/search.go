package obs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	obserrors "github.com/jmiller/grimoire/internal/errors"
)

// Search queries the storefront's search_ahead endpoint for the keyword and
// returns the raw hits in API order. A zero-match response yields an empty
// slice, not an error.
func (c *Client) Search(ctx context.Context, keyword string) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("groupId", strconv.Itoa(c.site.GroupID))
	params.Set("siteId", strconv.Itoa(c.site.SiteID))
	params.Set("keyword", keyword)

	endpoint := fmt.Sprintf("%s/api/vBeta/search_ahead?%s", c.site.APIBaseURL, params.Encode())
	slog.Debug("Searching storefront", "site", c.site.Name, "keyword", keyword)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, obserrors.NewParseError(c.site.Name, "", err)
	}

	hits := make([]SearchHit, 0, len(response.Data))
	for _, item := range response.Data {
		id := asString(item.Attributes.EntityID)
		name := item.Attributes.Name
		if id == "" || name == "" {
			continue
		}
		// Virtual-tabletop conversions of the same product clutter the
		// results without adding metadata.
		if strings.Contains(strings.ToLower(name), "fantasy grounds") {
			continue
		}
		hits = append(hits, SearchHit{ID: id, Name: name})
	}

	return hits, nil
}
