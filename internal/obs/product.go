package obs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	obserrors "github.com/jmiller/grimoire/internal/errors"
)

// ErrNotFound is returned when the storefront has no product for an id.
var ErrNotFound = errors.New("product not found")

// Product fetches full details for a product id.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	endpoint := fmt.Sprintf("%s/api/vBeta/products/%s", c.site.APIBaseURL, url.PathEscape(id))
	slog.Debug("Fetching product details", "site", c.site.Name, "id", id)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response productResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, obserrors.NewParseError(c.site.Name, "", err)
	}

	attrs := response.Data.Attributes

	// The title usually lives inside the description object; the bare
	// attribute name is the fallback.
	title := attrs.Description.Name
	if title == "" {
		title = attrs.Name
	}

	product := &Product{
		ID:          id,
		Title:       title,
		Authors:     attrs.Authors,
		Description: attrs.Description.Description,
		Rating:      attrs.AverageRating,
		Price:       attrs.Price,
		DateAvail:   attrs.DateAvailable,
		ImagePath:   attrs.Image,
	}

	for _, inc := range response.Included {
		if inc.Type == "Publisher" && inc.Attributes.Name != "" {
			product.Publisher = inc.Attributes.Name
			break
		}
	}

	return product, nil
}
