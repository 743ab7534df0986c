package obs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CoverURL builds the full cover image URL for a product's image path,
// e.g. "8957/240640.jpg".
func (c *Client) CoverURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", c.site.ImageBaseURL, strings.TrimPrefix(imagePath, "/"))
}

// Cover downloads the raw image bytes from a cover URL. The image CDN sits
// behind the same Cloudflare protection as the API, so the request goes
// through the same authenticated path.
func (c *Client) Cover(ctx context.Context, coverURL string) ([]byte, error) {
	slog.Debug("Downloading cover", "site", c.site.Name, "url", coverURL)
	return c.get(ctx, coverURL)
}
