package obs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	obserrors "github.com/jmiller/grimoire/internal/errors"
)

// get performs a single authenticated GET against the storefront.
// There is deliberately no retry: a rejected cookie stays rejected until the
// user pastes a fresh one, and hammering Cloudflare only burns the cookie
// faster.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.cookie == "" {
		return nil, obserrors.NewAuthError(c.site.Name, 0)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Cookie", "cf_clearance="+c.cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, obserrors.NewNetworkError(c.site.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Cloudflare answers 403 for a rejected cookie and 503 for an
	// unsolved challenge; both mean the user has to paste a new one.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		return nil, obserrors.NewAuthError(c.site.Name, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, obserrors.NewNetworkError(c.site.Name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, obserrors.NewNetworkError(c.site.Name, err)
	}

	return body, nil
}

// asString renders an id-ish API value (number or string) as a string.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}
