// Package obs provides a client for the internal OneBookShelf storefront API
// shared by DMsGuild, DriveThruRPG and DriveThruFiction. Requests carry the
// user's cf_clearance cookie and the User-Agent the cookie was minted for.
package obs

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/ratelimit"
)

const defaultRatePerSecond = 2

// One token bucket per storefront for the whole process. Catalogs are rebuilt
// per search to snapshot cookies, so the limiter must outlive any one client
// or the cap would reset on every search.
var (
	limiterMu sync.Mutex
	limiters  = map[string]*ratelimit.Limiter{}
)

func siteLimiter(name string) *ratelimit.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()

	limiter, ok := limiters[name]
	if !ok {
		limiter = ratelimit.New(name, defaultRatePerSecond)
		limiters[name] = limiter
	}
	return limiter
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a storefront API client. One instance serves one site.
type Client struct {
	site        Site
	cookie      string
	userAgent   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a client for the given storefront. cookie is the site's
// cf_clearance value; it may be empty, in which case every call fails with an
// AuthError (the façade skips such sites before it gets that far).
func NewClient(site Site, cookie string, opts ...Option) *Client {
	client := &Client{
		site:        site,
		cookie:      cookie,
		userAgent:   config.DefaultUserAgent,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: siteLimiter(site.Name),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Name returns the storefront name this client serves.
func (c *Client) Name() string {
	return c.site.Name
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(d HTTPDoer) Option {
	return func(client *Client) {
		if d != nil {
			client.httpClient = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
// It must match the browser the cf_clearance cookie was obtained with.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithAPIBaseURL overrides the site's API base URL (used by tests).
func WithAPIBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.site.APIBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithImageBaseURL overrides the site's cover image base URL (used by tests).
func WithImageBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.site.ImageBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}
