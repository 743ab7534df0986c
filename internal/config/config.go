// Package config holds the process-wide configuration loaded through viper.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent matches the browser used to obtain the cf_clearance
// cookies. Cloudflare validates the cookie against the requesting UA, so
// this must stay in sync with what the user pasted the cookie from.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Global configuration variables
var (
	// UserAgent is sent on every storefront request.
	UserAgent string
	// RequestTimeout bounds each storefront HTTP call.
	RequestTimeout time.Duration
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("useragent", DefaultUserAgent)
	viper.SetDefault("timeout", "30s")

	UserAgent = viper.GetString("useragent")

	RequestTimeout = viper.GetDuration("timeout")
	if RequestTimeout <= 0 {
		RequestTimeout = 30 * time.Second
	}
}

// Timeout returns the per-request timeout, falling back to 30s when
// InitConfig has not run (library use, tests).
func Timeout() time.Duration {
	if RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return RequestTimeout
}

// SiteCookie returns the cf_clearance cookie configured for a site.
// The settings UI may change cookies between searches, so callers snapshot
// this once at search start rather than re-reading mid-flight.
func SiteCookie(site string) string {
	return viper.GetString("sites." + site + ".cookie")
}

// SetSiteCookie overrides a site cookie (used by CLI flags and tests).
func SetSiteCookie(site, cookie string) {
	viper.Set("sites."+site+".cookie", cookie)
}
