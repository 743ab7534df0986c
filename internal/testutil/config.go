// Package testutil provides common test utilities for the grimoire project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/jmiller/grimoire/internal/cache"
	"github.com/jmiller/grimoire/internal/config"
)

// ResetConfig resets viper and schedules restoration of the config package
// variables when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	savedUA := config.UserAgent
	savedTimeout := config.RequestTimeout

	viper.Reset()

	t.Cleanup(func() {
		config.UserAgent = savedUA
		config.RequestTimeout = savedTimeout
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with a throwaway cache database
// and restores everything when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	ResetConfig(t)

	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))
	viper.Set("cache.ttl", "1h")
	config.InitConfig()

	if err := cache.ResetGlobalCache(); err != nil {
		t.Fatalf("failed to reset cache: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
	})
}

// SetSiteCookie configures a cookie for a site for the duration of the test.
func SetSiteCookie(t *testing.T, site, cookie string) {
	t.Helper()
	config.SetSiteCookie(site, cookie)
}
