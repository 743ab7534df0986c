package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/jmiller/grimoire/internal/cache"
	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/obs"
)

// CLI represents the complete command structure for the grimoire application
type CLI struct {
	// Global flags
	Timeout   string `help:"Per-request timeout for storefront calls (e.g. 30s)" default:"30s"`
	UserAgent string `help:"User-Agent header; must match the browser the cookies came from"`
	Debug     bool   `help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g. 168h for 7 days)" default:"168h"`

	Identify IdentifyCmd `cmd:"" help:"Search the storefronts for book metadata"`
	Cover    CoverCmd    `cmd:"" help:"Download a cover image by site:id identifier"`
	Serve    ServeCmd    `cmd:"" help:"Run the metadata HTTP API"`
	Cache    CacheCmd    `cmd:"" help:"Manage the response cache"`
}

// CacheCmd groups cache maintenance subcommands.
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear a cache table"`
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("grimoire"),
		kong.Description("Fetch book metadata and covers from DMsGuild, DriveThruRPG and DriveThruFiction."),
		kong.UsageOnError(),
	)

	initLogging(cli.Debug)
	initConfig()
	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("useragent", config.DefaultUserAgent)
	viper.SetDefault("timeout", "30s")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "168h") // 7 days

	// Enable environment variable support; cookies are the usual candidates
	// (GRIMOIRE_COOKIE_DMSGUILD and friends).
	viper.AutomaticEnv()
	for _, site := range obs.BuiltinSites() {
		envVar := "GRIMOIRE_COOKIE_" + strings.ToUpper(site.Name)
		if err := viper.BindEnv("sites."+site.Name+".cookie", envVar); err != nil {
			slog.Error("Failed to bind environment variable", "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.Timeout != "" {
		viper.Set("timeout", cli.Timeout)
	}
	if cli.UserAgent != "" {
		viper.Set("useragent", cli.UserAgent)
	}

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	config.InitConfig()
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
