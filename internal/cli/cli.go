// Package cli implements the jyotish command-line interface.
//
// The CLI computes natal charts, dasha timelines, transit overlays and
// aspect graphs from birth data given on the command line. It is built
// with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - chart: compute a natal bundle, print it, optionally save it
//   - dasha: print or interactively browse the Vimshottari and Yogini timelines
//   - transit: overlay the sky at an instant onto a natal chart
//   - vargas: list the supported divisional charts
//   - graph: export the aspect graph as DOT, SVG or PNG
//   - cache: manage the chart and ephemeris cache
//   - config: show the effective configuration
//   - version: print build information
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/jyotish/config.toml (or the file
// named by --config) and overridden by command flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/buildinfo"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/config"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/records"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jyotish"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Jyotish computes Vedic astrological charts",
		Long:         `Jyotish computes sidereal natal charts with divisional charts, dignities, dasha timelines, ashtakavarga, shadbala, yogas and transit overlays.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jyotish/config.toml)")

	root.AddCommand(c.chartCommand())
	root.AddCommand(c.dashaCommand())
	root.AddCommand(c.transitCommand())
	root.AddCommand(c.muhurtaCommand())
	root.AddCommand(c.matchCommand())
	root.AddCommand(c.vargasCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "ephemeris", cfg.Ephemeris.URL)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger, c.newProvider())
	r.ChartTTL = c.cfg.Cache.TTL
	return r, nil
}

// newProvider returns the remote provider when a URL is configured, else
// nil so the runner falls back to the analytic model.
func (c *CLI) newProvider() ephemeris.Provider {
	e := c.cfg.Ephemeris
	if e.URL == "" {
		return nil
	}
	backoff := cache.DefaultBackoff
	if e.Retries > 0 {
		backoff.Attempts = e.Retries
	}
	var headers map[string]string
	if e.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + e.APIKey}
	}
	return ephemeris.NewHTTPClient(e.URL, ephemeris.HTTPOptions{
		Timeout: e.Timeout,
		Backoff: backoff,
		Headers: headers,
	})
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
			Prefix:   appName + ":",
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the configured record store.
func (c *CLI) openStore() (*records.Store, error) {
	dsn, err := c.cfg.StoreDSN()
	if err != nil {
		return nil, err
	}
	return records.Open(c.cfg.Store.Driver, dsn)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// standard (~/.cache/jyotish/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
