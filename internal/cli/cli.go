package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/buildinfo"
	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/config"
	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "laddergrid"

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

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Laddergrid converts ladder logic between trees and editor grids",
		Long: `Laddergrid converts PLC ladder-logic programs between their logical form
(series and parallel blocks of instructions) and the two-dimensional grid a
ladder editor draws: elements in cells, joined by horizontal and vertical
wires.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/laddergrid/config.toml)")

	root.AddCommand(c.forwardCommand())
	root.AddCommand(c.reverseCommand())
	root.AddCommand(c.roundTripCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(level)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. Keys
// are scoped to the build version so an upgrade never reads stale layouts.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Get().Version+":")
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if ttl, err := c.Config.Cache.TTLDuration(); err == nil && ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.Config.Cache.RedisAddr,
			DB:     c.Config.Cache.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// convertFlags are the conversion flags shared by forward, reverse and
// roundtrip.
type convertFlags struct {
	ids         string
	noNormalize bool
	noCache     bool
	refresh     bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ids, "ids", "", "identifier strategy: sequential, uuid (default from config)")
	cmd.Flags().BoolVar(&f.noNormalize, "no-normalize", false, "keep rebuilt trees unnormalized")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options builds pipeline options from the config with flags on top.
func (c *CLI) options(f convertFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		IDs:           c.Config.Convert.IDs,
		SkipNormalize: !c.Config.Convert.Normalize || f.noNormalize,
		Refresh:       f.refresh,
		Logger:        c.Logger,
	}
	if f.ids != "" {
		opts.IDs = f.ids
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// =============================================================================
// Output
// =============================================================================

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
