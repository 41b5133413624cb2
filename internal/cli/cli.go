package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/buildinfo"
	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dbccheck"

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

	// Stdout receives machine output (report JSON, DOT, SVG).
	Stdout io.Writer

	configFile string
	noCache    bool
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "dbccheck prechecks DBC power-module layouts",
		Long:          `dbccheck verifies that the dies of a parametric DBC layout lie inside their copper zones and do not overlap, before the layout goes to CAD generation.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/dbccheck/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the report cache")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.zonesCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadedConfig reads the config file once per process.
func (c *CLI) loadedConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		p, err := configPath()
		if err == nil {
			path = p
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned cache must
// be closed by the caller.
func (c *CLI) newRunner(ctx context.Context, cfg *Config) (*pipeline.Runner, cache.Cache, error) {
	ch, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	r := pipeline.NewRunner(ch, newKeyer(cfg), c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		r.TTL = cfg.Cache.TTL.Duration
	}
	return r, ch, nil
}

// newKeyer returns the cache keyer, scoped to the configured namespace.
func newKeyer(cfg *Config) cache.Keyer {
	if ns := cfg.Cache.Namespace; ns != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), ns+":")
	}
	return cache.NewDefaultKeyer()
}

func (c *CLI) newCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	backend := cfg.Cache.Backend
	if c.noCache {
		backend = backendNone
	}
	switch backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.Cache.RedisAddr,
			DB:     cfg.Cache.RedisDB,
			Prefix: appName + ":",
		})
	default:
		dir, err := c.cacheDir(cfg)
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newStore connects the history store, or returns nil when history is not
// configured.
func (c *CLI) newStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.History.MongoURI == "" {
		return nil, nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:        cfg.History.MongoURI,
		Database:   cfg.History.Database,
		Collection: cfg.History.Collection,
	})
}

// =============================================================================
// Paths
// =============================================================================

func (c *CLI) cacheDir(cfg *Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/dbccheck/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// extremeFlag returns the --extreme value, falling back to the config.
func extremeFlag(cmd *cobra.Command, flag float64, cfg *Config) float64 {
	if cmd.Flags().Changed("extreme") {
		return flag
	}
	return cfg.Check.Extreme
}

func writeOut(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
