package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/config"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
	"github.com/matzehuels/nodegraph/pkg/registry"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodegraph"

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

	configPath   string
	registryPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Nodegraph edits and inspects node-graph workspaces",
		Long:         `Nodegraph manages workspaces of node graphs: typed nodes with ports, connections between them, and ref nodes shared across graphs. It can purge orphaned references, copy graphs, and render them with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nodegraph/config.toml)")
	root.PersistentFlags().StringVar(&c.registryPath, "registry", "", "node type registry file (overrides config)")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.purgeCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.registryPath != "" {
		cfg.Registry = c.registryPath
	}
	if level, err := cfg.Log.ParseLevel(); err == nil && c.Logger.GetLevel() > level {
		c.SetLogLevel(level)
	}
	return cfg, nil
}

// loadRegistry reads the configured registry file, or the built-in one.
func (c *CLI) loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.Registry == "" {
		c.Logger.Debug("using built-in registry")
		return registry.Builtin()
	}
	path := expandHome(cfg.Registry)
	reg, err := registry.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded registry", "path", path, "types", len(reg.Types()))
	return reg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	reg, err := c.loadRegistry(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, config.Config{}, err
	}
	if noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	ch, err := newCache(ctx, cfg.Cache)
	if err != nil {
		_ = st.Close()
		return nil, config.Config{}, err
	}

	runner := pipeline.NewRunner(st, ch, reg, c.Logger)
	if cfg.Cache.Prefix != "" {
		runner.Keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	if cfg.Cache.TTL.Duration > 0 {
		runner.ArtifactTTL = cfg.Cache.TTL.Duration
	}
	return runner, cfg, nil
}

func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	}
	return store.NewFileStore(expandHome(cfg.Dir))
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	c, err := cache.NewFileCache(expandHome(cfg.Dir))
	if err != nil {
		// An unwritable cache directory only disables caching.
		return cache.NewNullCache(), nil
	}
	return c, nil
}

// =============================================================================
// Paths
// =============================================================================

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// cacheDir returns the artifact cache directory from the config.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return expandHome(cfg.Cache.Dir), nil
}
