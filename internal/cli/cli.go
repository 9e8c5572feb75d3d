// Package cli implements the relfetch command-line interface.
package cli

import (
	"context"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/buildinfo"
	"github.com/matzehuels/relfetch/pkg/cache"
	"github.com/matzehuels/relfetch/pkg/commits"
	"github.com/matzehuels/relfetch/pkg/config"
	"github.com/matzehuels/relfetch/pkg/filecache"
	"github.com/matzehuels/relfetch/pkg/integrations"
	"github.com/matzehuels/relfetch/pkg/integrations/github"
	"github.com/matzehuels/relfetch/pkg/patches"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "relfetch"
)

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
	noCache    bool
	settings   config.Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: config.Default(),
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
		Short:        "Relfetch resolves releases and caches their assets",
		Long:         `Relfetch looks up releases in a GitHub release feed, selects and downloads their assets into a local cache, aggregates changelogs, and lists the patches a catalog release provides.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/relfetch/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the HTTP response cache")

	root.AddCommand(c.latestCommand())
	root.AddCommand(c.releaseCommand())
	root.AddCommand(c.trackCommand())
	root.AddCommand(c.assetCommand())
	root.AddCommand(c.changelogCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.commitsCommand())
	root.AddCommand(c.patchesCommand())
	root.AddCommand(c.integrationsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())

	return root
}

func (c *CLI) loadSettings() error {
	s, unknown, err := config.LoadSettings(c.configPath)
	if err != nil {
		return err
	}
	for _, k := range unknown {
		c.Logger.Warn("unknown setting ignored", "key", k)
	}
	s.CacheDir = config.ExpandHome(s.CacheDir)
	c.settings = s
	return nil
}

// =============================================================================
// Service Factory
// =============================================================================

// services bundles the clients a command needs. Close releases the
// response cache backend.
type services struct {
	github  *github.Client
	files   *filecache.Store
	state   *config.FileStore
	cache   cache.Cache
	commits *commits.Fetcher
	patches *patches.Loader
}

func (s *services) Close() error { return s.cache.Close() }

// newServices wires the response cache, feed client, download cache, and
// state store from the loaded settings.
func (c *CLI) newServices(ctx context.Context) (*services, error) {
	respCache, err := c.responseCache(ctx)
	if err != nil {
		return nil, err
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), hostOf(c.settings.APIURL)+":")
	gh := github.NewClient(
		c.settings.APIURL,
		integrations.NewCachedHTTPClient(respCache, keyer, c.settings.CacheTTL()),
		c.Logger,
	)
	gh.SetHeader("User-Agent", c.settings.UserAgent)

	files, err := c.fileCache()
	if err != nil {
		respCache.Close()
		return nil, err
	}
	state, err := config.NewFileStore("")
	if err != nil {
		respCache.Close()
		return nil, err
	}

	return &services{
		github:  gh,
		files:   files,
		state:   state,
		cache:   respCache,
		commits: commits.NewFetcher(gh, c.settings.PackagePaths, c.Logger),
		patches: patches.NewLoader(gh, files, state, c.Logger),
	}, nil
}

// responseCache picks the HTTP response cache backend: none with --no-cache,
// Redis when redis_url is set, process memory otherwise.
func (c *CLI) responseCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case c.settings.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, c.settings.RedisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis response cache")
		return rc, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// withServices runs fn with freshly wired services and closes them after.
func (c *CLI) withServices(ctx context.Context, fn func(*services) error) error {
	svc, err := c.newServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}
