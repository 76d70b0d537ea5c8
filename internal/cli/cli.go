// Package cli implements the boxtree command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/buildinfo"
	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "boxtree"

	// redisPrefix namespaces boxtree keys in a shared Redis.
	redisPrefix = "boxtree:"
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

	out        io.Writer
	config     Config
	configFile string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout}
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose switches to debug logging and routes layout, cache and
// request events to the logger.
func (c *CLI) SetVerbose(on bool) {
	if !on {
		c.SetLogLevel(LogInfo)
		observability.Reset()
		return
	}
	c.SetLogLevel(LogDebug)
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Boxtree computes block, flexbox and grid layouts for box trees",
		Long:         `Boxtree loads box trees from TOML, YAML or JSON documents, lays them out with CSS block, flexbox and grid rules, and prints, draws or serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configFile)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	defaultConfig, _ := configPath()
	root.PersistentFlags().StringVar(&c.configFile, "config", defaultConfig, "config file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.svgCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// newCache opens the configured cache: Redis when an address is set, the
// XDG cache directory otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	var backend cache.Cache
	if c.config.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, c.config.Redis, redisPrefix)
		if err != nil {
			return nil, err
		}
		backend = rc
	} else {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		backend = fc
	}
	return cache.Observe(cache.WithTTL(backend, c.config.CacheTTL.Duration), "cli"), nil
}

// docFlags are the flags shared by every command that lays out a document.
type docFlags struct {
	width   string
	height  string
	noRound bool
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.width, "width", "", "available width: a number, min-content or max-content")
	cmd.Flags().StringVar(&f.height, "height", "", "available height: a number, min-content or max-content")
	cmd.Flags().BoolVar(&f.noRound, "no-round", false, "keep fractional positions and sizes")
}

// options merges flags over config defaults. A document's own width and
// height win over config but lose to flags.
func (c *CLI) options(doc *document.Document, f docFlags) document.Options {
	opts := document.Options{Width: f.width, Height: f.height, NoRound: f.noRound}
	if opts.Width == "" && doc.Width == "" {
		opts.Width = c.config.Width
	}
	if opts.Height == "" && doc.Height == "" {
		opts.Height = c.config.Height
	}
	if !opts.NoRound && doc.Rounding == nil && c.config.Rounding != nil {
		opts.NoRound = !*c.config.Rounding
	}
	return opts
}

// build loads, builds and computes the document at path.
func (c *CLI) build(ctx context.Context, path string, f docFlags) (*document.Built, error) {
	doc, _, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	c.options(doc, f).Apply(doc)
	b, err := document.Build(doc, nil)
	if err != nil {
		return nil, err
	}
	if err := b.Compute(ctx, nil); err != nil {
		return nil, err
	}
	return b, nil
}
