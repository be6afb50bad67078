package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/config"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/session"
	"github.com/matzehuels/archgraph/pkg/store"
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

// Config returns the settings loaded for the running command.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "archgraph",
		Short: "Archgraph sketches and edits system architecture diagrams",
		Long: `Archgraph turns a database schema and an API endpoint list into a layered
system architecture diagram, lets you edit it node by node, and exports it
as JSON, a React Flow document, Graphviz DOT, SVG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			observability.RegisterLogHooks(observability.NewLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.synthCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.graphsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func defaultConfigHint() string {
	p, err := config.DefaultPath()
	if err != nil {
		return config.FileName
	}
	return p
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache.Instrument(ch), exportKeyer(), c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

// exportKeyer scopes cache keys by release. Entries written by another
// version are never read.
func exportKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	return store.Open(cmd.Context(), c.cfg.Store)
}

func (c *CLI) sessionOptions() session.Options {
	return session.Options{
		SavedDisplay: c.cfg.Session.SavedDisplay.Duration,
		Logger:       c.Logger,
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// readInput reads a file, or stdin when path is "-". An empty path yields
// nil.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
