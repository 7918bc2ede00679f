// Package cli implements the upstreamer command-line interface.
//
// Commands load a project directory (or a JSON artifact set), run the
// extractors and print the reconciled upstream metadata record. The same
// pipeline backs the HTTP API started by "upstreamer serve".
//
// # Commands
//
//   - guess: print the reconciled record
//   - check: report problems with the record
//   - provenance: draw which artifacts each field came from
//   - browse: explore the record and its discarded guesses interactively
//   - artifacts: dump the loaded artifacts as JSON
//   - fields: list the known fields
//   - serve: run the HTTP API
//   - config, cache, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every cache and pipeline event.
package cli

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upstreamer/pkg/buildinfo"
	"github.com/matzehuels/upstreamer/pkg/cache"
	"github.com/matzehuels/upstreamer/pkg/config"
	"github.com/matzehuels/upstreamer/pkg/observability"
	"github.com/matzehuels/upstreamer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "upstreamer"

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

	// Out receives command output; logs go to the logger's writer.
	Out io.Writer

	configPath string
	config     *config.Config
}

// New creates a new CLI instance writing logs to w and output to out.
func New(out, w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    out,
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks are routed to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger.WithPrefix("hooks")}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Upstreamer guesses upstream metadata for source projects",
		Long: `Upstreamer reads the files of a source project (manifests, changelogs,
watch files, READMEs, build rules) and reconciles what they say into one
upstream metadata record: name, homepage, repository, bug tracker, license
and the rest, each with a certainty and the file it came from.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/upstreamer/config.toml)")

	root.AddCommand(c.guessCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.provenanceCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.artifactsCommand())
	root.AddCommand(c.fieldsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file once per invocation.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.CacheTTL()
	return runner, nil
}

// openCache opens the configured cache. A cache that cannot be opened is
// logged and replaced by the null cache, since every run can proceed
// without one.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cache.Options{
		Backend:  cfg.Cache.Backend,
		Dir:      cfg.Cache.Dir,
		RedisURL: cfg.Cache.RedisURL,
	})
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// runFlags are the flags shared by every command that runs the pipeline.
type runFlags struct {
	minCertainty string
	disable      []string
	fromJSON     string
	noCache      bool
	refresh      bool
	name         string
	homepage     string
	repository   string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.minCertainty, "min-certainty", "", "drop record entries below this certainty (default from config)")
	cmd.Flags().StringSliceVar(&f.disable, "disable", nil, "extractors to skip (comma-separated)")
	cmd.Flags().StringVar(&f.fromJSON, "from-json", "", "read artifacts from a JSON file instead of a directory")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached guesses")
	cmd.Flags().StringVar(&f.name, "name", "", "known project name")
	cmd.Flags().StringVar(&f.homepage, "homepage", "", "known homepage")
	cmd.Flags().StringVar(&f.repository, "repository", "", "known repository URL")
}

// disabledExtractors merges the configured and requested extractor lists.
func disabledExtractors(cfg *config.Config, extra []string) []string {
	out := slices.Clone(cfg.Extractors.Disabled)
	for _, name := range extra {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
