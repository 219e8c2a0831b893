package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/buildinfo"
	"github.com/matzehuels/blockgen/pkg/cache"
	"github.com/matzehuels/blockgen/pkg/config"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/export"
	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "blockgen"

// stdoutPath as --output writes a single artifact to standard output.
const stdoutPath = "-"

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

	// ConfigPath is set by the --config flag. Empty means search the
	// default locations.
	ConfigPath string

	cfg *config.Config
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
		Use:   appName,
		Short: "blockgen turns device descriptions into block diagrams",
		Long: `blockgen reads a free-text description of an electronic device, sorts the
components it recognizes into power, inputs, control, outputs and other
blocks, and exports the resulting diagram as JSON, SVG or draw.io XML.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ./blockgen.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.vocabCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, used, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	c.cfg = &cfg
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
// An unreachable cache backend degrades to no caching rather than failing.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) *pipeline.Runner {
	backend := cache.Backend(cfg.Cache.Backend)
	if noCache {
		backend = cache.BackendNone
	}

	ch, err := cache.Open(ctx, cache.Options{
		Backend:   backend,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
	})
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", backend, "err", err)
		ch = cache.NewNullCache()
	}

	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cfg.Cache.Namespace), c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner
}

// vocabulary returns the built-in vocabulary extended by the file at path,
// or by the configured file when path is empty. A nil result means the
// built-in vocabulary alone.
func (c *CLI) vocabulary(cfg config.Config, path string) (generate.Vocabulary, error) {
	if path == "" {
		path = cfg.Vocabulary
	}
	if path == "" {
		return nil, nil
	}
	extra, err := generate.LoadVocabulary(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded vocabulary", "file", path, "keywords", len(extra))
	return generate.DefaultVocabulary().Merge(extra), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats splits a comma-separated format list, falling back to def.
func parseFormats(s string, def []string) []string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	var names []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	return names
}

// writeArtifacts writes each artifact as block-diagram.<ext> under dir and
// returns the written paths in format order. With dir "-" the single
// artifact goes to w instead.
func writeArtifacts(w io.Writer, dir string, formats []export.Format, artifacts map[export.Format][]byte) ([]string, error) {
	if dir == stdoutPath {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--output - requires exactly one format, got %d", len(formats))
		}
		_, err := w.Write(artifacts[formats[0]])
		return nil, err
	}

	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, f.Filename())
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
