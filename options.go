package packforge

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/packforge/packforge/internal/pck"
)

// Version is the engine version recorded in a pack header.
type Version = pck.Version

// ProgressFunc observes each emitted record. Returning false requests early
// termination: the export stops with ErrSkip after the current record. This
// is the only cancellation point besides the run context.
type ProgressFunc func(path string, index, total int) bool

// ExportOption configures an export run.
type ExportOption func(*exportConfig)

type exportConfig struct {
	logger     *log.Logger
	plugins    []Plugin
	padSource  io.Reader
	scratchDir string
	embed      bool
	version    Version
	flags      DebugFlags
	progress   ProgressFunc
}

func newExportConfig(opts []ExportOption) *exportConfig {
	cfg := &exportConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for export diagnostics. The default discards.
func WithLogger(logger *log.Logger) ExportOption {
	return func(c *exportConfig) {
		c.logger = logger
	}
}

// WithPlugins registers export-stage plugins in priority order.
func WithPlugins(plugins ...Plugin) ExportOption {
	return func(c *exportConfig) {
		c.plugins = append(c.plugins, plugins...)
	}
}

// WithPadSource sets the source of alignment padding bytes written into the
// pack. The default is crypto/rand; tests use a deterministic source.
func WithPadSource(r io.Reader) ExportOption {
	return func(c *exportConfig) {
		c.padSource = r
	}
}

// WithScratchDir sets the directory for scratch files. The default is the
// system temp directory. Scratch names are unique per run either way.
func WithScratchDir(dir string) ExportOption {
	return func(c *exportConfig) {
		c.scratchDir = dir
	}
}

// WithEmbed appends the pack to the existing host binary at the destination
// path and patches the lookup trailer, instead of writing a standalone pack.
func WithEmbed() ExportOption {
	return func(c *exportConfig) {
		c.embed = true
	}
}

// WithVersion sets the engine version recorded in the pack header.
func WithVersion(v Version) ExportOption {
	return func(c *exportConfig) {
		c.version = v
	}
}

// WithDebugFlags sets the debug flags passed to plugin BeginExport hooks.
func WithDebugFlags(flags DebugFlags) ExportOption {
	return func(c *exportConfig) {
		c.flags = flags
	}
}

// WithProgress sets the per-record progress callback.
func WithProgress(fn ProgressFunc) ExportOption {
	return func(c *exportConfig) {
		c.progress = fn
	}
}
