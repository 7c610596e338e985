package packforge

import "github.com/packforge/packforge/internal/feature"

// SharedObject is a native library or support file declared by a plugin,
// copied verbatim next to the produced output rather than packed.
type SharedObject struct {
	// Path is the source location of the object.
	Path string

	// Tags are the platform tags the object applies to.
	Tags []string

	// Target is the sub-directory of the output directory the object is
	// copied into. Empty means the output directory itself.
	Target string
}

// ExtraFile is a file injected by a plugin during export.
type ExtraFile struct {
	Path  string
	Data  []byte
	Remap bool
}

// Plugin is an export-stage collaborator. Implementations may rewrite files,
// skip them, or inject extra files while a project is exported. Whether a
// plugin is native or backed by a scripting runtime is the plugin's own
// concern; the pipeline sees one interface.
type Plugin interface {
	// BeginExport is called once before any file is processed. Extra
	// files and shared objects declared on the context are flushed before
	// the per-file passes begin; remap flags are ignored here.
	BeginExport(ctx *PluginContext, debug bool, outputPath string, flags DebugFlags)

	// ExportFile is called for each file that has no import sidecar.
	// The context carries the feature set and collects the plugin's
	// declarations for this file.
	ExportFile(ctx *PluginContext, path, resType string)

	// EndExport is called once after the run, successful or not.
	EndExport()
}

// PluginContext carries per-file state into Plugin.ExportFile and collects
// the plugin's declarations.
type PluginContext struct {
	features *feature.Set

	extra   []ExtraFile
	shared  []SharedObject
	skipped bool
}

func newPluginContext(features *feature.Set) *PluginContext {
	return &PluginContext{features: features}
}

// HasFeature reports whether tag is active for this run.
func (c *PluginContext) HasFeature(tag string) bool {
	return c.features.Has(tag)
}

// Features returns the active feature tags in composition order.
func (c *PluginContext) Features() []string {
	return c.features.Ordered()
}

// AddFile declares an extra file to ship. With remap set, the original file
// is not exported as itself; a redirect record pointing at path is written
// instead.
func (c *PluginContext) AddFile(path string, data []byte, remap bool) {
	c.extra = append(c.extra, ExtraFile{Path: path, Data: data, Remap: remap})
}

// AddSharedObject declares a file to copy verbatim beside the output.
func (c *PluginContext) AddSharedObject(path string, tags []string, target string) {
	c.shared = append(c.shared, SharedObject{Path: path, Tags: tags, Target: target})
}

// Skip omits the current file from the export entirely.
func (c *PluginContext) Skip() {
	c.skipped = true
}
