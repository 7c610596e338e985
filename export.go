package packforge

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/packforge/packforge/internal/feature"
	"github.com/packforge/packforge/internal/pathutil"
	"github.com/packforge/packforge/internal/sidecar"
)

// SnapshotPath is the virtual path of the settings snapshot, always the very
// last record of an export.
const SnapshotPath = pathutil.Scheme + "project.binary"

// Record is one physical file emitted by the export pipeline. Each record is
// consumed exactly once by a writer and never persisted.
type Record struct {
	// Path is the virtual path the content ships under.
	Path string

	// Data is the plaintext content.
	Data []byte

	// Index and Total describe progress: Index is the running count of
	// fully processed source paths, Total the size of the selection.
	Index int
	Total int

	// Encrypted marks records the pack writer must encrypt.
	Encrypted bool
}

// SaveFunc consumes one export record. Returning an error aborts the run;
// returning ErrSkip aborts it as a cancellation rather than a failure.
type SaveFunc func(rec Record) error

// SharedObjectFunc consumes one declared shared object.
type SharedObjectFunc func(so SharedObject) error

// exporter drives one export run. It is owned by a single Save call and
// never shared.
type exporter struct {
	proj     *Project
	platform Platform
	preset   *Preset
	debug    bool
	dest     string
	cfg      *exportConfig

	save   SaveFunc
	soSave SharedObjectFunc

	features *feature.Set
	encIn    []pathutil.Pattern
	encEx    []pathutil.Pattern

	remaps []Remap
	idx    int
	total  int
}

// run executes the whole pipeline: selection, per-path emission, deferred
// redirects, and the trailing project records.
func (e *exporter) run(ctx context.Context) error {
	paths, err := resolveExportPaths(e.preset, e.proj)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: must select at least one file to export", ErrParameter)
	}
	e.total = len(paths)

	if e.preset.EncryptPack {
		if e.encIn, err = pathutil.CompileList(e.preset.EncryptInFilter); err != nil {
			return fmt.Errorf("%w: encryption include filter: %v", ErrParameter, err)
		}
		if e.encEx, err = pathutil.CompileList(e.preset.EncryptExFilter); err != nil {
			return fmt.Errorf("%w: encryption exclude filter: %v", ErrParameter, err)
		}
	}

	e.features = feature.Resolve(
		e.platform.Features(),
		e.platform.PresetFeatures(e.preset),
		e.debug,
		e.preset.CustomFeatures,
	)

	for _, p := range e.cfg.plugins {
		pctx := newPluginContext(e.features)
		p.BeginExport(pctx, e.debug, e.dest, e.cfg.flags)
		if err := e.flushSharedObjects(pctx); err != nil {
			return err
		}
		for _, extra := range pctx.extra {
			if err := e.emit(extra.Path, extra.Data); err != nil {
				return err
			}
		}
	}
	defer func() {
		for _, p := range e.cfg.plugins {
			p.EndExport()
		}
	}()

	for _, path := range slices.Sorted(maps.Keys(paths)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.exportPath(path); err != nil {
			return err
		}
		e.idx++
	}

	return e.finishRun()
}

// exportPath emits the records for one selected path: either its import
// remaps plus the sidecar, or the plugin-chain result.
func (e *exporter) exportPath(path string) error {
	sidecarPath := path + ".import"
	if e.proj.FS.Exists(sidecarPath) {
		return e.exportImported(path, sidecarPath)
	}
	return e.exportPlain(path)
}

// exportImported replaces an imported file by its importer-produced
// artifacts, selected by feature tag, then ships the sidecar itself so
// runtime import lookup keeps working.
func (e *exporter) exportImported(path, sidecarPath string) error {
	raw, err := e.proj.FS.ReadFile(sidecarPath)
	if err != nil {
		return err
	}
	sc, err := sidecar.Parse(raw)
	if err != nil {
		e.cfg.logger.Warn("could not parse import sidecar, not exported", "path", path, "err", err)
		return nil
	}

	if sc.Keep() {
		data, err := e.proj.FS.ReadFile(path)
		if err != nil {
			return err
		}
		return e.emit(path, data)
	}

	remaps := sc.Remaps()
	active := make(map[string]struct{})
	for _, r := range remaps {
		if r.Feature != "" && e.features.Has(r.Feature) {
			active[r.Feature] = struct{}{}
		}
	}
	if len(active) > 1 {
		e.platform.ResolveFeaturePriorities(e.preset, active)
	}

	for _, r := range remaps {
		if r.Feature != "" {
			if _, ok := active[r.Feature]; !ok {
				continue
			}
		}
		data, err := e.proj.FS.ReadFile(r.Target)
		if err != nil {
			return err
		}
		if err := e.emit(r.Target, data); err != nil {
			return err
		}
	}

	return e.emit(sidecarPath, raw)
}

// exportPlain runs the plugin chain for a path without a sidecar, then ships
// the path's own content unless a plugin remapped or skipped it.
func (e *exporter) exportPlain(path string) error {
	resType := e.proj.Index.ResolveType(path)

	doExport := true
	for _, p := range e.cfg.plugins {
		pctx := newPluginContext(e.features)
		p.ExportFile(pctx, path, resType)

		if err := e.flushSharedObjects(pctx); err != nil {
			return err
		}
		for _, extra := range pctx.extra {
			if err := e.emit(extra.Path, extra.Data); err != nil {
				return err
			}
			if extra.Remap {
				doExport = false
				e.remaps = append(e.remaps, Remap{From: path, To: extra.Path})
			}
		}
		if pctx.skipped {
			doExport = false
		}
		if !doExport {
			// Remaining plugins in the chain do not run for this path.
			break
		}
	}
	if !doExport {
		return nil
	}

	data, err := e.proj.FS.ReadFile(path)
	if err != nil {
		return err
	}
	return e.emit(path, data)
}

// finishRun emits the deferred redirect records and the trailing project
// records, ending with the settings snapshot.
func (e *exporter) finishRun() error {
	for _, rm := range e.remaps {
		content := "[remap]\n\npath=\"" + escapeConfigString(rm.To) + "\"\n"
		if err := e.emit(rm.From+".remap", []byte(content)); err != nil {
			return err
		}
	}

	// Icon and splash bypass the import system; the runtime loads them as
	// plain images.
	icon := strings.TrimSpace(e.proj.Settings.IconPath())
	splash := strings.TrimSpace(e.proj.Settings.SplashPath())
	if icon != "" && e.proj.FS.Exists(icon) {
		if err := e.emitFrom(icon); err != nil {
			return err
		}
	}
	if splash != "" && splash != icon && e.proj.FS.Exists(splash) {
		if err := e.emitFrom(splash); err != nil {
			return err
		}
	}

	if p := e.proj.Settings.UIDCachePath(); p != "" && e.proj.FS.Exists(p) {
		if err := e.emitFrom(p); err != nil {
			return err
		}
	}
	if p := e.proj.Settings.ExtensionListPath(); p != "" && e.proj.FS.Exists(p) {
		if err := e.emitFrom(p); err != nil {
			return err
		}
	}

	if err := e.emitTextSupport(); err != nil {
		return err
	}

	return e.emitSnapshot()
}

// emitTextSupport ships text-shaping support data: a user-supplied file when
// present, otherwise data generated to a scratch path and removed after.
func (e *exporter) emitTextSupport() error {
	ts := e.proj.Text
	if ts == nil || !ts.Enabled() {
		return nil
	}
	dataPath := ts.DataPath()
	if e.proj.FS.Exists(dataPath) {
		return e.emitFrom(dataPath)
	}

	tmp, err := os.CreateTemp(e.cfg.scratchDir, "text-support-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := ts.Generate(tmpPath); err != nil {
		return fmt.Errorf("generate text support data: %w", err)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	return e.emit(dataPath, data)
}

// emitSnapshot writes the settings snapshot to a scratch path, ships it as
// the final record, and removes the scratch copy.
func (e *exporter) emitSnapshot() error {
	tmp, err := os.CreateTemp(e.cfg.scratchDir, "project-binary-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	custom := pathutil.SplitFilterList(e.preset.CustomFeatures)
	if err := e.proj.Settings.SaveSnapshot(tmpPath, custom, e.remaps); err != nil {
		return fmt.Errorf("save settings snapshot: %w", err)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	return e.emit(SnapshotPath, data)
}

// emitFrom reads a project file and emits it under its own path.
func (e *exporter) emitFrom(path string) error {
	data, err := e.proj.FS.ReadFile(path)
	if err != nil {
		return err
	}
	return e.emit(path, data)
}

// emit hands one record to the writer and runs the progress check, the
// cooperative cancellation point after every emitted record.
func (e *exporter) emit(path string, data []byte) error {
	rec := Record{
		Path:      path,
		Data:      data,
		Index:     e.idx,
		Total:     e.total,
		Encrypted: e.encryptDecision(path),
	}
	if err := e.save(rec); err != nil {
		return err
	}
	if e.cfg.progress != nil && !e.cfg.progress(path, rec.Index, rec.Total) {
		return ErrSkip
	}
	return nil
}

// encryptDecision applies the include then exclude encryption filters.
// Exclude always wins when both match.
func (e *exporter) encryptDecision(path string) bool {
	if !e.preset.EncryptPack {
		return false
	}
	encrypted := pathutil.MatchAny(e.encIn, path)
	if encrypted && pathutil.MatchAny(e.encEx, path) {
		encrypted = false
	}
	return encrypted
}

func (e *exporter) flushSharedObjects(pctx *PluginContext) error {
	if e.soSave == nil {
		return nil
	}
	for _, so := range pctx.shared {
		if err := e.soSave(so); err != nil {
			return err
		}
	}
	return nil
}

// escapeConfigString escapes a path for inclusion in a quoted config-file
// string.
func escapeConfigString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
