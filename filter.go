package packforge

import (
	"fmt"
	"strings"

	"github.com/packforge/packforge/internal/pathutil"
)

// resolveExportPaths computes the final set of virtual paths to ship for a
// preset: mode resolution, autoload closure seeding, icon-format
// augmentation, include/exclude filters, and unconditional removal of import
// sidecars (re-added explicitly per resolved file during export).
func resolveExportPaths(p *Preset, proj *Project) (map[string]struct{}, error) {
	paths := make(map[string]struct{})

	switch p.ExportFilter {
	case ExportAllResources:
		addAllResources(proj.Index, paths)
	case ExcludeSelectedResources:
		addAllResources(proj.Index, paths)
		for _, f := range p.ExportFiles {
			delete(paths, f)
		}
	case ExportSelectedScenes, ExportSelectedResources:
		scenesOnly := p.ExportFilter == ExportSelectedScenes
		for _, f := range p.ExportFiles {
			if scenesOnly && proj.Index.ResolveType(f) != TypePackedScene {
				continue
			}
			addDependencies(proj.Index, f, paths)
		}
		// Autoloads are implicit entry points, not necessarily in the
		// manual selection.
		for _, autoload := range proj.Settings.Autoloads() {
			addDependencies(proj.Index, strings.TrimPrefix(autoload, "*"), paths)
		}
	default:
		return nil, fmt.Errorf("%w: unknown export filter %d", ErrParameter, int(p.ExportFilter))
	}

	// Native icon formats bypass the closure: packaging metadata references
	// them, asset dependency edges do not.
	if err := editFilterList(paths, "*.icns", false, proj); err != nil {
		return nil, err
	}
	if err := editFilterList(paths, "*.ico", false, proj); err != nil {
		return nil, err
	}

	if err := editFilterList(paths, p.IncludeFilter, false, proj); err != nil {
		return nil, err
	}
	if err := editFilterList(paths, p.ExcludeFilter, true, proj); err != nil {
		return nil, err
	}

	// Import sidecars are re-added explicitly per consumed resource, never
	// shipped implicitly.
	if err := editFilterList(paths, "*.import", true, proj); err != nil {
		return nil, err
	}

	return paths, nil
}

// addAllResources inserts every indexed file except plain text assets.
func addAllResources(index AssetIndex, paths map[string]struct{}) {
	for _, f := range index.Files() {
		if index.ResolveType(f) == TypePlainText {
			continue
		}
		paths[f] = struct{}{}
	}
}

// addDependencies inserts path and its transitive dependencies, depth-first,
// visiting each path at most once so dependency cycles terminate.
func addDependencies(index AssetIndex, path string, paths map[string]struct{}) {
	if _, ok := paths[path]; ok {
		return
	}
	paths[path] = struct{}{}
	for _, dep := range index.Dependencies(path) {
		addDependencies(index, dep, paths)
	}
}

// editFilterList applies one comma-separated wildcard filter against the
// project tree, adding matches to the list or removing them when exclude is
// set.
func editFilterList(paths map[string]struct{}, filterCSV string, exclude bool, proj *Project) error {
	patterns, err := pathutil.CompileList(filterCSV)
	if err != nil {
		return fmt.Errorf("%w: filter %q: %v", ErrParameter, filterCSV, err)
	}
	if len(patterns) == 0 {
		return nil
	}

	return proj.FS.Walk(proj.Index.SkipDirectory, func(path string) {
		if !pathutil.MatchAny(patterns, path) {
			return
		}
		if exclude {
			delete(paths, path)
		} else {
			paths[path] = struct{}{}
		}
	})
}
