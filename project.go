package packforge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packforge/packforge/internal/pathutil"
)

// TypePlainText is the resource type tag of editor-only text notes, which
// are never exported.
const TypePlainText = "TextFile"

// TypePackedScene is the resource type tag of packed scenes, the closure
// seeds of the selected-scenes filter mode.
const TypePackedScene = "PackedScene"

// AssetIndex is the read-only view of the project's asset database the core
// consumes: known files, their resolved types, and their dependency edges.
type AssetIndex interface {
	// Files returns every indexed virtual path.
	Files() []string

	// ResolveType returns the resource type tag for path, or "".
	ResolveType(path string) string

	// Dependencies returns the direct dependency paths of path.
	Dependencies(path string) []string

	// Exists reports whether path is indexed.
	Exists(path string) bool

	// SkipDirectory reports whether a directory must be skipped by filter
	// walks (version-control metadata and similar).
	SkipDirectory(dir string) bool
}

// ProjectFS reads project files by their virtual path.
type ProjectFS interface {
	// ReadFile returns the content of the file at the virtual path.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether a file exists at the virtual path.
	Exists(path string) bool

	// Walk visits every project file in lexical order, passing its virtual
	// path to fn. Dot-prefixed directories are skipped, as is any
	// directory for which skipDir returns true.
	Walk(skipDir func(dir string) bool, fn func(path string)) error
}

// Remap is one redirect from a logical resource path to the artifact that
// replaces it at runtime.
type Remap struct {
	From string
	To   string
}

// Settings is the read-only project configuration view the core consumes,
// plus the snapshot writer used for the final settings record.
type Settings interface {
	// Autoloads returns the target paths of declared autoload entries.
	// These are implicit entry points seeded into the dependency closure.
	Autoloads() []string

	// IconPath and SplashPath return the configured icon and boot splash
	// virtual paths, or "".
	IconPath() string
	SplashPath() string

	// UIDCachePath returns the resource-ID cache virtual path, or "".
	UIDCachePath() string

	// ExtensionListPath returns the native-extension manifest virtual
	// path, or "".
	ExtensionListPath() string

	// SaveSnapshot writes the settings snapshot shipped as the final pack
	// record to dst, embedding the active custom feature tags and any
	// legacy path-remap table.
	SaveSnapshot(dst string, customFeatures []string, remaps []Remap) error
}

// TextSupport generates localization and text-shaping support data.
type TextSupport interface {
	// Enabled reports whether support data should ship at all.
	Enabled() bool

	// DataPath returns the virtual path the support data ships under.
	// A user-supplied file at this path takes precedence over Generate.
	DataPath() string

	// Generate writes default support data to dst.
	Generate(dst string) error
}

// Project bundles the collaborator views for one export run. Text may be
// nil when the project ships no text-shaping data.
type Project struct {
	FS       ProjectFS
	Index    AssetIndex
	Settings Settings
	Text     TextSupport
}

// DirFS is a ProjectFS rooted at a directory on disk. Virtual paths map to
// slash paths relative to the root.
type DirFS struct {
	root string
}

// NewDirFS returns a DirFS for the project directory at root.
func NewDirFS(root string) *DirFS {
	return &DirFS{root: root}
}

// Resolve maps a virtual path to its on-disk location.
func (d *DirFS) Resolve(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(pathutil.TrimScheme(path)))
}

// ReadFile implements ProjectFS.
func (d *DirFS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(d.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPath, err)
	}
	return data, nil
}

// Exists implements ProjectFS.
func (d *DirFS) Exists(path string) bool {
	info, err := os.Stat(d.Resolve(path))
	return err == nil && info.Mode().IsRegular()
}

// Walk implements ProjectFS.
func (d *DirFS) Walk(skipDir func(dir string) bool, fn func(path string)) error {
	return d.walkDir(pathutil.Scheme, skipDir, fn)
}

func (d *DirFS) walkDir(cur string, skipDir func(dir string) bool, fn func(path string)) error {
	entries, err := os.ReadDir(d.Resolve(cur))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			dirs = append(dirs, name)
			continue
		}
		fn(cur + name)
	}
	for _, dir := range dirs {
		if strings.HasPrefix(dir, ".") {
			continue
		}
		sub := cur + dir + "/"
		if skipDir != nil && skipDir(sub) {
			continue
		}
		if err := d.walkDir(sub, skipDir, fn); err != nil {
			return err
		}
	}
	return nil
}
