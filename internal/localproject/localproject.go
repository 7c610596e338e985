// Package localproject builds the exporter's collaborator views from a
// plain project directory, for use by the command-line tool. The asset index
// is extension-driven and carries no dependency edges; projects with a real
// asset database supply their own AssetIndex instead.
package localproject

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/packforge/packforge"
	"github.com/packforge/packforge/internal/pathutil"
)

// SettingsFile is the project configuration file name read from the project
// root, when present.
const SettingsFile = "project.yaml"

// Load scans the project directory at root.
func Load(root string) (*packforge.Project, error) {
	fsys := packforge.NewDirFS(root)

	idx := &index{files: make(map[string]struct{})}
	err := fsys.Walk(idx.SkipDirectory, func(path string) {
		idx.files[path] = struct{}{}
	})
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings(root)
	if err != nil {
		return nil, err
	}

	return &packforge.Project{
		FS:       fsys,
		Index:    idx,
		Settings: settings,
	}, nil
}

// index is an extension-driven AssetIndex over a scanned directory.
type index struct {
	files map[string]struct{}
}

func (ix *index) Files() []string {
	out := make([]string, 0, len(ix.files))
	for f := range ix.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (ix *index) ResolveType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tscn", ".scn":
		return packforge.TypePackedScene
	case ".txt", ".md":
		return packforge.TypePlainText
	case "":
		return ""
	default:
		return "Resource"
	}
}

// Dependencies returns no edges: a scanned directory has no dependency
// metadata, so closure modes degrade to the seeds themselves.
func (ix *index) Dependencies(string) []string { return nil }

func (ix *index) Exists(path string) bool {
	_, ok := ix.files[path]
	return ok
}

func (ix *index) SkipDirectory(dir string) bool {
	base := strings.TrimSuffix(pathutil.TrimScheme(dir), "/")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	switch base {
	case "node_modules", "__pycache__":
		return true
	default:
		return false
	}
}

// settings reads project configuration from project.yaml, tolerating a
// missing file.
type settings struct {
	autoloads []string
	icon      string
	splash    string
	uidCache  string
	extList   string
}

func loadSettings(root string) (*settings, error) {
	s := &settings{}
	path := filepath.Join(root, SettingsFile)
	if _, err := os.Stat(path); err != nil {
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", packforge.ErrConfigParse, err)
	}

	s.icon = v.GetString("application.icon")
	s.splash = v.GetString("application.boot_splash")
	s.uidCache = v.GetString("application.uid_cache")
	s.extList = v.GetString("application.extension_list")

	autoloads := v.GetStringMapString("autoload")
	names := make([]string, 0, len(autoloads))
	for name := range autoloads {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.autoloads = append(s.autoloads, autoloads[name])
	}
	return s, nil
}

func (s *settings) Autoloads() []string       { return s.autoloads }
func (s *settings) IconPath() string          { return s.icon }
func (s *settings) SplashPath() string        { return s.splash }
func (s *settings) UIDCachePath() string      { return s.uidCache }
func (s *settings) ExtensionListPath() string { return s.extList }

// SaveSnapshot writes a plain-text settings snapshot listing the active
// custom feature tags and the path-remap table.
func (s *settings) SaveSnapshot(dst string, customFeatures []string, remaps []packforge.Remap) error {
	var b strings.Builder
	b.WriteString("[features]\n")
	b.WriteString("custom=" + strings.Join(customFeatures, ",") + "\n")
	if len(remaps) > 0 {
		b.WriteString("\n[path_remap]\n")
		for _, rm := range remaps {
			fmt.Fprintf(&b, "%s=%s\n", rm.From, rm.To)
		}
	}
	return os.WriteFile(dst, []byte(b.String()), 0o644)
}
