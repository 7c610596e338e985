package packforge

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedPaths(t *testing.T, preset *Preset, proj *Project) []string {
	t.Helper()
	paths, err := resolveExportPaths(preset, proj)
	require.NoError(t, err)
	return slices.Sorted(maps.Keys(paths))
}

func TestResolveAllResourcesSkipsTextAssets(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://a.tres":    "a",
			"res://notes.txt": "notes",
		},
		map[string]string{
			"res://a.tres":    "Resource",
			"res://notes.txt": TypePlainText,
		},
		nil, nil,
	)
	preset := &Preset{ExportFilter: ExportAllResources}

	assert.Equal(t, []string{"res://a.tres"}, resolvedPaths(t, preset, proj))
}

func TestResolveExcludeSelected(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://a.tres": "a",
			"res://b.tres": "b",
			"res://c.tres": "c",
		},
		map[string]string{
			"res://a.tres": "Resource",
			"res://b.tres": "Resource",
			"res://c.tres": "Resource",
		},
		nil, nil,
	)
	preset := &Preset{
		ExportFilter: ExcludeSelectedResources,
		ExportFiles:  []string{"res://b.tres"},
	}

	assert.Equal(t, []string{"res://a.tres", "res://c.tres"}, resolvedPaths(t, preset, proj))
}

func TestResolveSelectedScenesClosure(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://main.tscn":   "scene",
			"res://rock.png":    "rock",
			"res://helper.gd":   "script",
			"res://orphan.tres": "orphan",
			"res://auto.gd":     "autoload",
			"res://autodep.gd":  "autoload dep",
		},
		map[string]string{
			"res://main.tscn":   TypePackedScene,
			"res://rock.png":    "Texture",
			"res://helper.gd":   "Script",
			"res://orphan.tres": "Resource",
			"res://auto.gd":     "Script",
			"res://autodep.gd":  "Script",
		},
		map[string][]string{
			"res://main.tscn": {"res://rock.png"},
			"res://auto.gd":   {"res://autodep.gd"},
		},
		&memSettings{autoloads: []string{"*res://auto.gd"}},
	)
	preset := &Preset{
		ExportFilter: ExportSelectedScenes,
		// helper.gd is not a packed scene, so it is not a valid seed.
		ExportFiles: []string{"res://main.tscn", "res://helper.gd"},
	}

	assert.Equal(t, []string{
		"res://auto.gd",
		"res://autodep.gd",
		"res://main.tscn",
		"res://rock.png",
	}, resolvedPaths(t, preset, proj))
}

func TestResolveSelectedResourcesClosure(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://mat.tres": "mat",
			"res://tex.png":  "tex",
			"res://other.gd": "other",
		},
		map[string]string{
			"res://mat.tres": "Resource",
			"res://tex.png":  "Texture",
			"res://other.gd": "Script",
		},
		map[string][]string{
			"res://mat.tres": {"res://tex.png"},
		},
		nil,
	)
	preset := &Preset{
		ExportFilter: ExportSelectedResources,
		ExportFiles:  []string{"res://mat.tres"},
	}

	assert.Equal(t, []string{"res://mat.tres", "res://tex.png"}, resolvedPaths(t, preset, proj))
}

func TestResolveDependencyCycleTerminates(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://a.tres": "a",
			"res://b.tres": "b",
		},
		map[string]string{
			"res://a.tres": "Resource",
			"res://b.tres": "Resource",
		},
		map[string][]string{
			"res://a.tres": {"res://b.tres"},
			"res://b.tres": {"res://a.tres"},
		},
		nil,
	)
	preset := &Preset{
		ExportFilter: ExportSelectedResources,
		ExportFiles:  []string{"res://a.tres"},
	}

	assert.Equal(t, []string{"res://a.tres", "res://b.tres"}, resolvedPaths(t, preset, proj))
}

func TestResolveNativeIconAugmentation(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://x.tres":    "x",
			"res://app.ico":   "ico",
			"res://app.icns":  "icns",
			"res://other.png": "png",
		},
		map[string]string{"res://x.tres": "Resource"},
		nil, nil,
	)
	preset := &Preset{
		ExportFilter: ExportSelectedResources,
		ExportFiles:  []string{"res://x.tres"},
	}

	assert.Equal(t, []string{
		"res://app.icns",
		"res://app.ico",
		"res://x.tres",
	}, resolvedPaths(t, preset, proj))
}

func TestResolveIncludeExcludeFilters(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://a.tres":      "a",
			"res://secret.tres": "secret",
			"res://run.cfg":     "cfg",
		},
		map[string]string{
			"res://a.tres":      "Resource",
			"res://secret.tres": "Resource",
		},
		nil, nil,
	)
	preset := &Preset{
		ExportFilter:  ExportAllResources,
		IncludeFilter: "*.cfg",
		ExcludeFilter: "*secret*",
	}

	assert.Equal(t, []string{"res://a.tres", "res://run.cfg"}, resolvedPaths(t, preset, proj))
}

func TestResolveStripsImportSidecars(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://b.png":        "b",
			"res://b.png.import": "[remap]\nimporter=\"texture\"\n",
		},
		map[string]string{
			"res://b.png":        "Texture",
			"res://b.png.import": "Resource",
		},
		nil, nil,
	)
	preset := &Preset{ExportFilter: ExportAllResources}

	assert.Equal(t, []string{"res://b.png"}, resolvedPaths(t, preset, proj))
}

func TestResolveSkipsIndexedSkipDirectories(t *testing.T) {
	proj := newTestProject(
		map[string]string{
			"res://a.tres":           "a",
			"res://vendor/skip.cfg":  "skipped",
			"res://configs/keep.cfg": "kept",
		},
		map[string]string{"res://a.tres": "Resource"},
		nil, nil,
	)
	proj.Index.(*memIndex).skip = func(dir string) bool {
		return dir == "res://vendor/"
	}
	preset := &Preset{
		ExportFilter:  ExportAllResources,
		IncludeFilter: "*.cfg",
	}

	assert.Equal(t, []string{"res://a.tres", "res://configs/keep.cfg"}, resolvedPaths(t, preset, proj))
}

func TestResolveUnknownFilterMode(t *testing.T) {
	proj := newTestProject(
		map[string]string{"res://a.tres": "a"},
		map[string]string{"res://a.tres": "Resource"},
		nil, nil,
	)
	preset := &Preset{ExportFilter: FilterMode(42)}

	_, err := resolveExportPaths(preset, proj)
	assert.ErrorIs(t, err, ErrParameter)
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{in: "all_resources", want: ExportAllResources},
		{in: "all", want: ExportAllResources},
		{in: "selected_scenes", want: ExportSelectedScenes},
		{in: "selected_resources", want: ExportSelectedResources},
		{in: "exclude_selected", want: ExcludeSelectedResources},
		{in: "everything", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfigParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
