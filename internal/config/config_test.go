package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packforge/packforge"
)

func writePreset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPresetYAML(t *testing.T) {
	path := writePreset(t, "preset.yaml", `
name: linux-release
export_filter: selected_scenes
export_files:
  - res://scenes/main.tscn
include_filter: "*.json"
exclude_filter: "*.secret"
feature_tags: [linux, x86_64]
custom_features: "etc2, s3tc"
encrypt_pck: true
encrypt_directory: true
encrypt_in_filter: "*.tres"
encryption_key: "0000000000000000000000000000000000000000000000000000000000000000"
`)
	p, err := LoadPreset(path)
	require.NoError(t, err)

	assert.Equal(t, "linux-release", p.Name)
	assert.Equal(t, packforge.ExportSelectedScenes, p.ExportFilter)
	assert.Equal(t, []string{"res://scenes/main.tscn"}, p.ExportFiles)
	assert.Equal(t, "*.json", p.IncludeFilter)
	assert.Equal(t, "*.secret", p.ExcludeFilter)
	assert.Equal(t, []string{"linux", "x86_64"}, p.FeatureTags)
	assert.Equal(t, "etc2, s3tc", p.CustomFeatures)
	assert.True(t, p.EncryptPack)
	assert.True(t, p.EncryptDirectory)
	assert.Equal(t, "*.tres", p.EncryptInFilter)
}

func TestLoadPresetDefaultsToAllResources(t *testing.T) {
	path := writePreset(t, "preset.yaml", "name: bare\n")
	p, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, packforge.ExportAllResources, p.ExportFilter)
}

func TestLoadPresetBadFilterMode(t *testing.T) {
	path := writePreset(t, "preset.yaml", "export_filter: everything\n")
	_, err := LoadPreset(path)
	assert.Error(t, err)
}

func TestLoadPresetMalformed(t *testing.T) {
	path := writePreset(t, "preset.yaml", "::: not yaml :::")
	_, err := LoadPreset(path)
	assert.ErrorIs(t, err, packforge.ErrConfigParse)
}

func TestLoadPresetMissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, packforge.ErrConfigParse)
}
