// Package config loads export preset files.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/packforge/packforge"
)

// LoadPreset reads a preset file (YAML, TOML, or JSON, by extension) into a
// Preset. The export_filter field is a mode name: all_resources,
// selected_scenes, selected_resources, or exclude_selected.
func LoadPreset(path string) (*packforge.Preset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("export_filter", "all_resources")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", packforge.ErrConfigParse, err)
	}

	var p packforge.Preset
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", packforge.ErrConfigParse, err)
	}

	mode, err := packforge.ParseFilterMode(v.GetString("export_filter"))
	if err != nil {
		return nil, err
	}
	p.ExportFilter = mode
	return &p, nil
}
