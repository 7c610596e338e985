package packforge

import "fmt"

// FilterMode selects which project files an export preset ships.
type FilterMode int

const (
	// ExportAllResources ships every indexed file except plain text assets.
	ExportAllResources FilterMode = iota

	// ExportSelectedScenes ships the dependency closure of the selected
	// packed scenes.
	ExportSelectedScenes

	// ExportSelectedResources ships the dependency closure of all selected
	// files.
	ExportSelectedResources

	// ExcludeSelectedResources ships everything except the selected files.
	ExcludeSelectedResources
)

func (m FilterMode) String() string {
	switch m {
	case ExportAllResources:
		return "all_resources"
	case ExportSelectedScenes:
		return "selected_scenes"
	case ExportSelectedResources:
		return "selected_resources"
	case ExcludeSelectedResources:
		return "exclude_selected"
	default:
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
}

// ParseFilterMode converts a configuration string to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "all_resources", "all":
		return ExportAllResources, nil
	case "selected_scenes", "scenes":
		return ExportSelectedScenes, nil
	case "selected_resources", "resources":
		return ExportSelectedResources, nil
	case "exclude_selected", "exclude":
		return ExcludeSelectedResources, nil
	default:
		return 0, fmt.Errorf("%w: unknown filter mode %q", ErrConfigParse, s)
	}
}

// Preset holds the per-target export configuration the core consumes.
type Preset struct {
	// Name identifies the preset in logs and configuration.
	Name string `mapstructure:"name"`

	// ExportFilter selects the file-selection mode.
	ExportFilter FilterMode `mapstructure:"-"`

	// ExportFiles is the manual selection consumed by the selected-scenes,
	// selected-resources, and exclude-selected modes.
	ExportFiles []string `mapstructure:"export_files"`

	// IncludeFilter and ExcludeFilter are comma-separated wildcard lists
	// applied after mode resolution.
	IncludeFilter string `mapstructure:"include_filter"`
	ExcludeFilter string `mapstructure:"exclude_filter"`

	// FeatureTags are preset-declared feature tags.
	FeatureTags []string `mapstructure:"feature_tags"`

	// CustomFeatures is a comma-separated list of user feature tags.
	CustomFeatures string `mapstructure:"custom_features"`

	// EncryptPack enables per-file encryption for records matching the
	// encryption filters.
	EncryptPack bool `mapstructure:"encrypt_pck"`

	// EncryptDirectory additionally encrypts the pack directory region.
	EncryptDirectory bool `mapstructure:"encrypt_directory"`

	// EncryptInFilter and EncryptExFilter are comma-separated wildcard
	// lists deciding which records are encrypted. Exclude wins over
	// include when both match.
	EncryptInFilter string `mapstructure:"encrypt_in_filter"`
	EncryptExFilter string `mapstructure:"encrypt_ex_filter"`

	// EncryptionKey is the AES-256 key as 64 hexadecimal characters.
	// A malformed key is a reported configuration error.
	EncryptionKey string `mapstructure:"encryption_key"`
}
