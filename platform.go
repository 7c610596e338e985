package packforge

// FixupFunc patches a host binary's platform-specific lookup trailer after a
// pack has been embedded at the given offset and size.
type FixupFunc func(executablePath string, offset, size int64) error

// Platform supplies the platform-specific pieces of an export run.
type Platform interface {
	// Features returns the platform feature tags.
	Features() []string

	// PresetFeatures returns additional tags derived from the preset.
	PresetFeatures(p *Preset) []string

	// ResolveFeaturePriorities is the tie-break hook invoked when more
	// than one feature-qualified import variant is simultaneously active.
	// Implementations prune the active set; whatever remains is emitted.
	ResolveFeaturePriorities(p *Preset, active map[string]struct{})

	// FixupEmbeddedPack patches the host binary after an embed run.
	FixupEmbeddedPack(executablePath string, offset, size int64) error
}

// GenericPlatform is a Platform with fixed feature tags, an optional extra
// preset-feature hook, and an optional embed fixup. The tie-break default
// keeps all simultaneously active variants.
type GenericPlatform struct {
	Name       string
	Tags       []string
	PresetTags func(p *Preset) []string
	Fixup      FixupFunc
}

// Features implements Platform.
func (g *GenericPlatform) Features() []string {
	return g.Tags
}

// PresetFeatures implements Platform.
func (g *GenericPlatform) PresetFeatures(p *Preset) []string {
	if g.PresetTags == nil {
		return p.FeatureTags
	}
	return g.PresetTags(p)
}

// ResolveFeaturePriorities implements Platform. The generic platform keeps
// every active variant.
func (g *GenericPlatform) ResolveFeaturePriorities(_ *Preset, _ map[string]struct{}) {}

// FixupEmbeddedPack implements Platform.
func (g *GenericPlatform) FixupEmbeddedPack(executablePath string, offset, size int64) error {
	if g.Fixup == nil {
		return nil
	}
	return g.Fixup(executablePath, offset, size)
}
