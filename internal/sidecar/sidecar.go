// Package sidecar parses import-metadata sidecar files (`<path>.import`).
//
// A sidecar records how a source asset maps to one or more importer-produced
// artifact paths. The format is INI-shaped: a [remap] section with an
// `importer` name and `path` keys, where a key may be feature-qualified as
// `path.<feature>`. Dotted key names are plain keys, not nested tables, which
// is why this package parses with an INI reader.
package sidecar

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ImporterKeep is the sentinel importer name meaning the source file ships
// unchanged, bypassing remap resolution entirely.
const ImporterKeep = "keep"

// File is a parsed import sidecar.
type File struct {
	importer string
	remaps   []Remap
}

// Remap is one entry of the [remap] section.
type Remap struct {
	// Key is the raw key name: "path" or "path.<feature>".
	Key string
	// Feature is the qualifier after "path.", empty for the bare key.
	Feature string
	// Target is the artifact path the key maps to.
	Target string
}

// Parse reads a sidecar from its raw bytes.
func Parse(data []byte) (*File, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, fmt.Errorf("parse sidecar: %w", err)
	}

	sec := cfg.Section("remap")
	f := &File{importer: sec.Key("importer").String()}

	for _, key := range sec.Keys() {
		name := key.Name()
		if name != "path" && !strings.HasPrefix(name, "path.") {
			continue
		}
		r := Remap{Key: name, Target: key.String()}
		if rest, ok := strings.CutPrefix(name, "path."); ok {
			r.Feature = rest
		}
		f.remaps = append(f.remaps, r)
	}

	return f, nil
}

// Importer returns the declared importer name.
func (f *File) Importer() string {
	return f.importer
}

// Keep reports whether the sidecar declares the "keep" sentinel importer.
func (f *File) Keep() bool {
	return f.importer == ImporterKeep
}

// Remaps returns the [remap] path entries in file order.
func (f *File) Remaps() []Remap {
	return f.remaps
}
