// Package pathutil provides virtual-path manipulation and wildcard matching
// for project-root-relative archive paths.
package pathutil

import (
	"strings"

	"github.com/gobwas/glob"
)

// Scheme is the prefix of project-root-relative virtual paths.
const Scheme = "res://"

// TrimScheme strips the virtual-path scheme prefix, if present.
func TrimScheme(path string) string {
	return strings.TrimPrefix(path, Scheme)
}

// HasScheme reports whether path carries the virtual-path scheme prefix.
func HasScheme(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// SplitFilterList splits a comma-separated filter string into trimmed,
// non-empty entries.
func SplitFilterList(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Pattern is a compiled case-insensitive shell-style wildcard.
//
// Unlike path.Match, a `*` crosses path separators, so a bare filename
// pattern like `*.import` matches at any depth.
type Pattern struct {
	g glob.Glob
}

// Compile builds a Pattern from a shell-style wildcard string.
func Compile(pattern string) (Pattern, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{g: g}, nil
}

// MustCompile is like Compile but panics on a malformed pattern.
// Intended for fixed patterns known at compile time.
func MustCompile(pattern string) Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the pattern matches path, tested against both the
// full virtual path and the path with the scheme prefix stripped.
func (p Pattern) Match(path string) bool {
	lower := strings.ToLower(path)
	if p.g.Match(lower) {
		return true
	}
	return p.g.Match(strings.TrimPrefix(lower, Scheme))
}

// CompileList compiles every entry of a comma-separated filter string.
func CompileList(csv string) ([]Pattern, error) {
	entries := SplitFilterList(csv)
	if len(entries) == 0 {
		return nil, nil
	}
	patterns := make([]Pattern, 0, len(entries))
	for _, e := range entries {
		p, err := Compile(e)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// MatchAny reports whether any pattern in the list matches path.
func MatchAny(patterns []Pattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
