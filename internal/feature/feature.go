// Package feature resolves and holds the active feature-tag set for an
// export run.
package feature

import "github.com/packforge/packforge/internal/pathutil"

// Set holds active feature tags.
//
// Membership tests use the map; Ordered preserves first-seen append order for
// consumers that depend on composition order. Both representations always
// contain identical membership.
type Set struct {
	members map[string]struct{}
	ordered []string
}

// New returns an empty Set.
func New() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Resolve composes the active feature set for one export run.
//
// Composition order: platform tags, preset tags, exactly one of
// "debug"/"release", then trimmed non-empty entries of the comma-separated
// custom tag string. Duplicates collapse in the set; the ordered sequence
// still appends in the stated order.
func Resolve(platformTags, presetTags []string, debug bool, customCSV string) *Set {
	s := New()
	for _, tag := range platformTags {
		s.Add(tag)
	}
	for _, tag := range presetTags {
		s.Add(tag)
	}
	if debug {
		s.Add("debug")
	} else {
		s.Add("release")
	}
	for _, tag := range pathutil.SplitFilterList(customCSV) {
		s.Add(tag)
	}
	return s
}

// Add inserts a tag. Re-adding an existing tag is a no-op for the set but
// still appends to the ordered sequence, matching the composition contract.
func (s *Set) Add(tag string) {
	s.members[tag] = struct{}{}
	s.ordered = append(s.ordered, tag)
}

// Has reports whether tag is active.
func (s *Set) Has(tag string) bool {
	_, ok := s.members[tag]
	return ok
}

// Ordered returns the tags in composition order, including any duplicate
// appends. Callers must not modify the returned slice.
func (s *Set) Ordered() []string {
	return s.ordered
}

// Len returns the number of distinct tags.
func (s *Set) Len() int {
	return len(s.members)
}
