package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimScheme(t *testing.T) {
	assert.Equal(t, "a/b.png", TrimScheme("res://a/b.png"))
	assert.Equal(t, "a/b.png", TrimScheme("a/b.png"))
}

func TestSplitFilterList(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "empty", csv: "", want: nil},
		{name: "single", csv: "*.png", want: []string{"*.png"}},
		{name: "trims and drops empties", csv: " *.png , ,*.jpg,", want: []string{"*.png", "*.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFilterList(tt.csv))
		})
	}
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "wildcard crosses separators", pattern: "*.import", path: "res://a/b/c.png.import", want: true},
		{name: "bare filename is a full match", pattern: "file.txt", path: "res://file.txt", want: true},
		{name: "bare filename needs wildcard for depth", pattern: "file.txt", path: "res://deep/dir/file.txt", want: false},
		{name: "case insensitive", pattern: "*.TRES", path: "res://materials/rock.tres", want: true},
		{name: "scheme-stripped test", pattern: "a/*.png", path: "res://a/x.png", want: true},
		{name: "no match", pattern: "*.png", path: "res://a/x.jpg", want: false},
		{name: "question mark", pattern: "res://?.txt", path: "res://a.txt", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.path))
		})
	}
}

func TestCompileList(t *testing.T) {
	patterns, err := CompileList("*.png, *.jpg")
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	assert.True(t, MatchAny(patterns, "res://icon.png"))
	assert.True(t, MatchAny(patterns, "res://photo.JPG"))
	assert.False(t, MatchAny(patterns, "res://model.obj"))

	empty, err := CompileList("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.False(t, MatchAny(empty, "res://icon.png"))
}
