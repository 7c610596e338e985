package sidecar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemaps(t *testing.T) {
	data := []byte(`[remap]

importer="texture"
type="CompressedTexture2D"
path.s3tc="res://.import/rock.png-abc.s3tc.ctex"
path.etc2="res://.import/rock.png-abc.etc2.ctex"
metadata={"imported_formats": ["s3tc", "etc2"]}

[params]

compress/mode=0
`)
	f, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "texture", f.Importer())
	assert.False(t, f.Keep())

	remaps := f.Remaps()
	require.Len(t, remaps, 2)
	assert.Equal(t, Remap{Key: "path.s3tc", Feature: "s3tc", Target: "res://.import/rock.png-abc.s3tc.ctex"}, remaps[0])
	assert.Equal(t, Remap{Key: "path.etc2", Feature: "etc2", Target: "res://.import/rock.png-abc.etc2.ctex"}, remaps[1])
}

func TestParseBarePathKey(t *testing.T) {
	data := []byte(`[remap]
importer="wav"
path="res://.import/jump.wav-123.sample"
`)
	f, err := Parse(data)
	require.NoError(t, err)

	remaps := f.Remaps()
	require.Len(t, remaps, 1)
	assert.Equal(t, "path", remaps[0].Key)
	assert.Empty(t, remaps[0].Feature)
	assert.Equal(t, "res://.import/jump.wav-123.sample", remaps[0].Target)
}

func TestParseKeepImporter(t *testing.T) {
	f, err := Parse([]byte("[remap]\nimporter=\"keep\"\n"))
	require.NoError(t, err)
	assert.True(t, f.Keep())
	assert.Empty(t, f.Remaps())
}

func TestParseIgnoresUnrelatedKeys(t *testing.T) {
	f, err := Parse([]byte("[remap]\nimporter=\"scene\"\npathfinder=\"x\"\nuid=\"uid://abc\"\n"))
	require.NoError(t, err)
	assert.Empty(t, f.Remaps())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("[remap\nimporter"))
	assert.Error(t, err)
}
