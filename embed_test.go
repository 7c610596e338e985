package packforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopySharedObjects(t *testing.T) {
	srcDir := t.TempDir()
	libA := filepath.Join(srcDir, "liba.so")
	libB := filepath.Join(srcDir, "libb.so")
	require.NoError(t, os.WriteFile(libA, []byte("lib a"), 0o644))
	require.NoError(t, os.WriteFile(libB, []byte("lib b"), 0o644))

	destDir := t.TempDir()
	objects := []SharedObject{
		{Path: libA, Target: "libs"},
		{Path: libB},
	}
	require.NoError(t, CopySharedObjects(context.Background(), destDir, objects, 0))

	data, err := os.ReadFile(filepath.Join(destDir, "libs", "liba.so"))
	require.NoError(t, err)
	assert.Equal(t, []byte("lib a"), data)

	data, err = os.ReadFile(filepath.Join(destDir, "libb.so"))
	require.NoError(t, err)
	assert.Equal(t, []byte("lib b"), data)
}

func TestCopySharedObjectsMissingSource(t *testing.T) {
	objects := []SharedObject{{Path: filepath.Join(t.TempDir(), "missing.so")}}
	err := CopySharedObjects(context.Background(), t.TempDir(), objects, 2)
	assert.ErrorIs(t, err, ErrPath)
}
