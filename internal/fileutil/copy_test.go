package fileutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyWithContext(t *testing.T) {
	src := strings.NewReader(strings.Repeat("payload ", 1000))
	var dst bytes.Buffer

	n, err := CopyWithContext(context.Background(), &dst, src, make([]byte, 64))
	require.NoError(t, err)
	assert.EqualValues(t, 8000, n)
	assert.Equal(t, strings.Repeat("payload ", 1000), dst.String())
}

func TestCopyWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := strings.NewReader("data")
	var dst bytes.Buffer
	_, err := CopyWithContext(ctx, &dst, src, make([]byte, 64))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountingWriter(t *testing.T) {
	var dst bytes.Buffer
	cw := &CountingWriter{W: &dst}

	_, err := cw.Write([]byte("12345"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("678"))
	require.NoError(t, err)

	assert.EqualValues(t, 8, cw.N)
	assert.Equal(t, "12345678", dst.String())
}
