// Package ziparchive writes the export record stream as a deflate-compressed
// ZIP archive instead of the binary pack container.
package ziparchive

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/packforge/packforge/internal/pathutil"
)

// Writer emits one deflate entry per export record, keyed by the record path
// with the virtual-path scheme stripped. Encryption is not supported for the
// ZIP output.
type Writer struct {
	zw *zip.Writer
}

// NewWriter wraps w in a ZIP encoder.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{zw: zw}
}

// Save writes one record as a compressed archive entry.
func (w *Writer) Save(path string, data []byte) error {
	fw, err := w.zw.Create(pathutil.TrimScheme(path))
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

// Close finalizes the central directory. The archive is closed even after a
// failed export, so a best-effort archive is always well-formed.
func (w *Writer) Close() error {
	return w.zw.Close()
}
