// Package fileutil provides low-level stream helpers shared by the pack and
// archive writers.
package fileutil

import (
	"context"
	"errors"
	"io"
)

// ErrOverflow is returned when a byte count exceeds the uint64 range.
var ErrOverflow = errors.New("fileutil: byte count overflow")

// CopyWithContext copies from src to dst until EOF or error, checking for
// context cancellation between reads. It returns the number of bytes written.
func CopyWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (uint64, error) {
	var written uint64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw > 0 {
				if written > ^uint64(0)-uint64(nw) {
					return written, ErrOverflow
				}
				written += uint64(nw)
			}
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return written, nil
			}
			return written, er
		}
	}
}

// CountingWriter wraps an io.Writer and counts bytes written.
type CountingWriter struct {
	W io.Writer
	N uint64
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	cw.N += uint64(n)
	return n, err
}
