package pck

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// Layer transforms a byte stream on its way to or from a sink. Layers are
// applied as an explicit ordered list, each independently toggleable, rather
// than by conditional nested wrapper construction.
type Layer interface {
	// Wrap returns a writer that transforms bytes before they reach w.
	// Closing the returned writer flushes the transform, not w itself.
	Wrap(w io.Writer) (io.WriteCloser, error)

	// Unwrap returns a reader that reverses the transform applied by Wrap.
	Unwrap(r io.Reader) (io.Reader, error)
}

// AESLayer encrypts a stream with AES-256-CTR. Each wrapped stream begins
// with a fresh 16-byte IV drawn from Rand.
type AESLayer struct {
	key  []byte
	rand io.Reader
}

// NewAESLayer builds an AES layer from a 32-byte key. IVs are drawn from
// rand, which must not be nil.
func NewAESLayer(key []byte, rand io.Reader) (*AESLayer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return &AESLayer{key: key, rand: rand}, nil
}

// Wrap implements Layer. The IV is written to w before any payload bytes.
func (l *AESLayer) Wrap(w io.Writer) (io.WriteCloser, error) {
	block, err := aes.NewCipher(l.key)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(l.rand, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	if _, err := w.Write(iv); err != nil {
		return nil, err
	}
	return nopWriteCloser{cipher.StreamWriter{S: cipher.NewCTR(block, iv), W: w}}, nil
}

// Unwrap implements Layer. It consumes the 16-byte IV from r.
func (l *AESLayer) Unwrap(r io.Reader) (io.Reader, error) {
	block, err := aes.NewCipher(l.key)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, fmt.Errorf("read iv: %w", err)
	}
	return cipher.StreamReader{S: cipher.NewCTR(block, iv), R: r}, nil
}

// nopWriteCloser closes the transform without closing the underlying sink.
// CTR is a stream cipher; there is nothing to flush.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// WrapAll applies layers to w in order. The returned closer finalizes the
// layers in reverse order without closing w.
func WrapAll(w io.Writer, layers []Layer) (io.WriteCloser, error) {
	cur := w
	closers := make([]io.Closer, 0, len(layers))
	for _, l := range layers {
		wc, err := l.Wrap(cur)
		if err != nil {
			return nil, err
		}
		closers = append(closers, wc)
		cur = wc
	}
	return &layeredWriter{w: cur, closers: closers}, nil
}

// UnwrapAll reverses layers applied by WrapAll, outermost first.
func UnwrapAll(r io.Reader, layers []Layer) (io.Reader, error) {
	cur := r
	for _, l := range layers {
		var err error
		cur, err = l.Unwrap(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

type layeredWriter struct {
	w       io.Writer
	closers []io.Closer
}

func (lw *layeredWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw *layeredWriter) Close() error {
	for i := len(lw.closers) - 1; i >= 0; i-- {
		if err := lw.closers[i].Close(); err != nil {
			return err
		}
	}
	return nil
}
