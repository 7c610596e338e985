package pck

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // entry hashes are integrity checksums, not security
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/packforge/packforge/internal/fileutil"
)

// ErrCantCreate is returned when the scratch stream, destination file, or an
// encryption layer cannot be created.
var ErrCantCreate = errors.New("pck: cannot create file")

// Writer builds a pack in two phases: file bodies are appended to a private
// scratch stream while the entry table accumulates, then Finalize writes the
// header and directory to the destination and concatenates the bodies.
//
// A Writer is owned by exactly one export run. The scratch path is namespaced
// per invocation, so concurrent exports on the same host stay independent.
type Writer struct {
	scratch   *os.File
	pos       uint64
	entries   []Entry
	padSource io.Reader
	fileLayer Layer
	finalized bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPadSource sets the source of alignment padding bytes.
// The default is crypto/rand. Tests use a deterministic source.
func WithPadSource(r io.Reader) WriterOption {
	return func(w *Writer) {
		w.padSource = r
	}
}

// WithFileLayer sets the encryption layer applied to bodies of records whose
// encrypted flag is set. Without a layer, encrypted flags are rejected.
func WithFileLayer(l Layer) WriterOption {
	return func(w *Writer) {
		w.fileLayer = l
	}
}

// NewWriter opens a fresh scratch stream in scratchDir (the default temp
// directory when empty).
func NewWriter(scratchDir string, opts ...WriterOption) (*Writer, error) {
	f, err := os.CreateTemp(scratchDir, "pck-scratch-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	w := &Writer{scratch: f, padSource: rand.Reader}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add appends one file body to the scratch stream and records its entry.
//
// The body is optionally passed through the per-file encryption layer, then
// the unencrypted stream position is padded up to the next 16-byte boundary
// with bytes from the pad source. Padding is always plaintext, appended after
// the per-file layer is closed. The recorded size is the exact plaintext
// length and the hash covers the plaintext bytes.
func (w *Writer) Add(path string, data []byte, encrypt bool) error {
	entry := Entry{
		Path:      path,
		Offset:    w.pos,
		Size:      uint64(len(data)),
		Hash:      md5.Sum(data), //nolint:gosec // integrity checksum
		Encrypted: encrypt,
	}

	if encrypt {
		if w.fileLayer == nil {
			return fmt.Errorf("%w: no encryption layer configured", ErrCantCreate)
		}
		wc, err := w.fileLayer.Wrap(w.scratch)
		if err != nil {
			return fmt.Errorf("%w: encryption layer: %v", ErrCantCreate, err)
		}
		if _, err := wc.Write(data); err != nil {
			return err
		}
		if err := wc.Close(); err != nil {
			return err
		}
		w.pos += ivSize + uint64(len(data))
	} else {
		if _, err := w.scratch.Write(data); err != nil {
			return err
		}
		w.pos += uint64(len(data))
	}

	if err := w.writePad(w.scratch, pad(BodyAlign, w.pos)); err != nil {
		return err
	}

	w.entries = append(w.entries, entry)
	return nil
}

const ivSize = 16

// writePad copies n bytes from the pad source to dst and advances pos.
func (w *Writer) writePad(dst io.Writer, n uint64) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(dst, w.padSource, int64(n)); err != nil {
		return fmt.Errorf("write padding: %w", err)
	}
	w.pos += n
	return nil
}

// FinalizeOptions controls the destination layout.
type FinalizeOptions struct {
	// Version is the engine version recorded in the header.
	Version Version

	// Embed appends the pack to the existing binary at the destination
	// path instead of producing a standalone pack file.
	Embed bool

	// DirLayers is the ordered list of transform layers applied to the
	// directory region. A non-empty list sets the directory-encrypted
	// header flag.
	DirLayers []Layer
}

// Result reports the finalized layout.
type Result struct {
	// Size is the total pack size in bytes, trailer included when embedded.
	Size int64

	// EmbedStart is the absolute offset of the embedded region, -1 when
	// not embedding.
	EmbedStart int64

	// EmbedSize is the total embedded byte span, -1 when not embedding.
	EmbedSize int64
}

// Finalize writes the header, the path-sorted directory, and the body region
// to dest, then discards the scratch stream.
//
// For a standalone pack the bytes are staged in a temporary file beside dest
// and renamed into place, so no partial pack is ever left at the destination.
// In embed mode dest must be an existing host binary; it is extended in
// place, which can leave it partially modified on failure.
func (w *Writer) Finalize(ctx context.Context, dest string, opts FinalizeOptions) (Result, error) {
	if w.finalized {
		return Result{}, errors.New("pck: writer already finalized")
	}
	w.finalized = true
	defer w.discardScratch()

	// Directory order is for binary-searchable lookup by readers; body
	// order stays as written.
	slices.SortFunc(w.entries, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	if opts.Embed {
		return w.finalizeInto(ctx, dest, opts, true)
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".pck-out-*")
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	res, err := w.finalizeInto(ctx, tmpPath, opts, false)
	if err != nil {
		os.Remove(tmpPath)
		return Result{}, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return Result{}, fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	return res, nil
}

func (w *Writer) finalizeInto(ctx context.Context, dest string, opts FinalizeOptions, embed bool) (Result, error) {
	var (
		f   *os.File
		err error
	)
	if embed {
		f, err = os.OpenFile(dest, os.O_RDWR, 0)
	} else {
		f, err = os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC, 0o644)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCantCreate, err)
	}
	defer f.Close()

	var embedStart int64
	if embed {
		end, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			return Result{}, err
		}
		// The embedded region starts on an 8-byte boundary.
		if _, err := f.Write(make([]byte, pad(EmbedAlign, uint64(end)))); err != nil {
			return Result{}, err
		}
		embedStart = end
	}

	packStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, err
	}

	if err := w.writeHeaderAndDirectory(f, opts); err != nil {
		return Result{}, err
	}

	if err := w.copyBodies(ctx, f); err != nil {
		return Result{}, err
	}

	res := Result{EmbedStart: -1, EmbedSize: -1}
	endPos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, err
	}

	if embed {
		// Pad so the end of the 12-byte trailer lands on an 8-byte
		// boundary relative to the embed start.
		tail := uint64(endPos-embedStart) + trailerSize
		if _, err := f.Write(make([]byte, pad(EmbedAlign, tail))); err != nil {
			return Result{}, err
		}
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return Result{}, err
		}
		var trailer [trailerSize]byte
		binary.LittleEndian.PutUint64(trailer[0:], uint64(pos-packStart))
		binary.LittleEndian.PutUint32(trailer[8:], Magic)
		if _, err := f.Write(trailer[:]); err != nil {
			return Result{}, err
		}
		endPos = pos + trailerSize
		res.EmbedStart = embedStart
		res.EmbedSize = endPos - embedStart
	}

	if err := f.Sync(); err != nil {
		return Result{}, err
	}
	res.Size = endPos - packStart
	return res, nil
}

// writeHeaderAndDirectory emits the fixed header, the entry table with the
// requested directory layers applied, alignment padding, and patches the
// body base offset placeholder.
func (w *Writer) writeHeaderAndDirectory(f *os.File, opts FinalizeOptions) error {
	var flags uint32
	if len(opts.DirLayers) > 0 {
		flags |= flagDirEncrypted
	}

	var hdr bytes.Buffer
	le := binary.LittleEndian
	binary.Write(&hdr, le, Magic)
	binary.Write(&hdr, le, FormatVersion)
	binary.Write(&hdr, le, opts.Version.Major)
	binary.Write(&hdr, le, opts.Version.Minor)
	binary.Write(&hdr, le, opts.Version.Patch)
	binary.Write(&hdr, le, flags)

	baseOfsPos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	baseOfsPos += int64(hdr.Len())

	binary.Write(&hdr, le, uint64(0)) // body base, patched below
	hdr.Write(make([]byte, headerReservedWords*4))
	binary.Write(&hdr, le, uint32(len(w.entries)))
	if _, err := f.Write(hdr.Bytes()); err != nil {
		return err
	}

	dirW, err := WrapAll(f, opts.DirLayers)
	if err != nil {
		return fmt.Errorf("%w: directory layer: %v", ErrCantCreate, err)
	}
	for _, e := range w.entries {
		if err := writeEntry(dirW, e); err != nil {
			return err
		}
	}
	if err := dirW.Close(); err != nil {
		return err
	}

	// Pad the body base up to a 16-byte boundary, then patch the header
	// placeholder with the final base offset.
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	padN := pad(BodyAlign, uint64(pos))
	if padN > 0 {
		if _, err := io.CopyN(f, w.padSource, int64(padN)); err != nil {
			return fmt.Errorf("write padding: %w", err)
		}
	}
	base := uint64(pos) + padN

	var baseBuf [8]byte
	le.PutUint64(baseBuf[:], base)
	if _, err := f.WriteAt(baseBuf[:], baseOfsPos); err != nil {
		return err
	}
	if _, err := f.Seek(int64(base), io.SeekStart); err != nil {
		return err
	}
	return nil
}

func writeEntry(dst io.Writer, e Entry) error {
	le := binary.LittleEndian
	pathBytes := []byte(e.Path)
	padN := pad(4, uint64(len(pathBytes)))

	var buf bytes.Buffer
	binary.Write(&buf, le, uint32(len(pathBytes))+uint32(padN))
	buf.Write(pathBytes)
	buf.Write(make([]byte, padN))
	binary.Write(&buf, le, e.Offset)
	binary.Write(&buf, le, e.Size)
	buf.Write(e.Hash[:])
	var flags uint32
	if e.Encrypted {
		flags |= EntryFlagEncrypted
	}
	binary.Write(&buf, le, flags)

	_, err := dst.Write(buf.Bytes())
	return err
}

// copyBodies streams the scratch file into the destination at the body base.
func (w *Writer) copyBodies(ctx context.Context, f *os.File) error {
	if _, err := w.scratch.Seek(0, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, 32*1024)
	if _, err := fileutil.CopyWithContext(ctx, f, w.scratch, buf); err != nil {
		return fmt.Errorf("copy pack bodies: %w", err)
	}
	return nil
}

// Entries returns the entry table in its current order: arrival order before
// Finalize, path order after.
func (w *Writer) Entries() []Entry {
	return w.entries
}

// Close discards the scratch stream. Safe to call after Finalize.
func (w *Writer) Close() error {
	w.discardScratch()
	return nil
}

// discardScratch removes the scratch file, best-effort.
func (w *Writer) discardScratch() {
	if w.scratch == nil {
		return
	}
	name := w.scratch.Name()
	w.scratch.Close()
	os.Remove(name)
	w.scratch = nil
}
