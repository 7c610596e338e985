package pck

import (
	"bufio"
	"bytes"
	"crypto/md5" //nolint:gosec // entry hashes are integrity checksums, not security
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Reader sentinel errors.
var (
	// ErrBadMagic is returned when a file is not a pack container.
	ErrBadMagic = errors.New("pck: bad magic")

	// ErrBadVersion is returned for an unsupported format version.
	ErrBadVersion = errors.New("pck: unsupported format version")

	// ErrHashMismatch is returned when file content does not match its
	// recorded hash.
	ErrHashMismatch = errors.New("pck: hash verification failed")

	// ErrEncrypted is returned when reading encrypted content without a key.
	ErrEncrypted = errors.New("pck: encrypted content requires a key")

	// ErrNotFound is returned when a path is not in the directory.
	ErrNotFound = errors.New("pck: path not found")
)

// Reader parses a pack directory and reads file bodies by recorded
// offset and size. It handles both standalone packs and packs embedded in a
// host binary via the size/magic trailer.
type Reader struct {
	f       *os.File
	entries []Entry
	version Version
	format  uint32
	base    uint64
	dirEnc  bool
	layer   *AESLayer
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// ReadWithKey supplies the 32-byte AES key for encrypted directories and
// file bodies.
func ReadWithKey(key []byte) ReaderOption {
	return func(r *Reader) {
		if len(key) == KeySize {
			r.layer = &AESLayer{key: key}
		}
	}
}

// Open opens a pack file or a host binary with an embedded pack.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{f: f}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.load(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) load() error {
	start, err := r.findStart()
	if err != nil {
		return err
	}

	hdr := make([]byte, 100)
	if _, err := r.f.ReadAt(hdr, start); err != nil {
		return fmt.Errorf("read pack header: %w", err)
	}
	le := binary.LittleEndian
	if le.Uint32(hdr[0:]) != Magic {
		return ErrBadMagic
	}
	r.format = le.Uint32(hdr[4:])
	if r.format != FormatVersion {
		return fmt.Errorf("%w: %d", ErrBadVersion, r.format)
	}
	r.version = Version{
		Major: le.Uint32(hdr[8:]),
		Minor: le.Uint32(hdr[12:]),
		Patch: le.Uint32(hdr[16:]),
	}
	flags := le.Uint32(hdr[20:])
	r.dirEnc = flags&flagDirEncrypted != 0
	r.base = le.Uint64(hdr[24:])
	count := le.Uint32(hdr[96:])

	if _, err := r.f.Seek(start+int64(len(hdr)), io.SeekStart); err != nil {
		return err
	}
	var dir io.Reader = bufio.NewReader(r.f)
	if r.dirEnc {
		if r.layer == nil {
			return fmt.Errorf("%w: directory", ErrEncrypted)
		}
		dir, err = r.layer.Unwrap(dir)
		if err != nil {
			return err
		}
	}

	r.entries = make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := readEntry(dir)
		if err != nil {
			return fmt.Errorf("read directory entry %d: %w", i, err)
		}
		r.entries = append(r.entries, e)
	}
	return nil
}

// findStart locates the pack header: at offset zero for a standalone pack,
// otherwise via the embedded trailer at the end of the host binary.
func (r *Reader) findStart() (int64, error) {
	var magicBuf [4]byte
	if _, err := r.f.ReadAt(magicBuf[:], 0); err != nil {
		return 0, fmt.Errorf("read pack header: %w", err)
	}
	if binary.LittleEndian.Uint32(magicBuf[:]) == Magic {
		return 0, nil
	}

	end, err := r.f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if end < trailerSize {
		return 0, ErrBadMagic
	}
	var trailer [trailerSize]byte
	if _, err := r.f.ReadAt(trailer[:], end-trailerSize); err != nil {
		return 0, err
	}
	if binary.LittleEndian.Uint32(trailer[8:]) != Magic {
		return 0, ErrBadMagic
	}
	size := binary.LittleEndian.Uint64(trailer[0:])
	start := end - trailerSize - int64(size)
	if start < 0 {
		return 0, ErrBadMagic
	}
	return start, nil
}

func readEntry(src io.Reader) (Entry, error) {
	le := binary.LittleEndian
	var lenBuf [4]byte
	if _, err := io.ReadFull(src, lenBuf[:]); err != nil {
		return Entry{}, err
	}
	pathBuf := make([]byte, le.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(src, pathBuf); err != nil {
		return Entry{}, err
	}

	var rest [36]byte // offset 8 + size 8 + hash 16 + flags 4
	if _, err := io.ReadFull(src, rest[:]); err != nil {
		return Entry{}, err
	}
	e := Entry{
		Path:      string(bytes.TrimRight(pathBuf, "\x00")),
		Offset:    le.Uint64(rest[0:]),
		Size:      le.Uint64(rest[8:]),
		Encrypted: le.Uint32(rest[32:])&EntryFlagEncrypted != 0,
	}
	copy(e.Hash[:], rest[16:32])
	return e, nil
}

// Version returns the engine version recorded in the header.
func (r *Reader) Version() Version {
	return r.version
}

// Format returns the container format revision.
func (r *Reader) Format() uint32 {
	return r.format
}

// DirEncrypted reports whether the directory region was encrypted.
func (r *Reader) DirEncrypted() bool {
	return r.dirEnc
}

// Entries returns the directory in its stored, path-sorted order.
// Callers must not modify the returned slice.
func (r *Reader) Entries() []Entry {
	return r.entries
}

// Lookup finds the entry for path via binary search over the sorted
// directory.
func (r *Reader) Lookup(path string) (Entry, bool) {
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].Path >= path
	})
	if i < len(r.entries) && r.entries[i].Path == path {
		return r.entries[i], true
	}
	return Entry{}, false
}

// ReadFile returns the plaintext content of path, decrypting when needed and
// verifying the recorded hash.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	e, ok := r.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return r.ReadEntry(e)
}

// ReadEntry returns the plaintext content of a directory entry.
func (r *Reader) ReadEntry(e Entry) ([]byte, error) {
	diskLen := e.Size
	if e.Encrypted {
		diskLen += ivSize
	}
	src := io.NewSectionReader(r.f, int64(r.base+e.Offset), int64(diskLen))

	var body io.Reader = src
	if e.Encrypted {
		if r.layer == nil {
			return nil, fmt.Errorf("%w: %s", ErrEncrypted, e.Path)
		}
		var err error
		body, err = r.layer.Unwrap(src)
		if err != nil {
			return nil, err
		}
	}

	data := make([]byte, e.Size)
	if _, err := io.ReadFull(body, data); err != nil {
		return nil, fmt.Errorf("read %s: %w", e.Path, err)
	}
	if md5.Sum(data) != e.Hash { //nolint:gosec // integrity checksum
		return nil, fmt.Errorf("%w: %s", ErrHashMismatch, e.Path)
	}
	return data, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
