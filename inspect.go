package packforge

import (
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/packforge/packforge/internal/pck"
)

// Entry describes one file in a pack directory.
type Entry = pck.Entry

// PackReader provides read access to a produced pack: its directory and
// hash-verified per-entry content. It handles standalone packs and packs
// embedded in a host binary.
type PackReader = pck.Reader

// OpenPack opens a pack for reading. key supplies the AES key for encrypted
// directories and file bodies; nil is fine for unencrypted packs.
func OpenPack(path string, key []byte) (*PackReader, error) {
	return pck.Open(path, pck.ReadWithKey(key))
}

// PackInfo summarizes a pack for inspection.
type PackInfo struct {
	// FormatVersion is the container format revision.
	FormatVersion uint32

	// Version is the engine version recorded in the header.
	Version Version

	// DirEncrypted reports whether the directory region is encrypted.
	DirEncrypted bool

	// Entries is the directory in stored, path-sorted order.
	Entries []Entry

	// Digest is the SHA-256 digest of the container file.
	Digest digest.Digest
}

// Inspect reads a pack's directory and digests the container file.
func Inspect(path string, key []byte) (*PackInfo, error) {
	r, err := OpenPack(path, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPath, err)
	}
	defer f.Close()
	dgst, err := digest.SHA256.FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("digest pack: %w", err)
	}

	return &PackInfo{
		FormatVersion: r.Format(),
		Version:       r.Version(),
		DirEncrypted:  r.DirEncrypted(),
		Entries:       r.Entries(),
		Digest:        dgst,
	}, nil
}

// VerifyPack reads every entry of the pack at path and checks its recorded
// hash.
func VerifyPack(path string, key []byte) error {
	r, err := OpenPack(path, key)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, e := range r.Entries() {
		if _, err := r.ReadEntry(e); err != nil {
			return err
		}
	}
	return nil
}
