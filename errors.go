package packforge

import (
	"errors"

	"github.com/packforge/packforge/internal/pck"
)

// Sentinel errors.
var (
	// ErrParameter is returned for invalid export parameters, such as an
	// empty selection.
	ErrParameter = errors.New("packforge: invalid parameter")

	// ErrPath is returned when a required source path is missing or
	// unreadable.
	ErrPath = errors.New("packforge: path error")

	// ErrSkip is the early-stop sentinel. It is not a failure: a progress
	// callback returning false aborts the remaining export with ErrSkip.
	ErrSkip = errors.New("packforge: export skipped")

	// ErrConfigParse is returned when a preset or project configuration
	// file is malformed.
	ErrConfigParse = errors.New("packforge: malformed configuration")
)

// Errors re-exported from the pack writer.
var (
	// ErrCantCreate is returned when a scratch file, destination file, or
	// encryption layer cannot be created.
	ErrCantCreate = pck.ErrCantCreate

	// ErrInvalidKey is returned when the configured encryption key is not
	// exactly 64 hexadecimal characters.
	ErrInvalidKey = pck.ErrInvalidKey

	// ErrHashMismatch is returned when pack content fails hash verification.
	ErrHashMismatch = pck.ErrHashMismatch

	// ErrEncrypted is returned when reading encrypted pack content without
	// a key.
	ErrEncrypted = pck.ErrEncrypted
)
