package pck

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned when a configured encryption key string is not
// exactly 64 hexadecimal characters. A malformed key is a reported
// configuration error, never a silent fallback to a degenerate key.
var ErrInvalidKey = errors.New("pck: invalid encryption key")

// KeySize is the raw AES-256 key length in bytes.
const KeySize = 32

// ParseKey decodes a 64-hex-character key string into 32 raw bytes.
// An empty string returns a nil key (encryption unavailable).
func ParseKey(s string) ([]byte, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if len(s) != KeySize*2 {
		return nil, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidKey, KeySize*2, len(s))
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}
