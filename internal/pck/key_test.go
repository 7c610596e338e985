package pck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		wantErr error
	}{
		{name: "empty means no key", in: "", wantLen: 0},
		{name: "valid lowercase", in: strings.Repeat("ab", 32), wantLen: 32},
		{name: "valid uppercase", in: strings.Repeat("AB", 32), wantLen: 32},
		{name: "surrounding whitespace", in: "  " + strings.Repeat("0f", 32) + "\n", wantLen: 32},
		{name: "too short", in: strings.Repeat("ab", 31), wantErr: ErrInvalidKey},
		{name: "too long", in: strings.Repeat("ab", 33), wantErr: ErrInvalidKey},
		{name: "not hex", in: strings.Repeat("zz", 32), wantErr: ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, tt.wantLen)
		})
	}
}
