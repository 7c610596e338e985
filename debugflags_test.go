package packforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenExportFlags(t *testing.T) {
	cfg := DebugConfig{
		Host:               "192.168.1.10",
		RemotePort:         6007,
		DebugProtocol:      "tcp://",
		FileServerPort:     6010,
		FileServerPassword: "hunter2",
		Breakpoints:        []string{"res://main.gd:12", "res://my scene.gd:3"},
	}

	tests := []struct {
		name  string
		flags DebugFlags
		want  []string
	}{
		{name: "none", flags: 0, want: nil},
		{
			name:  "dumb client",
			flags: DebugFlagDumbClient,
			want:  []string{"--remote-fs", "192.168.1.10:6010", "--remote-fs-password", "hunter2"},
		},
		{
			name:  "remote debug with breakpoints",
			flags: DebugFlagRemoteDebug,
			want: []string{
				"--remote-debug", "tcp://192.168.1.10:6007",
				"--breakpoints", "res://main.gd:12,res://my%20scene.gd:3",
			},
		},
		{
			name:  "localhost override",
			flags: DebugFlagRemoteDebug | DebugFlagRemoteDebugLocalhost,
			want: []string{
				"--remote-debug", "tcp://localhost:6007",
				"--breakpoints", "res://main.gd:12,res://my%20scene.gd:3",
			},
		},
		{
			name:  "view flags",
			flags: DebugFlagViewCollisions | DebugFlagViewNavigation,
			want:  []string{"--debug-collisions", "--debug-navigation"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenExportFlags(cfg, tt.flags))
		})
	}
}

func TestGenExportFlagsNoPassword(t *testing.T) {
	cfg := DebugConfig{Host: "h", FileServerPort: 6010}
	got := GenExportFlags(cfg, DebugFlagDumbClient)
	assert.Equal(t, []string{"--remote-fs", "h:6010"}, got)
}
