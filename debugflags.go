package packforge

import (
	"fmt"
	"strings"
)

// DebugFlags select debug facilities a produced runnable is launched with.
type DebugFlags int

const (
	// DebugFlagDumbClient makes the runnable mount the project over a
	// remote filesystem instead of its local pack.
	DebugFlagDumbClient DebugFlags = 1 << iota

	// DebugFlagRemoteDebug connects the runnable to a remote debugger.
	DebugFlagRemoteDebug

	// DebugFlagRemoteDebugLocalhost forces the debug host to localhost.
	DebugFlagRemoteDebugLocalhost

	// DebugFlagViewCollisions enables collision shape rendering.
	DebugFlagViewCollisions

	// DebugFlagViewNavigation enables navigation mesh rendering.
	DebugFlagViewNavigation
)

// DebugConfig holds the editor-side settings flag generation reads.
type DebugConfig struct {
	Host               string
	RemotePort         int
	DebugProtocol      string
	FileServerPort     int
	FileServerPassword string
	Breakpoints        []string
}

// GenExportFlags builds the command-line flag list a debug-enabled runnable
// is launched with.
func GenExportFlags(cfg DebugConfig, flags DebugFlags) []string {
	host := cfg.Host
	if flags&DebugFlagRemoteDebugLocalhost != 0 {
		host = "localhost"
	}

	var out []string
	if flags&DebugFlagDumbClient != 0 {
		out = append(out, "--remote-fs", fmt.Sprintf("%s:%d", host, cfg.FileServerPort))
		if cfg.FileServerPassword != "" {
			out = append(out, "--remote-fs-password", cfg.FileServerPassword)
		}
	}
	if flags&DebugFlagRemoteDebug != 0 {
		out = append(out, "--remote-debug", fmt.Sprintf("%s%s:%d", cfg.DebugProtocol, host, cfg.RemotePort))
		if len(cfg.Breakpoints) > 0 {
			escaped := make([]string, len(cfg.Breakpoints))
			for i, bp := range cfg.Breakpoints {
				escaped[i] = strings.ReplaceAll(bp, " ", "%20")
			}
			out = append(out, "--breakpoints", strings.Join(escaped, ","))
		}
	}
	if flags&DebugFlagViewCollisions != 0 {
		out = append(out, "--debug-collisions")
	}
	if flags&DebugFlagViewNavigation != 0 {
		out = append(out, "--debug-navigation")
	}
	return out
}
