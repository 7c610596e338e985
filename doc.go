// Package packforge packages a game project's resource tree into a single
// binary pack container or a deflate ZIP archive for distribution as a
// standalone runnable.
//
// An export run resolves the set of project files to ship (dependency
// closure over an asset index plus include/exclude filters), streams each
// file through pluggable export stages that may rewrite, skip, or inject
// content, and writes the result through either the pack writer or the ZIP
// writer. A produced pack can also be appended to a pre-built host binary
// with a trailer recording its offset and size.
//
// The interactive editor surfaces around exporting (preset UI, asset import,
// progress rendering) are external collaborators, supplied through the
// AssetIndex, ProjectFS, Settings, Platform, and Plugin interfaces so tests
// and embedders can provide their own.
package packforge
