package packforge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/packforge/packforge/internal/ziparchive"
)

// SaveZip exports the project selected by preset as a deflate ZIP archive at
// dest. Entry names are the record paths with the virtual-path scheme
// stripped; encryption filters are ignored.
//
// Export pipeline failures are logged and the archive is still finalized, so
// a best-effort archive always has a valid central directory.
func SaveZip(ctx context.Context, proj *Project, platform Platform, preset *Preset, debug bool, dest string, opts ...ExportOption) error {
	cfg := newExportConfig(opts)

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCantCreate, err)
	}

	zw := ziparchive.NewWriter(f)
	e := &exporter{
		proj:     proj,
		platform: platform,
		preset:   preset,
		debug:    debug,
		dest:     dest,
		cfg:      cfg,
		save: func(rec Record) error {
			return zw.Save(rec.Path, rec.Data)
		},
	}

	if runErr := e.run(ctx); runErr != nil && !errors.Is(runErr, ErrSkip) {
		cfg.logger.Error("failed to export project files", "dest", dest, "err", runErr)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}
