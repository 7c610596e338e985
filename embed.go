package packforge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/packforge/packforge/internal/fileutil"
)

// DefaultCopyWorkers is the worker count CopySharedObjects uses when none is
// given.
const DefaultCopyWorkers = 4

// CopySharedObjects copies plugin-declared shared objects verbatim into the
// output directory tree, each under its declared target sub-directory.
// Objects are independent files, so copies run on a small worker pool.
func CopySharedObjects(ctx context.Context, destDir string, objects []SharedObject, workers int) error {
	if workers <= 0 {
		workers = DefaultCopyWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, so := range objects {
		g.Go(func() error {
			target := filepath.Join(destDir, filepath.FromSlash(so.Target))
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("%w: %v", ErrCantCreate, err)
			}
			return copyFile(ctx, so.Path, filepath.Join(target, filepath.Base(so.Path)))
		})
	}
	return g.Wait()
}

func copyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCantCreate, err)
	}

	buf := make([]byte, 32*1024)
	if _, err := fileutil.CopyWithContext(ctx, out, in, buf); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
