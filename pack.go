package packforge

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/packforge/packforge/internal/pck"
)

// PackResult reports a finished pack export.
type PackResult struct {
	// Size is the total pack size in bytes.
	Size int64

	// EmbedStart and EmbedSize describe the embedded region within the
	// host binary, -1 each for a standalone pack.
	EmbedStart int64
	EmbedSize  int64

	// SharedObjects are the files plugins declared for verbatim copying
	// beside the output. See CopySharedObjects.
	SharedObjects []SharedObject
}

// SavePack exports the project selected by preset into a binary pack at
// dest. With WithEmbed, dest must be an existing host binary; the pack is
// appended to it and the platform's trailer fixup is invoked.
//
// On failure no standalone pack is left at dest; an embed failure can leave
// the host binary partially modified.
func SavePack(ctx context.Context, proj *Project, platform Platform, preset *Preset, debug bool, dest string, opts ...ExportOption) (*PackResult, error) {
	cfg := newExportConfig(opts)

	key, err := pck.ParseKey(preset.EncryptionKey)
	if err != nil {
		return nil, err
	}
	if preset.EncryptPack && key == nil {
		return nil, fmt.Errorf("%w: pack encryption enabled without a key", ErrInvalidKey)
	}

	ivSource := cfg.padSource
	if ivSource == nil {
		ivSource = rand.Reader
	}

	var wopts []pck.WriterOption
	if cfg.padSource != nil {
		wopts = append(wopts, pck.WithPadSource(cfg.padSource))
	}
	if preset.EncryptPack {
		layer, err := pck.NewAESLayer(key, ivSource)
		if err != nil {
			return nil, err
		}
		wopts = append(wopts, pck.WithFileLayer(layer))
	}

	w, err := pck.NewWriter(cfg.scratchDir, wopts...)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	res := &PackResult{EmbedStart: -1, EmbedSize: -1}
	e := &exporter{
		proj:     proj,
		platform: platform,
		preset:   preset,
		debug:    debug,
		dest:     dest,
		cfg:      cfg,
		save: func(rec Record) error {
			return w.Add(rec.Path, rec.Data, rec.Encrypted)
		},
		soSave: func(so SharedObject) error {
			res.SharedObjects = append(res.SharedObjects, so)
			return nil
		},
	}

	if err := e.run(ctx); err != nil {
		return nil, fmt.Errorf("export project files: %w", err)
	}

	var dirLayers []pck.Layer
	if preset.EncryptPack && preset.EncryptDirectory {
		layer, err := pck.NewAESLayer(key, ivSource)
		if err != nil {
			return nil, err
		}
		dirLayers = append(dirLayers, layer)
	}

	fres, err := w.Finalize(ctx, dest, pck.FinalizeOptions{
		Version:   cfg.version,
		Embed:     cfg.embed,
		DirLayers: dirLayers,
	})
	if err != nil {
		return nil, err
	}
	res.Size = fres.Size
	res.EmbedStart = fres.EmbedStart
	res.EmbedSize = fres.EmbedSize

	if cfg.embed && platform != nil {
		if err := platform.FixupEmbeddedPack(dest, fres.EmbedStart, fres.EmbedSize); err != nil {
			return res, fmt.Errorf("fixup embedded pack: %w", err)
		}
	}
	return res, nil
}
