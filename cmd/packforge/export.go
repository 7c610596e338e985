package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packforge/packforge"
	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/localproject"
)

// exportFlags are the flags shared by the pack and zip commands.
type exportFlags struct {
	projectDir string
	presetPath string
	debug      bool
}

func (ef *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ef.projectDir, "project", "p", ".", "project directory to export")
	cmd.Flags().StringVar(&ef.presetPath, "preset", "", "preset file (YAML, TOML, or JSON)")
	cmd.Flags().BoolVar(&ef.debug, "debug", false, "export with the debug feature tag")
}

// load builds the project views and preset for an export run.
func (ef *exportFlags) load() (*packforge.Project, *packforge.Preset, error) {
	proj, err := localproject.Load(ef.projectDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load project: %w", err)
	}

	preset := &packforge.Preset{ExportFilter: packforge.ExportAllResources}
	if ef.presetPath != "" {
		preset, err = config.LoadPreset(ef.presetPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load preset: %w", err)
		}
	}
	return proj, preset, nil
}

func newPackCmd() *cobra.Command {
	var (
		ef     exportFlags
		embed  bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "pack <output>",
		Short: "Export the project as a binary pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, preset, err := ef.load()
			if err != nil {
				return err
			}

			opts := []packforge.ExportOption{
				packforge.WithLogger(logger),
				packforge.WithProgress(func(path string, index, total int) bool {
					logger.Debug("storing file", "path", path, "file", index+1, "total", total)
					return true
				}),
			}
			if embed {
				opts = append(opts, packforge.WithEmbed())
			}

			platform := &packforge.GenericPlatform{Name: "generic"}
			res, err := packforge.SavePack(cmd.Context(), proj, platform, preset, ef.debug, args[0], opts...)
			if err != nil {
				return err
			}

			if len(res.SharedObjects) > 0 {
				dir := outDir
				if dir == "" {
					dir = "."
				}
				if err := packforge.CopySharedObjects(cmd.Context(), dir, res.SharedObjects, 0); err != nil {
					return err
				}
			}

			if embed {
				logger.Info("pack embedded", "dest", args[0], "offset", res.EmbedStart, "size", res.EmbedSize)
			} else {
				logger.Info("pack written", "dest", args[0], "size", res.Size)
			}
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().BoolVar(&embed, "embed", false, "append the pack to the existing binary at <output>")
	cmd.Flags().StringVar(&outDir, "shared-object-dir", "", "directory for plugin-declared shared objects")
	return cmd
}

func newZipCmd() *cobra.Command {
	var ef exportFlags
	cmd := &cobra.Command{
		Use:   "zip <output>",
		Short: "Export the project as a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, preset, err := ef.load()
			if err != nil {
				return err
			}
			err = packforge.SaveZip(cmd.Context(), proj, &packforge.GenericPlatform{Name: "generic"}, preset, ef.debug, args[0],
				packforge.WithLogger(logger))
			if err != nil {
				return err
			}
			logger.Info("archive written", "dest", args[0])
			return nil
		},
	}
	ef.register(cmd)
	return cmd
}
