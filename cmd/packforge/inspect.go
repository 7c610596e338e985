package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packforge/packforge"
	"github.com/packforge/packforge/internal/pck"
)

func keyFlag(cmd *cobra.Command, keyHex *string) {
	cmd.Flags().StringVar(keyHex, "key", "", "encryption key as 64 hex characters")
}

func newInspectCmd() *cobra.Command {
	var keyHex string
	cmd := &cobra.Command{
		Use:   "inspect <pack>",
		Short: "Print a pack's header and directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := pck.ParseKey(keyHex)
			if err != nil {
				return err
			}
			info, err := packforge.Inspect(args[0], key)
			if err != nil {
				return err
			}

			fmt.Printf("format:    %d\n", info.FormatVersion)
			fmt.Printf("engine:    %d.%d.%d\n", info.Version.Major, info.Version.Minor, info.Version.Patch)
			fmt.Printf("directory: encrypted=%v entries=%d\n", info.DirEncrypted, len(info.Entries))
			fmt.Printf("digest:    %s\n", info.Digest)
			for _, e := range info.Entries {
				enc := ""
				if e.Encrypted {
					enc = " (encrypted)"
				}
				fmt.Printf("  %-50s offset=%-10d size=%d%s\n", e.Path, e.Offset, e.Size, enc)
			}
			return nil
		},
	}
	keyFlag(cmd, &keyHex)
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var keyHex string
	cmd := &cobra.Command{
		Use:   "verify <pack>",
		Short: "Verify every pack entry against its recorded hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := pck.ParseKey(keyHex)
			if err != nil {
				return err
			}
			if err := packforge.VerifyPack(args[0], key); err != nil {
				return err
			}
			logger.Info("pack verified", "path", args[0])
			return nil
		},
	}
	keyFlag(cmd, &keyHex)
	return cmd
}
