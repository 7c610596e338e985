// Command packforge packages a project directory into a binary pack or a
// ZIP archive, and inspects or verifies produced packs.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:          "packforge",
		Short:        "Package a project resource tree into a pack or ZIP archive",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newPackCmd())
	root.AddCommand(newZipCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVerifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
