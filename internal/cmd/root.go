package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for diskreport
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diskreport",
		Short: "Report disk usage of files by extension and owner",
		Long: `diskreport walks a directory tree, collects every file whose name ends
with one of the given extensions, and writes an Excel workbook with one
"All Users" sheet plus one sheet per file owner.

Sizes below the size limit are left out. Totals and per-owner subtotals
are written into the size column headers.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
