package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/harrison/diskreport/internal/display"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/sizes"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <extensions-file> [size-limit]",
		Short: "Validate an extensions file and a size limit without scanning",
		Long: `Parse and validate scan inputs, checking that:
  - every line of the extensions file is a "*.<ext>" pattern
  - the size limit, when given, is a number with a B, KB, MB, GB or TB unit

Patterns that would list the same file more than once are reported as a
warning.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateInputs(args, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// validateInputs validates the extensions file and optional size limit,
// writing progress to output.
func validateInputs(args []string, output io.Writer) error {
	set, err := patterns.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(output, "✗ Failed to load patterns from %s\n", args[0])
		return err
	}

	progress := display.NewProgressIndicator(output, set.Len(), "extension patterns")
	progress.Start()
	for _, p := range set.Patterns() {
		progress.Step(p)
	}
	progress.Complete()

	if overlaps := set.Overlaps(); len(overlaps) > 0 {
		display.WarnOverlaps(overlaps).Display(output)
	}

	if len(args) == 2 {
		threshold, err := sizes.ParseLimit(args[1])
		if err != nil {
			fmt.Fprintf(output, "✗ Invalid size limit %q\n", args[1])
			return err
		}
		fmt.Fprintf(output, "✓ Size limit %s = %s bytes\n", args[1], humanize.Comma(threshold))
	}

	fmt.Fprintf(output, "\n✓ Inputs are valid!\n")
	return nil
}
