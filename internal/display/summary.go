package display

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/diskreport/internal/pipeline"
	"github.com/harrison/diskreport/internal/sizes"
)

const shareBarWidth = 20

// PrintSummary writes the end-of-scan summary: counts, the per-owner table
// with subtotals and share of the total, and the report path.
func PrintSummary(out io.Writer, res *pipeline.Result) {
	useColor := ColorEnabled(out)

	fmt.Fprintln(out, paint(useColor, "Scan summary", color.Bold))
	fmt.Fprintf(out, "  Files discovered: %s\n", humanize.Comma(int64(res.Discovered)))
	fmt.Fprintf(out, "  Files in report:  %s\n", humanize.Comma(int64(len(res.Filtered))))
	if res.Degraded > 0 {
		fmt.Fprintf(out, "  Degraded records: %s\n", paint(useColor, humanize.Comma(int64(res.Degraded)), color.FgYellow))
	} else {
		fmt.Fprintf(out, "  Degraded records: 0\n")
	}
	if len(res.WalkErrors) > 0 {
		fmt.Fprintf(out, "  Skipped dirs:     %s\n", paint(useColor, humanize.Comma(int64(len(res.WalkErrors))), color.FgYellow))
	}
	fmt.Fprintf(out, "  %s\n", sizes.TotalHeader(res.GrandTotal))

	if len(res.Groups) > 0 {
		ownerWidth := utf8.RuneCountInString("OWNER")
		sizeWidth := utf8.RuneCountInString("SIZE")
		for _, g := range res.Groups {
			if n := utf8.RuneCountInString(g.Owner); n > ownerWidth {
				ownerWidth = n
			}
			if n := len(sizes.FormatBinary(g.SubtotalBytes)); n > sizeWidth {
				sizeWidth = n
			}
		}

		fmt.Fprintln(out)
		header := fmt.Sprintf("  %-*s  %8s  %-*s  %s", ownerWidth, "OWNER", "FILES", sizeWidth, "SIZE", "SHARE")
		fmt.Fprintln(out, paint(useColor, header, color.FgCyan))
		for _, g := range res.Groups {
			bar := NewShareBar(g.SubtotalBytes, res.GrandTotal, shareBarWidth)
			fmt.Fprintf(out, "  %s  %8s  %-*s  %s\n",
				padRight(g.Owner, ownerWidth),
				humanize.Comma(int64(len(g.Records))),
				sizeWidth, sizes.FormatBinary(g.SubtotalBytes),
				bar.Render(),
			)
		}
	}

	if res.OutputPath != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s Report written to %s\n", paint(useColor, "✓", color.FgGreen), res.OutputPath)
	}
}

// padRight pads by rune count so non-ASCII owner names line up.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + fmt.Sprintf("%*s", width-n, "")
}
