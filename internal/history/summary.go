package history

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/diskreport/internal/sizes"
)

// Markdown renders a run as a Markdown document with a per-owner table.
func Markdown(run *Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Scan %s\n\n", run.ID)
	fmt.Fprintf(&b, "- **Started:** %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Duration:** %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "- **Root:** `%s`\n", run.Root)
	fmt.Fprintf(&b, "- **Extensions:** `%s`\n", run.Extensions)
	fmt.Fprintf(&b, "- **Size limit:** %s (%s bytes)\n", run.SizeLimit, humanize.Comma(run.ThresholdBytes))
	fmt.Fprintf(&b, "- **Files discovered:** %s\n", humanize.Comma(int64(run.Discovered)))
	fmt.Fprintf(&b, "- **Files in report:** %s\n", humanize.Comma(int64(run.Retained)))
	if run.Degraded > 0 {
		fmt.Fprintf(&b, "- **Degraded records:** %s\n", humanize.Comma(int64(run.Degraded)))
	}
	if run.WalkErrors > 0 {
		fmt.Fprintf(&b, "- **Skipped directories:** %s\n", humanize.Comma(int64(run.WalkErrors)))
	}
	fmt.Fprintf(&b, "- **%s**\n", sizes.TotalHeader(run.GrandTotal))
	if run.OutputPath != "" {
		fmt.Fprintf(&b, "- **Report:** `%s`\n", run.OutputPath)
	}

	if len(run.Owners) > 0 {
		b.WriteString("\n## Owners\n\n")
		b.WriteString("| Owner | Files | Size |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, o := range run.Owners {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				escapeCell(o.Owner), humanize.Comma(int64(o.Files)), sizes.FormatBinary(o.Bytes))
		}
	}

	return b.String()
}

// HTML renders the Markdown summary of a run to an HTML fragment.
func HTML(run *Run) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(run)), &buf); err != nil {
		return "", fmt.Errorf("render run summary: %w", err)
	}
	return buf.String(), nil
}

// escapeCell keeps owner names from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
