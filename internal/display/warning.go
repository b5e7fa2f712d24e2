package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/diskreport/internal/patterns"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files or items (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected item:\n")
		} else {
			b.WriteString("    Affected items:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if ColorEnabled(out) {
		yellow := color.New(color.FgYellow)
		yellow.EnableColor()
		fmt.Fprint(out, yellow.Sprint(b.String()))
		return
	}
	fmt.Fprint(out, b.String())
}

// WarnOverlaps warns that overlapping patterns will list some files more
// than once.
func WarnOverlaps(overlaps []patterns.Overlap) Warning {
	items := make([]string, len(overlaps))
	for i, o := range overlaps {
		if o.Pattern == o.Covers {
			items[i] = fmt.Sprintf("%s is listed more than once", o.Pattern)
			continue
		}
		items[i] = fmt.Sprintf("%s also matches every %s file", o.Pattern, o.Covers)
	}
	return Warning{
		Title:      "Overlapping Extension Patterns",
		Message:    "Files matching several patterns appear once per pattern and count toward totals each time.",
		Files:      items,
		Suggestion: "Remove the redundant patterns or pass --dedupe",
	}
}

// maxListedErrors caps the walk errors listed in a warning.
const maxListedErrors = 10

// WarnWalkErrors lists directories that could not be read.
func WarnWalkErrors(errs []error) Warning {
	items := make([]string, 0, maxListedErrors+1)
	for i, err := range errs {
		if i == maxListedErrors {
			items = append(items, fmt.Sprintf("... and %s more", humanize.Comma(int64(len(errs)-maxListedErrors))))
			break
		}
		items = append(items, err.Error())
	}
	return Warning{
		Title:   fmt.Sprintf("%s Directories Skipped", humanize.Comma(int64(len(errs)))),
		Message: "These directories could not be read; files inside them are missing from the report.",
		Files:   items,
	}
}

// WarnOverwrite warns that an identical run from earlier today wrote the
// same report file, which is about to be replaced.
func WarnOverwrite(path string, previous time.Time) Warning {
	return Warning{
		Title:      "Report Will Be Overwritten",
		Message:    fmt.Sprintf("An identical scan wrote this report %s.", humanize.Time(previous)),
		Files:      []string{path},
		Suggestion: "Move the earlier report or use a different --output-dir to keep both",
	}
}
