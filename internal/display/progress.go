package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProgressIndicator prints one line per validated item
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	label   string
	color   bool
}

// NewProgressIndicator creates a progress indicator for total items of the
// given kind, e.g. "extension patterns".
func NewProgressIndicator(w io.Writer, total int, label string) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
		label:  label,
		color:  ColorEnabled(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Validating %s:\n", p.label)
}

// Step displays progress for the current item: [N/Total] item
func (p *ProgressIndicator) Step(item string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, item)
	fmt.Fprintln(p.writer, paint(p.color, line, color.FgCyan))
}

// Complete displays the success line with a checkmark
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "%s Validated %d %s\n", paint(p.color, "✓", color.FgGreen), p.total, p.label)
}
