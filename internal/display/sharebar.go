package display

import (
	"fmt"
	"strings"
)

// ShareBar renders the fraction part/total as an ASCII bar, e.g.
// "[=====     ]  50%". Values are bytes, so they are int64.
type ShareBar struct {
	part  int64
	total int64
	width int
}

// NewShareBar creates a bar of the given width in characters. Widths
// below 1 use 10.
func NewShareBar(part, total int64, width int) *ShareBar {
	if width < 1 {
		width = 10
	}
	return &ShareBar{part: part, total: total, width: width}
}

// Percentage returns the share as a whole percentage in [0, 100].
func (sb *ShareBar) Percentage() int {
	if sb.total <= 0 || sb.part <= 0 {
		return 0
	}
	if sb.part >= sb.total {
		return 100
	}
	// part*100 can overflow int64
	return int(float64(sb.part) * 100 / float64(sb.total))
}

// Render returns the bar followed by the right-aligned percentage.
func (sb *ShareBar) Render() string {
	perc := sb.Percentage()
	filled := perc * sb.width / 100

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", sb.width-filled))
	b.WriteByte(']')

	return fmt.Sprintf("%s %3d%%", b.String(), perc)
}
