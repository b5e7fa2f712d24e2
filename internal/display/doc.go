// Package display provides the terminal output of the diskreport commands:
// the end-of-scan summary, warnings, and validation progress.
//
// # Scan Summary
//
// After a successful run, print counts, one line per owner and the report
// path:
//
//	display.PrintSummary(os.Stdout, result)
//
// Each owner line carries its file count, its subtotal in binary units and
// a ShareBar of its share of the grand total.
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Overlapping Extension Patterns",
//	    Message:    "Files matching several patterns appear once per pattern",
//	    Files:      []string{"*.gz also matches every *.tar.gz file"},
//	    Suggestion: "Pass --dedupe",
//	}
//	warning.Display(os.Stderr)
//
// WarnOverlaps, WarnWalkErrors and WarnOverwrite build the warnings the
// scan command shows.
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stdout, set.Len(), "extension patterns")
//	progress.Start()
//	for _, p := range set.Patterns() {
//	    progress.Step(p)
//	}
//	progress.Complete()
//
// # Colors
//
// Colors come from github.com/fatih/color and are only emitted when the
// writer is a terminal (github.com/mattn/go-isatty) and NO_COLOR is unset.
// All functions accept io.Writer so output can be captured in tests.
package display
