package display

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/pipeline"
)

func TestDisplayWarning_TitleOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "Configuration Missing"}.Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "⚠️  Warning: Configuration Missing") {
		t.Errorf("Expected title line in output, got %q", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Error("Expected no ANSI codes when writing to a buffer")
	}
}

func TestDisplayWarning_AllParts(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "Directories Skipped",
		Message:    "Some directories could not be read.",
		Files:      []string{"/data/a", "/data/b"},
		Suggestion: "Run as a user with read access",
	}.Display(&buf)

	output := buf.String()
	for _, want := range []string{
		"    Some directories could not be read.\n",
		"    Affected items:\n",
		"      1. /data/a\n",
		"      2. /data/b\n",
		"    Suggestion:\n    Run as a user with read access\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestDisplayWarning_SingleItem(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "x", Files: []string{"only"}}.Display(&buf)

	if !strings.Contains(buf.String(), "Affected item:\n") {
		t.Errorf("Expected singular label, got %q", buf.String())
	}
}

func TestWarnOverlaps(t *testing.T) {
	set, err := patterns.Validate([]string{"*.gz", "*.tar.gz", "*.gz"})
	if err != nil {
		t.Fatal(err)
	}

	w := WarnOverlaps(set.Overlaps())

	if len(w.Files) == 0 {
		t.Fatal("expected overlap items")
	}
	joined := strings.Join(w.Files, "\n")
	if !strings.Contains(joined, "*.gz also matches every *.tar.gz file") {
		t.Errorf("missing suffix overlap: %q", joined)
	}
	if !strings.Contains(joined, "*.gz is listed more than once") {
		t.Errorf("missing duplicate pattern: %q", joined)
	}
	if !strings.Contains(w.Suggestion, "--dedupe") {
		t.Errorf("suggestion should mention --dedupe: %q", w.Suggestion)
	}
}

func TestWarnWalkErrors(t *testing.T) {
	var errs []error
	for i := 0; i < 1234; i++ {
		errs = append(errs, fmt.Errorf("open /data/d%d: permission denied", i))
	}

	w := WarnWalkErrors(errs)

	if w.Title != "1,234 Directories Skipped" {
		t.Errorf("Title = %q", w.Title)
	}
	if len(w.Files) != maxListedErrors+1 {
		t.Fatalf("expected %d items, got %d", maxListedErrors+1, len(w.Files))
	}
	if w.Files[maxListedErrors] != "... and 1,224 more" {
		t.Errorf("last item = %q", w.Files[maxListedErrors])
	}

	short := WarnWalkErrors([]error{errors.New("one")})
	if len(short.Files) != 1 || short.Files[0] != "one" {
		t.Errorf("short list = %v", short.Files)
	}
}

func TestWarnOverwrite(t *testing.T) {
	w := WarnOverwrite("/out/r.xlsx", time.Now().Add(-2*time.Hour))

	if !strings.Contains(w.Message, "2 hours ago") {
		t.Errorf("Message = %q", w.Message)
	}
	if len(w.Files) != 1 || w.Files[0] != "/out/r.xlsx" {
		t.Errorf("Files = %v", w.Files)
	}
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2, "extension patterns")

	p.Start()
	p.Step("*.odb")
	p.Step("*.bof")
	p.Complete()

	want := "Validating extension patterns:\n" +
		"  [1/2] *.odb\n" +
		"  [2/2] *.bof\n" +
		"✓ Validated 2 extension patterns\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestShareBarRender(t *testing.T) {
	tests := []struct {
		name     string
		part     int64
		total    int64
		width    int
		expected string
	}{
		{"empty", 0, 10, 10, "[          ]   0%"},
		{"half", 5, 10, 10, "[=====     ]  50%"},
		{"full", 10, 10, 10, "[==========] 100%"},
		{"quarter", 2, 8, 8, "[==      ]  25%"},
		{"zero total", 5, 0, 4, "[    ]   0%"},
		{"default width", 1, 1, 0, "[==========] 100%"},
		{"large bytes", 1 << 62, 1 << 62, 4, "[====] 100%"},
		{"rounds down", 2_000_000, 2_000_510, 10, "[========= ]  99%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewShareBar(tt.part, tt.total, tt.width).Render()
			if got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func summaryResult() *pipeline.Result {
	alice := models.OwnerGroup{
		Owner:         "alice",
		Records:       make([]models.FilteredRecord, 2),
		SubtotalBytes: 510,
	}
	bob := models.OwnerGroup{
		Owner:         "bob",
		Records:       make([]models.FilteredRecord, 1),
		SubtotalBytes: 2_000_000,
	}
	return &pipeline.Result{
		Discovered: 1500,
		Degraded:   2,
		Filtered:   make([]models.FilteredRecord, 3),
		Groups:     []models.OwnerGroup{alice, bob},
		GrandTotal: 2_000_510,
		OutputPath: "/out/report.xlsx",
		WalkErrors: []error{errors.New("denied")},
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, summaryResult())

	output := buf.String()
	for _, want := range []string{
		"Scan summary\n",
		"  Files discovered: 1,500\n",
		"  Files in report:  3\n",
		"  Degraded records: 2\n",
		"  Skipped dirs:     1\n",
		"  Size: 1.91 MB\n",
		"OWNER",
		"510.00 B",
		"1.91 MB",
		"✓ Report written to /out/report.xlsx\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in summary:\n%s", want, output)
		}
	}

	var aliceLine, bobLine string
	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "  alice"):
			aliceLine = line
		case strings.HasPrefix(line, "  bob"):
			bobLine = line
		}
	}
	if !strings.HasSuffix(aliceLine, "   0%") {
		t.Errorf("alice line = %q", aliceLine)
	}
	if !strings.HasSuffix(bobLine, "  99%") {
		t.Errorf("bob line = %q", bobLine)
	}
	if len(aliceLine) != len(bobLine) {
		t.Errorf("owner lines are not aligned:\n%q\n%q", aliceLine, bobLine)
	}
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &pipeline.Result{})

	output := buf.String()
	if strings.Contains(output, "OWNER") {
		t.Error("no owner table expected for an empty run")
	}
	if !strings.Contains(output, "Size: 0.00 B") {
		t.Errorf("missing total: %q", output)
	}
	if strings.Contains(output, "Report written") {
		t.Error("no report line expected without an output path")
	}
}
