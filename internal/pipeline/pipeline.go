// Package pipeline runs one report generation from validated inputs to the
// written workbook.
//
// Stages run strictly in order and each one consumes the previous stage's
// output without modifying it:
//
//	discover -> extract -> filter -> group -> render -> persist
//
// Input problems are reported as *models.ConfigError before the filesystem
// is traversed. Cancelling ctx at any point before persistence leaves no
// output file behind.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/harrison/diskreport/internal/aggregate"
	"github.com/harrison/diskreport/internal/fileutil"
	"github.com/harrison/diskreport/internal/logger"
	"github.com/harrison/diskreport/internal/metadata"
	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/report"
)

// Logger receives pipeline events. Implementations must be safe for
// concurrent use; LogDegraded is called from extraction workers.
type Logger interface {
	LogScanStart(root string, set *patterns.Set, thresholdBytes int64)
	LogStage(stage string, count int, elapsed time.Duration)
	LogWalkError(err error)
	LogDegraded(rec models.FileRecord)
	LogReportWritten(path string)
}

// Options configures a run. Patterns, Root and OutputDir are required.
type Options struct {
	Root           string
	Patterns       *patterns.Set
	ThresholdBytes int64
	// SizeLimit is the user's limit text, used verbatim in the file name.
	// Empty means "<ThresholdBytes>B".
	SizeLimit string
	OutputDir string

	Scan    fileutil.ScanOptions
	Owners  metadata.OwnerResolver // nil selects the native resolver
	Workers int

	OwnerTimestamps bool

	Now    func() time.Time // defaults to time.Now
	Logger Logger           // nil discards events
}

// Result describes a completed run.
type Result struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Discovered int
	Degraded   int
	WalkErrors []error
	Overlaps   []patterns.Overlap

	Records    []models.FileRecord
	Filtered   []models.FilteredRecord
	Groups     []models.OwnerGroup
	GrandTotal int64

	Report     *models.Report
	OutputPath string
}

// Run executes the pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	res := &Result{
		StartedAt: now(),
		Overlaps:  opts.Patterns.Overlaps(),
	}
	log.LogScanStart(opts.Root, opts.Patterns, opts.ThresholdBytes)

	start := time.Now()
	scan, err := fileutil.Discover(ctx, opts.Root, opts.Patterns, opts.Scan)
	if err != nil {
		return nil, err
	}
	res.Discovered = len(scan.Files)
	res.WalkErrors = scan.Errors
	for _, walkErr := range scan.Errors {
		log.LogWalkError(walkErr)
	}
	log.LogStage("discover", res.Discovered, time.Since(start))

	start = time.Now()
	extractor := metadata.NewExtractor(opts.Owners, opts.Workers)
	extractor.OnDegraded = log.LogDegraded
	res.Records, err = extractor.ExtractAll(ctx, scan.Files)
	if err != nil {
		return nil, err
	}
	for _, rec := range res.Records {
		if rec.Degraded() {
			res.Degraded++
		}
	}
	log.LogStage("extract", len(res.Records), time.Since(start))

	res.Filtered, err = aggregate.Filter(res.Records, opts.ThresholdBytes)
	if err != nil {
		return nil, err
	}
	res.Groups = aggregate.GroupByOwner(res.Filtered)
	res.GrandTotal = aggregate.GrandTotal(res.Filtered)
	log.LogStage("filter", len(res.Filtered), 0)

	sizeLimit := opts.SizeLimit
	if sizeLimit == "" {
		sizeLimit = strconv.FormatInt(opts.ThresholdBytes, 10) + "B"
	}
	res.Report, err = report.Render(res.Filtered, res.Groups, res.GrandTotal, report.Context{
		Date:            res.StartedAt,
		Patterns:        opts.Patterns,
		Folder:          opts.Root,
		SizeLimit:       sizeLimit,
		OwnerTimestamps: opts.OwnerTimestamps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.OutputPath, err = report.Persist(ctx, res.Report, opts.OutputDir)
	if err != nil {
		return nil, err
	}
	log.LogReportWritten(res.OutputPath)

	res.FinishedAt = now()
	return res, nil
}

func (o Options) validate() error {
	if o.Patterns == nil || o.Patterns.Len() == 0 {
		return &models.ConfigError{Field: "extensions", Reason: "no extension patterns"}
	}
	if o.ThresholdBytes < 0 {
		return &models.ConfigError{
			Field:  "size limit",
			Value:  strconv.FormatInt(o.ThresholdBytes, 10),
			Reason: "threshold must not be negative",
		}
	}
	if o.OutputDir == "" {
		return &models.ConfigError{Field: "output dir", Reason: "must not be empty"}
	}
	if err := fileutil.ValidateExcludes(o.Scan.Exclude); err != nil {
		return err
	}
	return fileutil.CheckRoot(o.Root)
}
