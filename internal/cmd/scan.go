package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/diskreport/internal/config"
	"github.com/harrison/diskreport/internal/display"
	"github.com/harrison/diskreport/internal/fileutil"
	"github.com/harrison/diskreport/internal/history"
	"github.com/harrison/diskreport/internal/logger"
	"github.com/harrison/diskreport/internal/metadata"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/pipeline"
	"github.com/harrison/diskreport/internal/report"
	"github.com/harrison/diskreport/internal/sizes"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <extensions-file> <root> <size-limit>",
		Short: "Scan a directory tree and write the disk usage report",
		Long: `Scan walks <root>, keeps files whose names end with one of the extension
patterns and whose size is at least <size-limit>, and writes the report
workbook to the output directory.

The extensions file lists one pattern per line, each starting with "*.".
Patterns can also be given with --ext, in which case the file argument is
omitted. Size limits take a unit: B, KB, MB, GB or TB (1KB = 1024 bytes).

Configuration is loaded from .diskreport/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  diskreport scan extensions.txt /data 10MB
  diskreport scan --ext '*.odb' --ext '*.bof' /data 0B
  diskreport scan extensions.txt /data 1GB --output-dir reports --exclude '**/.snapshot/**'
  diskreport scan extensions.txt /data 500KB --owner-resolver shell --workers 4`,
		Args: scanArgs,
		RunE: runScan,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .diskreport/config.yaml)")
	cmd.Flags().StringArray("ext", nil, "Extension pattern such as '*.odb' (repeatable, replaces the extensions file)")
	cmd.Flags().String("output-dir", "", "Directory the report is written to")
	cmd.Flags().Int("workers", 0, "Concurrent metadata lookups (0 = number of CPUs)")
	cmd.Flags().String("owner-resolver", "", "Owner lookup: native, shell or unknown")
	cmd.Flags().StringArray("exclude", nil, "Glob, relative to the root, of paths to skip (repeatable)")
	cmd.Flags().Bool("dedupe", false, "Report a file once even when several patterns match it")
	cmd.Flags().Bool("no-owner-timestamps", false, "Leave the Modified Timestamp column off owner sheets")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn or error")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

// scanArgs accepts <root> <size-limit> when --ext is given and
// <extensions-file> <root> <size-limit> otherwise.
func scanArgs(cmd *cobra.Command, args []string) error {
	exts, _ := cmd.Flags().GetStringArray("ext")
	if len(exts) > 0 {
		if len(args) != 2 {
			return fmt.Errorf("with --ext, scan takes <root> <size-limit>, got %d argument(s)", len(args))
		}
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("scan takes <extensions-file> <root> <size-limit>, got %d argument(s)", len(args))
	}
	return nil
}

// scanInputs are the validated positional inputs of a scan.
type scanInputs struct {
	set       *patterns.Set
	root      string
	sizeLimit string
	threshold int64
}

func parseScanInputs(cmd *cobra.Command, args []string) (*scanInputs, error) {
	exts, _ := cmd.Flags().GetStringArray("ext")

	var (
		set *patterns.Set
		err error
	)
	if len(exts) > 0 {
		set, err = patterns.Validate(exts)
	} else {
		set, err = patterns.LoadFile(args[0])
		args = args[1:]
	}
	if err != nil {
		return nil, err
	}

	in := &scanInputs{set: set, root: args[0], sizeLimit: strings.TrimSpace(args[1])}
	if in.threshold, err = sizes.ParseLimit(in.sizeLimit); err != nil {
		return nil, err
	}
	if err := fileutil.CheckRoot(in.root); err != nil {
		return nil, err
	}
	return in, nil
}

// loadScanConfig loads the configuration file and applies the flags.
func loadScanConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	var o config.Overrides
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		o.LogDir = &v
	}
	if flags.Changed("output-dir") {
		v, _ := flags.GetString("output-dir")
		o.OutputDir = &v
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		o.Workers = &v
	}
	if flags.Changed("owner-resolver") {
		v, _ := flags.GetString("owner-resolver")
		o.OwnerResolver = &v
	}
	o.Exclude, _ = flags.GetStringArray("exclude")
	if flags.Changed("dedupe") {
		v, _ := flags.GetBool("dedupe")
		o.Dedupe = &v
	}
	if flags.Changed("no-owner-timestamps") {
		v, _ := flags.GetBool("no-owner-timestamps")
		v = !v
		o.OwnerTimestamps = &v
	}
	if flags.Changed("no-history") {
		v, _ := flags.GetBool("no-history")
		v = !v
		o.HistoryEnabled = &v
	}

	cfg.MergeWithFlags(o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadScanConfig(cmd)
	if err != nil {
		return err
	}
	in, err := parseScanInputs(cmd, args)
	if err != nil {
		return err
	}
	owners, err := metadata.NewOwnerResolver(cfg.OwnerResolver)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	console := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()
	log := logger.NewMultiLogger(console, fileLog)

	var store *history.Store
	if cfg.History.Enabled {
		store, err = openHistory(cfg)
		if err != nil {
			log.LogWarn(fmt.Sprintf("run history disabled: %v", err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	now := time.Now()
	extensions := strings.Join(in.set.Patterns(), ",")
	warnOverwrite(ctx, stderr, store, cfg.OutputDir, now, in, extensions)

	if overlaps := in.set.Overlaps(); len(overlaps) > 0 && !cfg.Dedupe {
		display.WarnOverlaps(overlaps).Display(stderr)
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		Root:            in.root,
		Patterns:        in.set,
		ThresholdBytes:  in.threshold,
		SizeLimit:       in.sizeLimit,
		OutputDir:       cfg.OutputDir,
		Scan:            fileutil.ScanOptions{Exclude: cfg.Exclude, Dedupe: cfg.Dedupe},
		Owners:          owners,
		Workers:         cfg.Workers,
		OwnerTimestamps: cfg.OwnerTimestamps,
		Now:             func() time.Time { return now },
		Logger:          log,
	})
	if err != nil {
		log.LogError(fmt.Sprintf("scan failed: %v", err))
		return err
	}
	res.FinishedAt = time.Now()

	if len(res.WalkErrors) > 0 {
		display.WarnWalkErrors(res.WalkErrors).Display(stderr)
	}
	display.PrintSummary(stdout, res)

	fileLog.LogSummary(logger.Summary{
		Discovered: res.Discovered,
		Retained:   len(res.Filtered),
		Degraded:   res.Degraded,
		WalkErrors: len(res.WalkErrors),
		GrandTotal: res.GrandTotal,
		Output:     res.OutputPath,
		Duration:   res.FinishedAt.Sub(res.StartedAt),
	})

	if store != nil {
		run := history.FromResult(res, in.root, extensions, in.sizeLimit, in.threshold)
		if err := store.Record(context.Background(), run); err != nil {
			log.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
		} else {
			log.LogDebug(fmt.Sprintf("recorded run %s", run.ID))
		}
	}

	return nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	dbPath, err := cfg.ResolveHistoryDBPath()
	if err != nil {
		return nil, err
	}
	return history.NewStore(dbPath)
}

// warnOverwrite shows a warning when the report file this scan will write
// already exists. The earlier run's start time comes from history when
// an identical run was recorded, otherwise from the file itself.
func warnOverwrite(ctx context.Context, out io.Writer, store *history.Store, outputDir string, now time.Time, in *scanInputs, extensions string) {
	target := filepath.Join(outputDir, report.BuildFilename(now, in.set, in.root, in.sizeLimit))
	info, err := os.Stat(target)
	if err != nil {
		return
	}

	previous := info.ModTime()
	if store != nil {
		run, err := store.FindByFingerprint(ctx, history.Fingerprint(now, extensions, in.root, in.sizeLimit))
		if err == nil && run != nil {
			previous = run.StartedAt
		}
	}
	display.WarnOverwrite(target, previous).Display(out)
}
