package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/sizes"
)

// Summary is the end-of-run block written to the run log.
type Summary struct {
	Discovered int
	Retained   int
	Degraded   int
	WalkErrors int
	GrandTotal int64
	Output     string
	Duration   time.Duration
}

// FileLogger writes one log file per run, scan-YYYYMMDD-HHMMSS.log, and
// keeps a latest.log symlink pointing at the newest one.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir at the given level.
// The directory is created if needed.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("scan-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}
	fl.writeRunLog("=== diskreport scan log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))
	return fl, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogScanStart records the run parameters.
func (fl *FileLogger) LogScanStart(root string, set *patterns.Set, thresholdBytes int64) {
	fl.LogInfo(scanStartMessage(root, set, thresholdBytes))
}

// LogStage records a finished stage.
func (fl *FileLogger) LogStage(stage string, count int, elapsed time.Duration) {
	fl.LogInfo(stageMessage(stage, count, elapsed))
}

// LogWalkError records a skipped directory.
func (fl *FileLogger) LogWalkError(err error) {
	fl.LogWarn(fmt.Sprintf("skipped: %v", err))
}

// LogDegraded records a record that fell back to sentinels.
func (fl *FileLogger) LogDegraded(rec models.FileRecord) {
	fl.LogDebug(degradedMessage(rec))
}

// LogReportWritten records the output path.
func (fl *FileLogger) LogReportWritten(path string) {
	fl.LogInfo("Report written: " + path)
}

// LogSummary writes the end-of-run block at INFO level.
func (fl *FileLogger) LogSummary(s Summary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	message := fmt.Sprintf(
		"\n[%s] === SCAN SUMMARY ===\n"+
			"[%s] Discovered:   %d\n"+
			"[%s] Retained:     %d\n"+
			"[%s] Degraded:     %d\n"+
			"[%s] Walk errors:  %d\n"+
			"[%s] Total size:   %s\n"+
			"[%s] Output:       %s\n"+
			"[%s] Total time:   %.1fs\n",
		ts,
		ts, s.Discovered,
		ts, s.Retained,
		ts, s.Degraded,
		ts, s.WalkErrors,
		ts, sizes.FormatBinary(s.GrandTotal),
		ts, s.Output,
		ts, s.Duration.Seconds(),
	)
	fl.writeRunLog(message)
}

// Close syncs and closes the run log.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
