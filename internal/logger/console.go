// Package logger provides the console and file loggers for report runs.
//
// Both loggers implement pipeline.Logger and the plain leveled methods
// (LogTrace ... LogError) used by the commands. They are safe for concurrent
// use; extraction workers report degraded records from several goroutines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/sizes"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines to a writer.
// Levels are colored when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger. A nil writer discards every
// message. Unknown or empty levels fall back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY and colors are not disabled
// (NO_COLOR, --no-color).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel lowercases level and returns "info" for anything unknown.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	return normalizeLogLevel(level) == strings.ToLower(strings.TrimSpace(level))
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogScanStart logs the run parameters at INFO level.
func (cl *ConsoleLogger) LogScanStart(root string, set *patterns.Set, thresholdBytes int64) {
	cl.LogInfo(scanStartMessage(root, set, thresholdBytes))
}

// LogStage logs a finished stage at INFO level.
// Format: "<stage> complete: <count> files (<duration>)"
func (cl *ConsoleLogger) LogStage(stage string, count int, elapsed time.Duration) {
	msg := stageMessage(stage, count, elapsed)
	if cl.colorOutput {
		msg = color.New(color.Bold).Sprint(stage) + strings.TrimPrefix(msg, stage)
	}
	cl.LogInfo(msg)
}

// LogWalkError logs a directory that could not be read at WARN level.
func (cl *ConsoleLogger) LogWalkError(err error) {
	cl.LogWarn(fmt.Sprintf("skipped: %v", err))
}

// LogDegraded logs a record that fell back to sentinels at DEBUG level.
func (cl *ConsoleLogger) LogDegraded(rec models.FileRecord) {
	cl.LogDebug(degradedMessage(rec))
}

// LogReportWritten logs the output path at INFO level.
func (cl *ConsoleLogger) LogReportWritten(path string) {
	if cl.colorOutput {
		cl.LogInfo(color.New(color.FgGreen).Sprint("Report written: ") + path)
		return
	}
	cl.LogInfo("Report written: " + path)
}

func scanStartMessage(root string, set *patterns.Set, thresholdBytes int64) string {
	exts := ""
	if set != nil {
		exts = strings.Join(set.Patterns(), ", ")
	}
	return fmt.Sprintf("Scanning %s for %s (size >= %s)", root, exts, sizes.FormatBinary(thresholdBytes))
}

func stageMessage(stage string, count int, elapsed time.Duration) string {
	return fmt.Sprintf("%s complete: %s files (%s)", stage, humanize.Comma(int64(count)), formatDuration(elapsed))
}

func degradedMessage(rec models.FileRecord) string {
	return fmt.Sprintf("degraded %s: owner=%s size=%s modified=%s",
		rec.Path, rec.Owner, rec.Size.String(), rec.ModifiedAt.String())
}

// timestamp returns the current time as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders durations as "850ms", "5s", "1m30s" or "2h15m".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards every event.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                           {}
func (n *NoOpLogger) LogDebug(string)                           {}
func (n *NoOpLogger) LogInfo(string)                            {}
func (n *NoOpLogger) LogWarn(string)                            {}
func (n *NoOpLogger) LogError(string)                           {}
func (n *NoOpLogger) LogScanStart(string, *patterns.Set, int64) {}
func (n *NoOpLogger) LogStage(string, int, time.Duration)       {}
func (n *NoOpLogger) LogWalkError(error)                        {}
func (n *NoOpLogger) LogDegraded(models.FileRecord)             {}
func (n *NoOpLogger) LogReportWritten(string)                   {}
