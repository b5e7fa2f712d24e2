package logger

import (
	"time"

	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
)

// RunLogger is the event set shared by ConsoleLogger, FileLogger and
// NoOpLogger.
type RunLogger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	LogScanStart(root string, set *patterns.Set, thresholdBytes int64)
	LogStage(stage string, count int, elapsed time.Duration)
	LogWalkError(err error)
	LogDegraded(rec models.FileRecord)
	LogReportWritten(path string)
}

// MultiLogger forwards every event to each of its loggers in order.
type MultiLogger struct {
	loggers []RunLogger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...RunLogger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogScanStart(root string, set *patterns.Set, thresholdBytes int64) {
	for _, l := range m.loggers {
		l.LogScanStart(root, set, thresholdBytes)
	}
}

func (m *MultiLogger) LogStage(stage string, count int, elapsed time.Duration) {
	for _, l := range m.loggers {
		l.LogStage(stage, count, elapsed)
	}
}

func (m *MultiLogger) LogWalkError(err error) {
	for _, l := range m.loggers {
		l.LogWalkError(err)
	}
}

func (m *MultiLogger) LogDegraded(rec models.FileRecord) {
	for _, l := range m.loggers {
		l.LogDegraded(rec)
	}
}

func (m *MultiLogger) LogReportWritten(path string) {
	for _, l := range m.loggers {
		l.LogReportWritten(path)
	}
}
