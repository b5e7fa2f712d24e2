package models

import (
	"errors"
	"fmt"
)

// ErrSheetNameCollision is returned when two distinct owners map to the
// same worksheet name.
var ErrSheetNameCollision = errors.New("sheet name collision")

// ConfigError reports invalid run input. It is always raised before any
// filesystem traversal starts.
type ConfigError struct {
	Field  string // Input that failed: "extensions", "root", "size_limit", ...
	Line   int    // 1-based line in the extensions file, 0 if not applicable
	Value  string // Offending value
	Reason string
	Err    error // Underlying cause, if any
}

func (e *ConfigError) Error() string {
	msg := "invalid " + e.Field
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PersistenceError reports that the report file could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
