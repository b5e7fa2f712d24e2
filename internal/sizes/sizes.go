// Package sizes holds the byte-unit contract shared by the CLI and the
// report, and the two human-readable size renderings used in reports.
//
// FormatDecimal (1000-based thresholds) renders per-row size cells while
// FormatBinary (1024-based) renders the total and subtotal headers. The two
// disagree for values between the decimal and binary boundaries, e.g. 1000
// bytes is "1.00KB" in a row and "1000.00 B" in a header.
package sizes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harrison/diskreport/internal/models"
)

// Multipliers maps a size-limit unit to its byte multiplier.
var Multipliers = map[string]int64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
	"TB": 1024 * 1024 * 1024 * 1024,
}

var binaryUnits = []string{"B", "KB", "MB", "GB", "TB"}

var limitPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]+)$`)

// ParseLimit converts a size limit such as "10MB" or "1.5gb" to bytes.
// Units are case-insensitive; fractional results are truncated.
func ParseLimit(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	m := limitPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, &models.ConfigError{
			Field:  "size limit",
			Value:  s,
			Reason: "use <number><unit>, e.g. 100B, 1KB, 10MB, 5GB",
		}
	}

	unit := strings.ToUpper(m[2])
	multiplier, ok := Multipliers[unit]
	if !ok {
		return 0, &models.ConfigError{
			Field:  "size limit",
			Value:  s,
			Reason: "unit must be one of B, KB, MB, GB or TB",
		}
	}

	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > (1<<63-1)/multiplier {
			return 0, &models.ConfigError{Field: "size limit", Value: s, Reason: "value out of range"}
		}
		return n * multiplier, nil
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &models.ConfigError{Field: "size limit", Value: s, Err: err}
	}
	bytes := f * float64(multiplier)
	if bytes >= 1<<63 {
		return 0, &models.ConfigError{Field: "size limit", Value: s, Reason: "value out of range"}
	}
	return int64(bytes), nil
}

// FormatDecimal renders a per-row size cell: thresholds at 1e9, 1e6 and 1e3
// select GB, MB and KB, smaller values use "bytes". The suffix follows the
// number without a space.
func FormatDecimal(bytes int64) string {
	v := float64(bytes)
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fGB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fMB", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fKB", v/1e3)
	default:
		return fmt.Sprintf("%.2fbytes", v)
	}
}

// FormatBinary divides by 1024 while the value is at least 1024 and a
// larger unit remains, and renders "<value> <unit>" with two decimals.
func FormatBinary(bytes int64) string {
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(binaryUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", v, binaryUnits[unit])
}

// TotalHeader is the size header of the aggregate sheet.
func TotalHeader(bytes int64) string {
	return "Size: " + FormatBinary(bytes)
}
