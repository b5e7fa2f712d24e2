// Package patterns validates and normalizes extension patterns of the form
// "*.<suffix>".
package patterns

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/harrison/diskreport/internal/models"
)

// Prefix is the mandatory start of every pattern.
const Prefix = "*."

// Set is an immutable, validated list of extension patterns.
type Set struct {
	patterns []string
	suffixes []string // "." + suffix, aligned with patterns
}

// Validate checks that every element starts with "*." and returns a Set.
// The first malformed element rejects the whole input; nothing is
// partially applied.
func Validate(lines []string) (*Set, error) {
	if len(lines) == 0 {
		return nil, &models.ConfigError{Field: "extensions", Reason: "no extension patterns"}
	}

	set := &Set{
		patterns: make([]string, 0, len(lines)),
		suffixes: make([]string, 0, len(lines)),
	}
	for i, raw := range lines {
		p := strings.TrimSpace(raw)
		if !strings.HasPrefix(p, Prefix) {
			return nil, &models.ConfigError{
				Field:  "extensions",
				Line:   i + 1,
				Value:  raw,
				Reason: fmt.Sprintf("pattern must start with %q", Prefix),
			}
		}
		if len(p) == len(Prefix) {
			return nil, &models.ConfigError{
				Field:  "extensions",
				Line:   i + 1,
				Value:  raw,
				Reason: "pattern has an empty extension",
			}
		}
		set.patterns = append(set.patterns, p)
		set.suffixes = append(set.suffixes, p[1:])
	}
	return set, nil
}

// LoadFile reads one pattern per line from path and validates them.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &models.ConfigError{Field: "extensions file", Value: path, Reason: "file not found"}
		}
		return nil, &models.ConfigError{Field: "extensions file", Value: path, Err: err}
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &models.ConfigError{Field: "extensions file", Value: path, Err: err}
	}
	return Validate(lines)
}

// Patterns returns a copy of the validated patterns.
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Suffixes returns the ".<ext>" part of each pattern, aligned with
// Patterns.
func (s *Set) Suffixes() []string {
	return append([]string(nil), s.suffixes...)
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Matches returns every pattern whose extension is a literal,
// case-sensitive suffix of name. A name matched by overlapping patterns
// is returned once per pattern.
func (s *Set) Matches(name string) []string {
	var matched []string
	for i, suffix := range s.suffixes {
		if strings.HasSuffix(name, suffix) {
			matched = append(matched, s.patterns[i])
		}
	}
	return matched
}

// ExtensionList joins the patterns with commas and strips every "*".
// "*.odb", "*.bof" becomes ".odb,.bof".
func (s *Set) ExtensionList() string {
	return strings.ReplaceAll(strings.Join(s.patterns, ","), "*", "")
}

// Overlap names two patterns that can both match one file.
type Overlap struct {
	Pattern string
	Covers  string // Pattern whose matches are a subset of Pattern's
}

// Overlaps lists pattern pairs that make discovery emit the same path more
// than once, including exact duplicates.
func (s *Set) Overlaps() []Overlap {
	var overlaps []Overlap
	for i := range s.suffixes {
		for j := range s.suffixes {
			if i == j {
				continue
			}
			// "*.gz" matches every "*.tar.gz" file
			if strings.HasSuffix(s.suffixes[j], s.suffixes[i]) {
				if s.suffixes[i] == s.suffixes[j] && j < i {
					continue
				}
				overlaps = append(overlaps, Overlap{Pattern: s.patterns[i], Covers: s.patterns[j]})
			}
		}
	}
	return overlaps
}
