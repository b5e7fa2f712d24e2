package models

import (
	"strconv"
	"time"
)

// Owner sentinels
const (
	OwnerUnavailable = "N/A"     // Owner lookup failed
	OwnerUnknown     = "unknown" // Platform has no notion of file ownership
)

// SizeUnavailableText and TimestampUnknownText are the sentinel renderings
// written into records when a lookup fails.
const (
	SizeUnavailableText  = "N/A"
	TimestampUnknownText = "NAN"
)

// TimestampLayout renders modification times as month/day/year hour:minute.
const TimestampLayout = "01/02/2006 15:04"

// SizeKind tells whether a Size carries a byte count or a failure marker.
type SizeKind int

const (
	SizeKnown       SizeKind = iota // Bytes holds the exact byte count
	SizeNotFound                    // File vanished between discovery and stat
	SizeUnavailable                 // Any other stat failure
)

// Size is a byte count or an explicit "could not determine" marker.
type Size struct {
	Kind  SizeKind
	Bytes int64
	Path  string // set for SizeNotFound
}

// KnownSize returns a Size holding n bytes.
func KnownSize(n int64) Size {
	return Size{Kind: SizeKnown, Bytes: n}
}

// NotFoundSize returns the marker for a file that no longer exists.
func NotFoundSize(path string) Size {
	return Size{Kind: SizeNotFound, Path: path}
}

// UnavailableSize returns the generic failure marker.
func UnavailableSize() Size {
	return Size{Kind: SizeUnavailable}
}

// IsKnown reports whether the size is a numeric byte count.
func (s Size) IsKnown() bool {
	return s.Kind == SizeKnown
}

// String renders the byte count or the sentinel text.
func (s Size) String() string {
	switch s.Kind {
	case SizeKnown:
		return strconv.FormatInt(s.Bytes, 10)
	case SizeNotFound:
		return "file not found: " + s.Path
	default:
		return SizeUnavailableText
	}
}

// Timestamp is a minute-precision modification time or the unknown marker.
type Timestamp struct {
	Time  time.Time
	Known bool
}

// NewTimestamp truncates t to the minute.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Minute), Known: true}
}

// String renders the time with TimestampLayout, or "NAN" when unknown.
func (t Timestamp) String() string {
	if !t.Known {
		return TimestampUnknownText
	}
	return t.Time.Format(TimestampLayout)
}

// FileRecord holds the metadata collected for one discovered path.
// Records are values and are never mutated after extraction.
type FileRecord struct {
	Name       string    // Base name of the file
	Owner      string    // Owner name, or one of the owner sentinels
	Size       Size      // Byte count or failure marker
	Path       string    // Full path with invalid UTF-8 sequences dropped
	ModifiedAt Timestamp // Minute-precision modification time
}

// Degraded reports whether any lookup for this record fell back to a sentinel.
func (r FileRecord) Degraded() bool {
	return !r.Size.IsKnown() || !r.ModifiedAt.Known ||
		r.Owner == OwnerUnavailable || r.Owner == OwnerUnknown
}

// FilteredRecord is a FileRecord that passed the size threshold.
type FilteredRecord struct {
	Record  FileRecord
	Bytes   int64  // Coerced numeric size used for sorting and sums
	Display string // Human-readable size for the report cell
}

// OwnerGroup is the set of retained records sharing one owner string.
type OwnerGroup struct {
	Owner         string
	Records       []FilteredRecord // Sorted by Bytes descending, stable
	SubtotalBytes int64
}
