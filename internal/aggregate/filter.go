// Package aggregate filters extracted records by size and groups the
// survivors per owner.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/sizes"
)

// CoerceNumeric returns the byte count used for filtering, sorting and
// sums. Records whose size is a failure marker count as 0.
func CoerceNumeric(rec models.FileRecord) int64 {
	if rec.Size.IsKnown() {
		return rec.Size.Bytes
	}
	return 0
}

// Filter keeps records whose coerced size is at least threshold. Input
// order is preserved. A threshold of 0 keeps every record, including the
// ones with unknown sizes.
func Filter(records []models.FileRecord, threshold int64) ([]models.FilteredRecord, error) {
	if threshold < 0 {
		return nil, &models.ConfigError{
			Field:  "size limit",
			Value:  strconv.FormatInt(threshold, 10),
			Reason: "threshold must not be negative",
		}
	}

	kept := make([]models.FilteredRecord, 0, len(records))
	for _, rec := range records {
		n := CoerceNumeric(rec)
		if n < threshold {
			continue
		}
		kept = append(kept, models.FilteredRecord{
			Record:  rec,
			Bytes:   n,
			Display: sizes.FormatDecimal(n),
		})
	}
	return kept, nil
}

// SortBySizeDesc returns a copy of records ordered by Bytes descending.
// Equal sizes keep their input order.
func SortBySizeDesc(records []models.FilteredRecord) []models.FilteredRecord {
	sorted := make([]models.FilteredRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bytes > sorted[j].Bytes
	})
	return sorted
}

// GrandTotal sums Bytes over records.
func GrandTotal(records []models.FilteredRecord) int64 {
	var total int64
	for _, rec := range records {
		total += rec.Bytes
	}
	return total
}
