// Package report lays out filtered records as worksheets, renders them as
// an .xlsx workbook and persists the workbook atomically.
//
// Render produces a models.Report in memory: the "All Users" sheet first,
// then one sheet per owner in group order. Workbook turns that report into
// an excelize file and Persist writes it once under a file lock.
package report

import (
	"time"
	"unicode/utf8"

	"github.com/harrison/diskreport/internal/aggregate"
	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
	"github.com/harrison/diskreport/internal/sizes"
)

// Context carries the run inputs that shape the report but are not part of
// the records themselves.
type Context struct {
	Date      time.Time
	Patterns  *patterns.Set
	Folder    string // Root folder as given by the user
	SizeLimit string // Size limit text as given by the user

	// OwnerTimestamps keeps the timestamp column on owner sheets.
	OwnerTimestamps bool
}

// Render builds the report for the filtered records. groups must come from
// aggregate.GroupByOwner over the same records and grandTotal from
// aggregate.GrandTotal.
func Render(filtered []models.FilteredRecord, groups []models.OwnerGroup, grandTotal int64, rc Context) (*models.Report, error) {
	rep := &models.Report{
		GrandTotalBytes: grandTotal,
		GeneratedAt:     rc.Date,
	}
	if rc.Patterns != nil {
		rep.Filename = BuildFilename(rc.Date, rc.Patterns, rc.Folder, rc.SizeLimit)
	}

	all := models.Sheet{
		Name:          models.AllRecordsSheet,
		Headers:       headers(sizes.TotalHeader(grandTotal), true),
		SubtotalBytes: grandTotal,
	}
	for _, rec := range aggregate.SortBySizeDesc(filtered) {
		all.Rows = append(all.Rows, row(rec, true))
	}
	rep.Sheets = append(rep.Sheets, all)

	namer := newSheetNamer()
	for _, g := range groups {
		name, err := namer.claim(g.Owner)
		if err != nil {
			return nil, err
		}
		sheet := models.Sheet{
			Name:          name,
			Owner:         g.Owner,
			Headers:       headers(sizes.FormatBinary(g.SubtotalBytes), rc.OwnerTimestamps),
			SubtotalBytes: g.SubtotalBytes,
		}
		for _, rec := range g.Records {
			sheet.Rows = append(sheet.Rows, row(rec, rc.OwnerTimestamps))
		}
		rep.Sheets = append(rep.Sheets, sheet)
	}

	return rep, nil
}

func headers(sizeHeader string, withTimestamp bool) []string {
	h := []string{models.ColumnFileName, models.ColumnAuthor, sizeHeader, models.ColumnFilePath}
	if withTimestamp {
		h = append(h, models.ColumnTimestamp)
	}
	return h
}

func row(rec models.FilteredRecord, withTimestamp bool) []string {
	r := []string{
		displayText(rec.Record.Name),
		displayText(rec.Record.Owner),
		rec.Display,
		displayText(rec.Record.Path),
	}
	if withTimestamp {
		r = append(r, rec.Record.ModifiedAt.String())
	}
	return r
}

// displayText replaces a string that is not valid UTF-8 with "?".
func displayText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return "?"
}
