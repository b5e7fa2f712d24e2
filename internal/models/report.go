package models

import "time"

// AllRecordsSheet is the name of the aggregate sheet.
const AllRecordsSheet = "All Users"

// Column headers shared by every sheet. SizeColumn is overwritten with the
// formatted total or subtotal when the report is rendered.
const (
	ColumnFileName  = "File Name"
	ColumnAuthor    = "Author"
	ColumnSize      = "Size"
	ColumnFilePath  = "File Path"
	ColumnTimestamp = "Modified Timestamp"
)

// SizeColumn is the zero-based index of the size column.
const SizeColumn = 2

// Sheet is one rendered worksheet.
type Sheet struct {
	Name          string     // Worksheet name after normalization
	Owner         string     // Owner string; empty for the aggregate sheet
	Headers       []string   // Header row, size header already replaced
	Rows          [][]string // Display rows
	SubtotalBytes int64      // Sum of the rows' coerced sizes
}

// Report is the complete in-memory workbook for one run.
// It is built once and persisted once.
type Report struct {
	Sheets          []Sheet
	GrandTotalBytes int64
	Filename        string
	GeneratedAt     time.Time
}

// Sheet returns the sheet with the given name, or nil.
func (r *Report) Sheet(name string) *Sheet {
	for i := range r.Sheets {
		if r.Sheets[i].Name == name {
			return &r.Sheets[i]
		}
	}
	return nil
}

// OwnerSheets returns every sheet except the aggregate one.
func (r *Report) OwnerSheets() []Sheet {
	if len(r.Sheets) <= 1 {
		return nil
	}
	return r.Sheets[1:]
}
