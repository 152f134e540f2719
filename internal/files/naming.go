package files

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// downloadDateLayout is the date embedded in downloaded workbook names,
// e.g. gilts_in_issue_14-03-2025.xls.
const downloadDateLayout = "02-01-2006"

// exportDateLayout is the date embedded in export names,
// e.g. gilts_in_issue_20250314.csv.
const exportDateLayout = "20060102"

// WorkbookName returns the download filename for a report date.
func WorkbookName(date time.Time) string {
	return fmt.Sprintf("gilts_in_issue_%s.xls", date.Format(downloadDateLayout))
}

// DateFromFilename extracts the report date from a workbook filename.
// The date is the last underscore-separated segment before the first
// dot, in DD-MM-YYYY form. Returns false when no date can be parsed.
func DateFromFilename(name string) (time.Time, bool) {
	base := filepath.Base(name)

	segments := strings.Split(base, "_")
	last := segments[len(segments)-1]
	dateStr, _, _ := strings.Cut(last, ".")

	t, err := time.Parse(downloadDateLayout, dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExportName derives the CSV filename for a source workbook. When the
// source name carries no parsable date the current date from now() is
// used instead.
func ExportName(sourceName string, now func() time.Time) string {
	date, ok := DateFromFilename(sourceName)
	if !ok {
		date = now()
	}
	return fmt.Sprintf("gilts_in_issue_%s.csv", date.Format(exportDateLayout))
}
