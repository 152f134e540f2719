package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	// headerScanWindow bounds the search for the column-header row.
	headerScanWindow = 15

	// titleRowIndex and totalsRowIndex are fixed positions in the DMO
	// template: the report title on the first row and the total amount
	// in issue on the sixth.
	titleRowIndex  = 0
	totalsRowIndex = 5
)

// headerTokens must both appear (exact match after trimming) among the
// cells of the column-header row.
var headerTokens = [...]string{"ISIN Code", "Redemption Date"}

// groupLabels mark the maturity-band rows interleaved with the gilt
// rows. They carry no data and are dropped from the output.
var groupLabels = map[string]bool{
	"Ultra-Short": true,
	"Short":       true,
	"Medium":      true,
	"Long":        true,
}

// RowClass is the classification of a sheet row below the header row.
type RowClass int

const (
	// RowData is a regular gilt row, retained in the output.
	RowData RowClass = iota
	// RowGroupLabel is a maturity-band label row, dropped.
	RowGroupLabel
	// RowSectionHeader introduces a section such as "Index-linked Gilts".
	// Retained in the output and tracked for reporting.
	RowSectionHeader
	// RowEmpty is a row whose cells are all blank, dropped.
	RowEmpty
)

// HeaderNotFoundError reports that no row within the scan window
// contained both header tokens.
type HeaderNotFoundError struct {
	RowsScanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("could not find header row (%q and %q) in first %d rows",
		headerTokens[0], headerTokens[1], e.RowsScanned)
}

// FindHeaderRow scans the first 15 rows (or fewer on a short sheet) for
// the one containing both "ISIN Code" and "Redemption Date" and returns
// its index. Single pass, first match wins.
func FindHeaderRow(doc Document) (int, error) {
	window := headerScanWindow
	if doc.RowCount() < window {
		window = doc.RowCount()
	}

	for i := 0; i < window; i++ {
		row := doc.Row(i)
		found := 0
		for _, token := range headerTokens {
			for _, cell := range row {
				if cell == token {
					found++
					break
				}
			}
		}
		if found == len(headerTokens) {
			return i, nil
		}
	}

	return -1, &HeaderNotFoundError{RowsScanned: window}
}

// ClassifyRow classifies row i of the sheet, which must lie below the
// header row. The check order matters: a group label would otherwise
// also satisfy the blank-second-cell section-header test.
func ClassifyRow(doc Document, i, headerRow int) RowClass {
	row := doc.Row(i)

	var label string
	if len(row) > 0 {
		label = row[0]
	}

	if groupLabels[label] {
		return RowGroupLabel
	}

	if i > headerRow+1 {
		secondBlank := len(row) < 2 || row[1] == ""
		if label != "" && secondBlank {
			return RowSectionHeader
		}
		if strings.Contains(label, "Index-linked") {
			return RowSectionHeader
		}
	}

	empty := true
	for _, cell := range row {
		if cell != "" {
			empty = false
			break
		}
	}
	if empty {
		return RowEmpty
	}

	return RowData
}

// Result holds the reformatted sheet: the CSV rows in output order plus
// the locations the heuristics settled on, for reporting.
type Result struct {
	// Rows are the output rows: title, totals, column headers, then
	// every retained data and section-header row in original order.
	Rows [][]string
	// HeaderRow is the located column-header row index in the input.
	HeaderRow int
	// SectionHeaders lists the input indices of retained section-header
	// rows. Informational only; the rows themselves sit in Rows.
	SectionHeaders []int
}

// Reformat assembles the normalized CSV rows from the sheet. It fails
// with *HeaderNotFoundError before producing anything when the header
// row cannot be located.
func Reformat(doc Document) (*Result, error) {
	headerRow, err := FindHeaderRow(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		HeaderRow: headerRow,
		Rows: [][]string{
			doc.Row(titleRowIndex),
			doc.Row(totalsRowIndex),
			doc.Row(headerRow),
		},
	}

	for i := headerRow + 1; i < doc.RowCount(); i++ {
		switch ClassifyRow(doc, i, headerRow) {
		case RowGroupLabel, RowEmpty:
			continue
		case RowSectionHeader:
			result.SectionHeaders = append(result.SectionHeaders, i)
			result.Rows = append(result.Rows, doc.Row(i))
		default:
			result.Rows = append(result.Rows, doc.Row(i))
		}
	}

	slog.Info("Reformatted sheet",
		slog.Int("header_row", headerRow),
		slog.Int("section_headers", len(result.SectionHeaders)),
		slog.Int("output_rows", len(result.Rows)))

	return result, nil
}
