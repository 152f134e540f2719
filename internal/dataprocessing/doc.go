// Package dataprocessing turns the published "Gilts in Issue" workbook into
// the rows of the normalized CSV export.
//
// The package is organized into two main components:
//
// 1. Document: reads the first sheet of a legacy .xls or OOXML .xlsx
// workbook into trimmed, blank-padded rows of strings
//
// 2. Reformat: locates the column-header row heuristically, classifies
// every data row (group label, section header, empty, data) and assembles
// the output rows in the fixed title/totals/header order
//
// Basic usage:
//
//	doc, err := dataprocessing.LoadDocument("gilts_in_issue_14-03-2025.xls")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := dataprocessing.Reformat(doc)
package dataprocessing
