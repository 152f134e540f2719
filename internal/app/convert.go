// Package app wires the conversion pipeline together for the command
// line tools.
package app

import (
	"path/filepath"
	"time"

	"giltscli/internal/dataprocessing"
	"giltscli/internal/exporter"
	"giltscli/internal/files"
)

// Convert runs the full conversion: load the workbook, reformat its rows
// and write the CSV into outputDir. The output filename carries the
// report date parsed from the workbook name, or the date from now() when
// the name carries none. Returns the path of the created CSV.
//
// On any failure no output file is left behind: header location happens
// before the file is created, and the exporter removes partial output.
func Convert(workbook, outputDir string, now func() time.Time) (string, error) {
	doc, err := dataprocessing.LoadDocument(workbook)
	if err != nil {
		return "", err
	}

	result, err := dataprocessing.Reformat(doc)
	if err != nil {
		return "", err
	}

	csvPath := filepath.Join(outputDir, files.ExportName(filepath.Base(workbook), now))

	writer := exporter.NewCSVWriter()
	if err := writer.WriteCSV(csvPath, exporter.WriteOptions{Rows: result.Rows}); err != nil {
		return "", err
	}

	return csvPath, nil
}
