// Package exporter writes the reformatted gilt rows out as CSV.
//
// Quoting is encoding/csv's minimal default: a field is quoted only when
// it contains the delimiter, a quote or a line break. The policy is pinned
// by a golden-file test and must not drift between releases.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"giltscli/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Rows      [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the rows to a new CSV file at path, newline-terminated
// records with comma delimiters. On any failure the partially written
// file is removed so a failed conversion never leaves output behind.
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("path", path),
		slog.Int("row_count", len(options.Rows)))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create output file %s", path), err)
	}

	// discard removes the partial file after a write failure.
	discard := func(cause error, message string) error {
		file.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("Failed to remove partial CSV file",
				slog.String("path", path),
				slog.String("error", rmErr.Error()))
		}
		return errors.NewStorageError(message, cause)
	}

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return discard(err, "failed to write BOM")
		}
	}

	writer := csv.NewWriter(file)
	for i, row := range options.Rows {
		if err := writer.Write(row); err != nil {
			return discard(err, fmt.Sprintf("failed to write row %d", i))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return discard(err, "failed to flush CSV")
	}

	if err := file.Close(); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("Failed to remove partial CSV file",
				slog.String("path", path),
				slog.String("error", rmErr.Error()))
		}
		return errors.NewStorageError(fmt.Sprintf("failed to close output file %s", path), err)
	}

	return nil
}
