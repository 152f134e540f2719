package dataprocessing

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"giltscli/internal/errors"
)

// Document is an in-memory snapshot of the first sheet of a workbook:
// rows of trimmed cell strings, blank-padded to a uniform column count.
// It is built once by LoadDocument and never mutated afterwards.
type Document struct {
	rows [][]string
	cols int
}

// NewDocument builds a Document from raw sheet rows. Every cell is
// whitespace-trimmed and ragged rows are padded with blank cells so all
// rows share the width of the widest one.
func NewDocument(raw [][]string) Document {
	cols := 0
	for _, row := range raw {
		if len(row) > cols {
			cols = len(row)
		}
	}

	rows := make([][]string, len(raw))
	for i, row := range raw {
		padded := make([]string, cols)
		for j, cell := range row {
			padded[j] = strings.TrimSpace(cell)
		}
		rows[i] = padded
	}

	return Document{rows: rows, cols: cols}
}

// RowCount returns the number of rows in the sheet.
func (d Document) RowCount() int {
	return len(d.rows)
}

// ColumnCount returns the uniform column count of the sheet.
func (d Document) ColumnCount() int {
	return d.cols
}

// Row returns the padded cells of row i. Indexes past the end of the
// sheet yield an all-blank row of the sheet's width.
func (d Document) Row(i int) []string {
	if i < 0 || i >= len(d.rows) {
		return make([]string, d.cols)
	}
	return d.rows[i]
}

// LoadDocument opens the workbook at path and reads its first sheet.
// Legacy binary .xls files are read with the xls package, anything else
// is handed to excelize. An HTML error page saved with a spreadsheet
// extension (the DMO bot protection does this) is rejected up front.
func LoadDocument(path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.NewNotFoundError(fmt.Sprintf("input file %s", path))
		}
		return Document{}, errors.NewStorageError(fmt.Sprintf("cannot stat input file %s", path), err)
	}

	if looksLikeHTML(path) {
		return Document{}, errors.NewParsingError(
			fmt.Sprintf("%s contains HTML, not spreadsheet data (bot protection page?)", filepath.Base(path)), nil)
	}

	var (
		raw [][]string
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		raw, err = readLegacySheet(path)
	} else {
		raw, err = readOOXMLSheet(path)
	}
	if err != nil {
		return Document{}, errors.NewParsingError(
			fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}

	doc := NewDocument(raw)
	slog.Info("Loaded workbook",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", doc.RowCount()),
		slog.Int("columns", doc.ColumnCount()))

	return doc, nil
}

// readOOXMLSheet reads the first sheet of an .xlsx/.xlsm workbook.
func readOOXMLSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// readLegacySheet reads the first sheet of a legacy BIFF .xls workbook.
func readLegacySheet(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// looksLikeHTML sniffs the start of the file for an HTML document.
func looksLikeHTML(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}

	head := bytes.ToLower(bytes.TrimSpace(buf[:n]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
