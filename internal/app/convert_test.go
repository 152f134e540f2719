package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"giltscli/internal/dataprocessing"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
}

// giltsFixture mirrors the layout of a real DMO "Gilts in Issue" sheet:
// title, totals on row 6, column headers on row 9, then maturity-band
// labels and gilt rows.
func giltsFixture(t *testing.T, dir, name string) string {
	t.Helper()

	rows := [][]interface{}{
		{"Gilts in Issue as at 14 Mar 2025"},
		{},
		{},
		{},
		{},
		{"Total amount in issue:", "2,558,312.34"},
		{},
		{},
		{"Name", "ISIN Code", "Coupon", "Redemption Date"},
		{},
		{"Short", "", "", ""},
		{"UK Treasury 2027", "GB00XYZ789", "4.125%", "2027-01-29"},
		{"UK Treasury 2030", "GB00ABC123", "1.5%", "2030-01-01"},
		{},
		{"Index-linked Gilts", "", "", ""},
		{"Medium", "", "", ""},
		{"UK Treasury IL 2033", "GB00ILG456", "0.75%", "2033-03-22"},
	}

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	workbook := giltsFixture(t, dir, "gilts_in_issue_14-03-2025.xlsx")
	outputDir := filepath.Join(dir, "exports")

	csvPath, err := Convert(workbook, outputDir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "gilts_in_issue_20250314.csv"), csvPath)

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 7)

	assert.Equal(t, "Gilts in Issue as at 14 Mar 2025,,,", lines[0])
	assert.Equal(t, "Total amount in issue:,\"2,558,312.34\",,", lines[1])
	assert.Equal(t, "Name,ISIN Code,Coupon,Redemption Date", lines[2])
	assert.Equal(t, "UK Treasury 2027,GB00XYZ789,4.125%,2027-01-29", lines[3])
	assert.Equal(t, "UK Treasury 2030,GB00ABC123,1.5%,2030-01-01", lines[4])
	assert.Equal(t, "Index-linked Gilts,,,", lines[5])
	assert.Equal(t, "UK Treasury IL 2033,GB00ILG456,0.75%,2033-03-22", lines[6])
}

func TestConvertUsesCurrentDateWhenNameHasNone(t *testing.T) {
	dir := t.TempDir()
	workbook := giltsFixture(t, dir, "gilts_in_issue.xlsx")

	csvPath, err := Convert(workbook, dir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "gilts_in_issue_20250602.csv", filepath.Base(csvPath))
}

func TestConvertIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	workbook := giltsFixture(t, dir, "gilts_in_issue_14-03-2025.xlsx")

	firstPath, err := Convert(workbook, filepath.Join(dir, "run1"), fixedNow)
	require.NoError(t, err)
	secondPath, err := Convert(workbook, filepath.Join(dir, "run2"), fixedNow)
	require.NoError(t, err)

	first, err := os.ReadFile(firstPath)
	require.NoError(t, err)
	second, err := os.ReadFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConvertHeaderNotFoundLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	row := []interface{}{"Name", "Code", "Coupon", "Maturity"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &row))
	workbook := filepath.Join(dir, "gilts_in_issue_14-03-2025.xlsx")
	require.NoError(t, f.SaveAs(workbook))
	require.NoError(t, f.Close())

	outputDir := filepath.Join(dir, "exports")
	_, err := Convert(workbook, outputDir, fixedNow)
	require.Error(t, err)

	var notFound *dataprocessing.HeaderNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// The output directory must not have been touched.
	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertMissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	_, err := Convert(filepath.Join(dir, "missing.xlsx"), dir, fixedNow)
	assert.Error(t, err)
}
