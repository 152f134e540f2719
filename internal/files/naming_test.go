package files

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookName(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "gilts_in_issue_14-03-2025.xls", WorkbookName(date))
}

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected time.Time
		ok       bool
	}{
		{
			name:     "standard download name",
			filename: "gilts_in_issue_14-03-2025.xls",
			expected: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "xlsx extension",
			filename: "gilts_in_issue_01-12-2024.xlsx",
			expected: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "full path is reduced to its base",
			filename: "/data/downloads/gilts_in_issue_14-03-2025.xls",
			expected: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "extra dots after the date",
			filename: "gilts_in_issue_14-03-2025.backup.xls",
			expected: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "no date segment",
			filename: "gilts_in_issue.xls",
			ok:       false,
		},
		{
			name:     "wrong date format",
			filename: "gilts_in_issue_2025-03-14.xls",
			ok:       false,
		},
		{
			name:     "impossible date",
			filename: "gilts_in_issue_32-13-2025.xls",
			ok:       false,
		},
		{
			name:     "no underscores at all",
			filename: "report.xls",
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := DateFromFilename(tt.filename)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, date)
			}
		})
	}
}

func TestExportName(t *testing.T) {
	fixedNow := func() time.Time {
		return time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		sourceName string
		expected   string
	}{
		{
			name:       "date taken from the source name",
			sourceName: "gilts_in_issue_14-03-2025.xls",
			expected:   "gilts_in_issue_20250314.csv",
		},
		{
			name:       "current date when source carries none",
			sourceName: "gilts_in_issue.xls",
			expected:   "gilts_in_issue_20250602.csv",
		},
		{
			name:       "current date on unparsable date segment",
			sourceName: "gilts_in_issue_latest.xls",
			expected:   "gilts_in_issue_20250602.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExportName(tt.sourceName, fixedNow))
		})
	}
}
