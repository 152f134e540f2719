package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giltscli/internal/errors"
)

func touch(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, dir, "gilts_in_issue_14-03-2025.xls", now)
	touch(t, dir, "gilts_in_issue_15-03-2025.xlsx", now)
	touch(t, dir, "notes.txt", now)
	touch(t, dir, "gilts_in_issue_16-03-2025.csv", now)

	workbooks, err := FindWorkbooks(dir)
	require.NoError(t, err)
	require.Len(t, workbooks, 2)

	names := []string{workbooks[0].Name, workbooks[1].Name}
	assert.Contains(t, names, "gilts_in_issue_14-03-2025.xls")
	assert.Contains(t, names, "gilts_in_issue_15-03-2025.xlsx")
}

func TestFindWorkbooksEmptyDir(t *testing.T) {
	workbooks, err := FindWorkbooks(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, workbooks)
}

func TestLatestWorkbook(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	touch(t, dir, "gilts_in_issue_13-03-2025.xls", base)
	want := touch(t, dir, "gilts_in_issue_15-03-2025.xls", base.Add(30*time.Minute))
	touch(t, dir, "gilts_in_issue_14-03-2025.xls", base.Add(10*time.Minute))

	latest, err := LatestWorkbook(dir)
	require.NoError(t, err)
	assert.Equal(t, want, latest)
}

func TestLatestWorkbookNoneFound(t *testing.T) {
	_, err := LatestWorkbook(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "a", ModTime: now.Add(-2 * time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}
