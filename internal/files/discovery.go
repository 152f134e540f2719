package files

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"giltscli/internal/errors"
)

// workbookPattern matches downloaded gilts workbooks regardless of
// whether the site served the legacy .xls or an OOXML .xlsx.
const workbookPattern = "gilts_in_issue_*.xls*"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindWorkbooks lists the downloaded gilts workbooks in dir.
func FindWorkbooks(dir string) ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(dir, workbookPattern))
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("invalid workbook pattern in %s", dir), err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}

		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// LatestWorkbook returns the most recently modified gilts workbook in
// dir. Mirrors the download step, which always writes the newest report
// last.
func LatestWorkbook(dir string) (string, error) {
	workbooks, err := FindWorkbooks(dir)
	if err != nil {
		return "", err
	}

	latest, ok := GetLatestFile(workbooks)
	if !ok {
		return "", errors.NewNotFoundError(fmt.Sprintf("gilts workbook in %s", dir))
	}

	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
