package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	cause := stderrors.New("connection refused")

	withCause := NewNetworkError("download failed", cause)
	assert.Equal(t, "[NETWORK] download failed: connection refused", withCause.Error())

	withoutCause := NewNotFoundError("gilts workbook")
	assert.Equal(t, "[NOT_FOUND] gilts workbook not found", withoutCause.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewStorageError("write failed", cause)

	assert.True(t, stderrors.Is(err, cause))
}

func TestIsType(t *testing.T) {
	parseErr := NewParsingError("bad workbook", nil)

	assert.True(t, IsType(parseErr, ErrTypeParsing))
	assert.False(t, IsType(parseErr, ErrTypeNetwork))

	// Wrapped AppErrors are still recognised.
	wrapped := fmt.Errorf("convert: %w", parseErr)
	assert.True(t, IsType(wrapped, ErrTypeParsing))

	assert.False(t, IsType(stderrors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}

func TestWithContext(t *testing.T) {
	err := NewParsingError("bad workbook", nil).
		WithContext("file", "gilts_in_issue_14-03-2025.xls").
		WithContext("rows", 3)

	assert.Equal(t, "gilts_in_issue_14-03-2025.xls", err.Context["file"])
	assert.Equal(t, 3, err.Context["rows"])
}
