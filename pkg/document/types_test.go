package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{"md", FormatMarkdown},
		{".MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"notes.htm", FormatHTML},
		{"/tmp/report.xlsx", FormatXLSX},
		{"txt", FormatText},
		{"json", FormatJSON},
		{"pptx", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromExtension(tt.ext))
		})
	}
}

func TestTableDataNormalizedRow(t *testing.T) {
	table := TableData{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1"}, {"1", "2", "3"}},
	}

	assert.Equal(t, []string{"1", ""}, table.NormalizedRow(0))
	assert.Equal(t, []string{"1", "2"}, table.NormalizedRow(1))
	assert.Equal(t, []string{"", ""}, table.NormalizedRow(5))
	assert.Equal(t, 2, table.Width())
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := fmt.Errorf("import: %w", NewParseError(FormatDOCX, "corrupt container", cause))

	assert.True(t, IsParseError(err))
	assert.False(t, IsUnsupported(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "corrupt container")

	unsupported := &UnsupportedFormatError{Extension: "pptx"}
	assert.True(t, IsUnsupported(unsupported))
	assert.Contains(t, unsupported.Error(), ".pptx")

	ioErr := &FileIOError{Path: "a.md", Cause: errors.New("permission denied")}
	assert.Contains(t, ioErr.Error(), "a.md")
}
