package excel

import (
	"path/filepath"
	"strings"

	"mrportal/domain/tabular"
)

// ReadOptions selects what part of a file becomes the dataset.
type ReadOptions struct {
	// SheetName is the workbook tab to read. Empty means the first tab.
	SheetName string `json:"sheet_name"`
	// HeaderRow is the zero-based row holding the column names. Rows above it
	// are ignored.
	HeaderRow int `json:"header_row"`
}

// AllowedExtensions are the upload formats the portal accepts.
var AllowedExtensions = []string{"xlsx", "xls", "csv"}

// IsAllowedFile reports whether filename has an accepted extension.
func IsAllowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FileReader opens files with a fresh DataReader per call.
type FileReader struct{}

// ReadFile reads sheetName of path with the header on the first row.
func (FileReader) ReadFile(path, sheetName string) (*tabular.Dataset, error) {
	return NewDataReader(path, ReadOptions{SheetName: sheetName}).ReadData()
}
