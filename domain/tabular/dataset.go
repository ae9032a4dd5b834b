// Package tabular holds the in-memory representation of a spreadsheet and the
// header lookup used by every consumer of it.
package tabular

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dataset is a header row plus data rows, every cell already rendered as text.
// Rows may be shorter or longer than Headers.
type Dataset struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"values"`
	SheetName string     `json:"sheet_name,omitempty"`
}

// Cell returns the value at column idx of the given row, or "" when the row is
// too short or idx is negative.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// HasCell reports whether the row reaches column idx.
func HasCell(row []string, idx int) bool {
	return idx >= 0 && idx < len(row)
}

// IsEmpty reports whether the dataset has no header or no data rows.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Headers) == 0 || len(d.Rows) == 0
}

// NormalizeKey trims, collapses inner whitespace, lowercases and NFC-normalizes
// text so that composed and decomposed accents compare equal.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFC.String(s)), " "))
}
