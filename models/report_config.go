package models

import (
	"strings"

	"mrportal/domain/aggregation"
)

// RegionalSheet points a regional at a remote spreadsheet.
type RegionalSheet struct {
	Regional      string `json:"regional"`
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
	StatusColumn  string `json:"status_column"`
}

// ReportConfig is the JSON report configuration file.
type ReportConfig struct {
	DefaultYears []int                    `json:"default_years"`
	Years        []int                    `json:"years"`
	Spreadsheets []RegionalSheet          `json:"spreadsheets"`
	StatusConfig aggregation.StatusConfig `json:"status_config"`
	Columns      map[string]any           `json:"columns"`
}

// SheetFor returns the remote sheet configured for a regional.
func (c *ReportConfig) SheetFor(regional string) (RegionalSheet, bool) {
	for _, sheet := range c.Spreadsheets {
		if strings.EqualFold(sheet.Regional, regional) {
			return sheet, true
		}
	}
	return RegionalSheet{}, false
}

// YearsOrDefault returns requested when non-empty, then default_years, then years.
func (c *ReportConfig) YearsOrDefault(requested []int) []int {
	switch {
	case len(requested) > 0:
		return requested
	case len(c.DefaultYears) > 0:
		return c.DefaultYears
	default:
		return c.Years
	}
}
