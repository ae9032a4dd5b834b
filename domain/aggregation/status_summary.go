package aggregation

import (
	"fmt"
	"strconv"
	"strings"

	"mrportal/domain/tabular"
)

// StatusLabel maps a status value found in a sheet to the name shown in reports.
type StatusLabel struct {
	SheetValue  string `json:"sheet_value"`
	DisplayName string `json:"display_name"`
}

// SummaryColumns names the pre-aggregated columns of a regional sheet.
type SummaryColumns struct {
	YearPrefix       string `json:"year_prefix"`
	TotalColumn      string `json:"total_column"`
	PercentageColumn string `json:"percentage_column"`
}

// StatusConfig lists which statuses a regional summary reports and in which order.
type StatusConfig struct {
	MainStatuses       []StatusLabel  `json:"main_statuses"`
	OtherStatuses      []StatusLabel  `json:"other_statuses"`
	OtherStatusesGroup string         `json:"other_statuses_group"`
	IncludeBlank       bool           `json:"include_blank"`
	Columns            SummaryColumns `json:"columns"`
}

// GroupName is the heading for the other statuses, "Outros" by default.
func (c StatusConfig) GroupName() string {
	if c.OtherStatusesGroup == "" {
		return "Outros"
	}
	return c.OtherStatusesGroup
}

func (c SummaryColumns) withDefaults() SummaryColumns {
	if c.YearPrefix == "" {
		c.YearPrefix = "Acionados em"
	}
	if c.TotalColumn == "" {
		c.TotalColumn = "TOTAL"
	}
	if c.PercentageColumn == "" {
		c.PercentageColumn = "Percentual"
	}
	return c
}

// StatusRow is one configured status with the counts read from the sheet.
type StatusRow struct {
	Name       string      `json:"name"`
	SheetValue string      `json:"sheet_value"`
	Years      map[int]int `json:"years"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
}

// StatusSummary splits a regional sheet into main and other statuses.
type StatusSummary struct {
	MainStatuses  []StatusRow `json:"main_statuses"`
	OtherStatuses []StatusRow `json:"other_statuses"`
}

// SummarizeStatuses reads a sheet that is already aggregated per status: one
// "<prefix> <year>" column per year plus TOTAL and Percentual. Year counts of
// repeated status rows add up; TOTAL and Percentual keep the last value read.
// Statuses not listed in cfg are dropped. A missing status column is returned
// as *tabular.ColumnNotFoundError; other missing columns read as zero.
func SummarizeStatuses(ds *tabular.Dataset, statusColumn string, years []int, cfg StatusConfig) (*StatusSummary, error) {
	summary := &StatusSummary{MainStatuses: []StatusRow{}, OtherStatuses: []StatusRow{}}
	if ds.IsEmpty() {
		return summary, nil
	}

	statusIdx, err := ds.ResolveColumn(statusColumn)
	if err != nil {
		return nil, err
	}

	cols := cfg.Columns.withDefaults()
	yearIdx := make(map[int]int, len(years))
	for _, year := range years {
		idx, err := ds.ResolveColumn(fmt.Sprintf("%s %d", cols.YearPrefix, year))
		if err != nil {
			idx = -1
		}
		yearIdx[year] = idx
	}
	totalIdx, err := ds.ResolveColumn(cols.TotalColumn)
	if err != nil {
		totalIdx = -1
	}
	pctIdx, err := ds.ResolveColumn(cols.PercentageColumn)
	if err != nil {
		pctIdx = -1
	}

	counts := make(map[string]*StatusRow)
	for _, row := range ds.Rows {
		if !tabular.HasCell(row, statusIdx) {
			continue
		}
		status := strings.TrimSpace(row[statusIdx])
		if status == "" && !cfg.IncludeBlank {
			continue
		}

		key := tabular.NormalizeKey(status)
		entry, ok := counts[key]
		if !ok {
			entry = &StatusRow{SheetValue: status, Years: make(map[int]int, len(years))}
			for _, year := range years {
				entry.Years[year] = 0
			}
			counts[key] = entry
		}

		for _, year := range years {
			if n, ok := parseCount(tabular.Cell(row, yearIdx[year])); ok {
				entry.Years[year] += n
			}
		}
		if n, ok := parseCount(tabular.Cell(row, totalIdx)); ok {
			entry.Total = n
		}
		if pct, ok := parsePercentage(tabular.Cell(row, pctIdx)); ok {
			entry.Percentage = pct
		}
	}

	summary.MainStatuses = pickConfigured(counts, cfg.MainStatuses)
	summary.OtherStatuses = pickConfigured(counts, cfg.OtherStatuses)
	return summary, nil
}

func pickConfigured(counts map[string]*StatusRow, labels []StatusLabel) []StatusRow {
	rows := []StatusRow{}
	for _, label := range labels {
		entry, ok := counts[tabular.NormalizeKey(label.SheetValue)]
		if !ok {
			continue
		}
		row := *entry
		row.SheetValue = label.SheetValue
		row.Name = label.DisplayName
		if row.Name == "" {
			row.Name = label.SheetValue
		}
		rows = append(rows, row)
	}
	return rows
}

// parseCount reads integers written with thousands separators ("1.234", "1,234").
func parseCount(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(",", "", ".", "", " ", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePercentage reads "12,5%" or "12.5".
func parsePercentage(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
