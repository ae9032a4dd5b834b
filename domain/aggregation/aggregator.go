// Package aggregation turns spreadsheet rows into per-year status counts:
// total demanded, completed, canceled and in progress with subcategories.
// Every function here is a pure transformation of its arguments.
package aggregation

import (
	"errors"
	"fmt"
	"strings"

	"mrportal/domain/tabular"
)

// DefaultYearColumn is used when Options.YearColumn is empty.
const DefaultYearColumn = "ano Acionamento"

// Options configures one aggregation run.
type Options struct {
	StatusColumn string
	YearColumn   string
	YearMode     YearMode
	Years        []int
	Filters      Filters
	Classifier   Classifier
	// Precision is the number of decimals percentages are rounded to.
	Precision int
}

func (o Options) yearColumn() string {
	if strings.TrimSpace(o.YearColumn) == "" {
		return DefaultYearColumn
	}
	return o.YearColumn
}

func (o Options) classifier() Classifier {
	c := o.Classifier
	if c.Completed == nil {
		c.Completed = BySubstring(DefaultCompletedPattern)
	}
	if c.Canceled == nil {
		c.Canceled = ByAllowlist(nil)
	}
	return c
}

// Aggregate counts the rows of ds by status and year. A missing status, year
// or filter column does not fail: the zero-count result carries a warning.
func Aggregate(ds *tabular.Dataset, opts Options) *Result {
	years := uniqueYears(opts.Years)
	result := NewResult(years)

	var headers []string
	var rows [][]string
	if ds != nil {
		headers = ds.Headers
		rows = ds.Rows
	}

	statusIdx, err := tabular.ResolveColumn(headers, opts.StatusColumn)
	if err != nil {
		return withWarning(result, err, opts.Precision)
	}
	yearIdx, err := tabular.ResolveColumn(headers, opts.yearColumn())
	if err != nil {
		return withWarning(result, err, opts.Precision)
	}
	filter, err := NewRowFilter(headers, opts.Filters)
	if err != nil {
		return withWarning(result, err, opts.Precision)
	}

	wanted := make(map[int]struct{}, len(years))
	for _, year := range years {
		wanted[year] = struct{}{}
	}

	classifier := opts.classifier()
	subIndex := make(map[string]int)

	for _, row := range rows {
		rawStatus := strings.TrimSpace(tabular.Cell(row, statusIdx))
		rawYear := strings.TrimSpace(tabular.Cell(row, yearIdx))
		if rawStatus == "" || rawYear == "" {
			continue
		}
		if !filter.Passes(row) {
			continue
		}

		year, ok := ExtractYear(rawYear, opts.YearMode)
		if !ok {
			continue
		}
		if _, inRange := wanted[year]; !inRange {
			continue
		}

		status := tabular.NormalizeKey(rawStatus)
		if filter.ExcludesStatus(status) {
			continue
		}

		switch classifier.Classify(status) {
		case BucketCompleted:
			result.Concluidos.add(year)
		case BucketCanceled:
			result.Cancelados.add(year)
		default:
			idx, seen := subIndex[status]
			if !seen {
				idx = len(result.EmAndamento.Subcategorias)
				subIndex[status] = idx
				result.EmAndamento.Subcategorias = append(result.EmAndamento.Subcategorias, Subcategory{
					Name:      rawStatus,
					YearCount: newYearCount(years),
				})
			}
			result.EmAndamento.Subcategorias[idx].add(year)
			result.EmAndamento.Total.add(year)
		}
		result.TotalDemandado.add(year)
	}

	summarize(result, opts.Precision)
	return result
}

func withWarning(result *Result, err error, precision int) *Result {
	var notFound *tabular.ColumnNotFoundError
	if errors.As(err, &notFound) {
		result.Warning = fmt.Sprintf("Coluna '%s' não encontrada na planilha", notFound.Requested)
		result.MissingColumn = notFound.Requested
		result.AvailableColumns = notFound.Available
		if result.AvailableColumns == nil {
			result.AvailableColumns = []string{}
		}
	} else {
		result.Warning = err.Error()
	}
	summarize(result, precision)
	return result
}

func uniqueYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, year := range years {
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	return out
}
