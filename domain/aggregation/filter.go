package aggregation

import (
	"strconv"
	"strings"

	"mrportal/domain/tabular"
)

// NaturezaColumn is the fixed header the natureza inclusion filter reads.
const NaturezaColumn = "Relatório Natureza da Operação"

// Filters are the optional row predicates. Every active filter must pass.
type Filters struct {
	// Natureza keeps only rows whose NaturezaColumn equals this phrase.
	Natureza string `json:"filter_natureza,omitempty"`
	// ItemColumn and ItemNotEquals drop rows whose item equals the value.
	ItemColumn    string `json:"item_column,omitempty"`
	ItemNotEquals string `json:"item_not_equals,omitempty"`
	// StatusExclude drops rows whose normalized status is listed. "*" is an
	// ordinary status value, not a wildcard.
	StatusExclude []string `json:"status_exclude,omitempty"`
}

func (f Filters) naturezaActive() bool {
	return strings.TrimSpace(f.Natureza) != ""
}

func (f Filters) itemActive() bool {
	return strings.TrimSpace(f.ItemColumn) != "" && strings.TrimSpace(f.ItemNotEquals) != ""
}

// RowFilter is Filters bound to the header of one dataset.
type RowFilter struct {
	naturezaIdx int
	natureza    string
	itemIdx     int
	item        string
	exclude     map[string]struct{}
}

// NewRowFilter resolves the columns the active filters need. An unresolvable
// column is returned as *tabular.ColumnNotFoundError.
func NewRowFilter(headers []string, f Filters) (*RowFilter, error) {
	rf := &RowFilter{naturezaIdx: -1, itemIdx: -1}

	if f.naturezaActive() {
		idx, err := tabular.ResolveColumn(headers, NaturezaColumn)
		if err != nil {
			return nil, err
		}
		rf.naturezaIdx = idx
		rf.natureza = tabular.NormalizeKey(f.Natureza)
	}

	if f.itemActive() {
		idx, err := tabular.ResolveColumn(headers, f.ItemColumn)
		if err != nil {
			return nil, err
		}
		rf.itemIdx = idx
		rf.item = strings.TrimSpace(f.ItemNotEquals)
	}

	if len(f.StatusExclude) > 0 {
		rf.exclude = make(map[string]struct{}, len(f.StatusExclude))
		for _, status := range f.StatusExclude {
			if key := tabular.NormalizeKey(status); key != "" {
				rf.exclude[key] = struct{}{}
			}
		}
	}

	return rf, nil
}

// Passes applies the column predicates. A row too short to reach a column an
// active filter needs does not pass.
func (rf *RowFilter) Passes(row []string) bool {
	if rf.naturezaIdx >= 0 {
		if !tabular.HasCell(row, rf.naturezaIdx) {
			return false
		}
		if tabular.NormalizeKey(row[rf.naturezaIdx]) != rf.natureza {
			return false
		}
	}

	if rf.itemIdx >= 0 {
		if !tabular.HasCell(row, rf.itemIdx) {
			return false
		}
		if valuesEqual(row[rf.itemIdx], rf.item) {
			return false
		}
	}

	return true
}

// ExcludesStatus reports whether a normalized status is in the exclusion set.
func (rf *RowFilter) ExcludesStatus(normalized string) bool {
	_, excluded := rf.exclude[normalized]
	return excluded
}

// valuesEqual compares numerically when both sides are numbers ("53.0" equals
// "53"), otherwise case-insensitively.
func valuesEqual(cell, target string) bool {
	cell = strings.TrimSpace(cell)
	a, errA := strconv.ParseFloat(cell, 64)
	b, errB := strconv.ParseFloat(target, 64)
	if errA == nil && errB == nil {
		return a == b
	}
	return strings.EqualFold(cell, target)
}
