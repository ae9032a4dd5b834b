package aggregation

// YearCount is a per-year count with its total and share of the grand total.
// Every requested year is present in Years, zero when nothing matched.
type YearCount struct {
	Years      map[int]int `json:"years"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
}

func newYearCount(years []int) YearCount {
	counts := make(map[int]int, len(years))
	for _, year := range years {
		counts[year] = 0
	}
	return YearCount{Years: counts}
}

func (yc *YearCount) add(year int) {
	yc.Years[year]++
	yc.Total++
}

// Subcategory is one in-progress status, named by the first spelling seen.
type Subcategory struct {
	Name string `json:"name"`
	YearCount
}

// EmAndamento groups every in-progress status.
type EmAndamento struct {
	Total         YearCount     `json:"total"`
	Subcategorias []Subcategory `json:"subcategorias"`
}

// Result is the aggregation of one spreadsheet. When a required column is
// missing the counts are all zero and Warning, MissingColumn and
// AvailableColumns describe the problem.
type Result struct {
	TotalDemandado YearCount   `json:"total_demandado"`
	Concluidos     YearCount   `json:"concluidos"`
	Cancelados     YearCount   `json:"cancelados"`
	EmAndamento    EmAndamento `json:"em_andamento"`

	Warning          string   `json:"warning,omitempty"`
	MissingColumn    string   `json:"missing_column,omitempty"`
	AvailableColumns []string `json:"available_columns,omitempty"`
}

// NewResult returns a zero-count result for the given years.
func NewResult(years []int) *Result {
	return &Result{
		TotalDemandado: newYearCount(years),
		Concluidos:     newYearCount(years),
		Cancelados:     newYearCount(years),
		EmAndamento: EmAndamento{
			Total:         newYearCount(years),
			Subcategorias: []Subcategory{},
		},
	}
}

// HasWarning reports whether the result describes a configuration problem.
func (r *Result) HasWarning() bool {
	return r.Warning != ""
}

// Subcategory returns the in-progress subcategory with the given display name.
func (r *Result) Subcategory(name string) (Subcategory, bool) {
	for _, sub := range r.EmAndamento.Subcategorias {
		if sub.Name == name {
			return sub, true
		}
	}
	return Subcategory{}, false
}
