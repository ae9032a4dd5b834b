package report

import (
	"mrportal/domain/aggregation"
)

// Keys of the built-in indicators in a status-name override map.
const (
	KeyTotalDemandado = "total_demandado"
	KeyConcluidos     = "concluidos"
	KeyCancelados     = "cancelados"
	KeyEmAndamento    = "em_andamento"
)

var defaultIndicatorNames = map[string]string{
	KeyTotalDemandado: "Total Demandado",
	KeyConcluidos:     "Concluídos",
	KeyCancelados:     "Cancelados",
	KeyEmAndamento:    "Em Andamento",
}

// Row is one line of a report table.
type Row struct {
	Indicador  string      `json:"indicador"`
	Years      map[int]int `json:"years"`
	Total      int         `json:"total"`
	Percentual float64     `json:"percentual"`
	IsMain     bool        `json:"is_main"`
	IsTotal    bool        `json:"is_total"`
	Level      int         `json:"level"`
}

// YearValue returns the count for year, zero when absent.
func (r Row) YearValue(year int) int {
	return r.Years[year]
}

// BuildTable flattens an aggregation result into table rows: total,
// concluídos, cancelados (only when there are any), em andamento and then
// one indented row per em-andamento subcategory. names overrides the label
// of an indicator key or of a subcategory by its sheet spelling.
func BuildTable(result *aggregation.Result, years []int, names map[string]string) []Row {
	if result == nil {
		return []Row{}
	}

	label := func(key, fallback string) string {
		if name, ok := names[key]; ok && name != "" {
			return name
		}
		if fallback != "" {
			return fallback
		}
		return defaultIndicatorNames[key]
	}
	row := func(name string, yc aggregation.YearCount) Row {
		counts := make(map[int]int, len(years))
		for _, year := range years {
			counts[year] = yc.Years[year]
		}
		return Row{Indicador: name, Years: counts, Total: yc.Total, Percentual: yc.Percentage}
	}

	rows := make([]Row, 0, 4+len(result.EmAndamento.Subcategorias))

	total := row(label(KeyTotalDemandado, ""), result.TotalDemandado)
	total.IsMain, total.IsTotal = true, true
	rows = append(rows, total)

	concluidos := row(label(KeyConcluidos, ""), result.Concluidos)
	concluidos.IsMain = true
	rows = append(rows, concluidos)

	if result.Cancelados.Total > 0 {
		cancelados := row(label(KeyCancelados, ""), result.Cancelados)
		cancelados.IsMain = true
		rows = append(rows, cancelados)
	}

	andamento := row(label(KeyEmAndamento, ""), result.EmAndamento.Total)
	andamento.IsMain = true
	rows = append(rows, andamento)

	for _, sub := range result.EmAndamento.Subcategorias {
		r := row(label(sub.Name, sub.Name), sub.YearCount)
		r.Level = 1
		rows = append(rows, r)
	}
	return rows
}
