package app

import (
	"mrportal/domain/aggregation"
)

// Names of the spreadsheets an ENEL report is built from.
const (
	SheetAlvarasCE      = "Base Ceara Alvarás de funcionamento"
	SheetCTEEP          = "CTEEP ATUALIZADA - BASE MR 2025"
	SheetLegalizacaoCE  = "ENEL - Legalização CE"
	SheetLegalizacaoRJ  = "LEGALIZAÇÃO RJ_28-04"
	SheetLegalizacaoSP  = "Legalização SP"
	SheetRegularizacoes = "Regularizações SP"
)

// DefaultStatusColumn is the status header used when an upload names none.
const DefaultStatusColumn = "Relatório Status detalhado"

// NaturezaLicencaSanitaria selects the licença-sanitária renewals of the CE
// legalização sheet.
const NaturezaLicencaSanitaria = "Renovação Licença Sanitária"

// RequiredSpreadsheets lists the ENEL spreadsheets in display order.
var RequiredSpreadsheets = []string{
	SheetAlvarasCE,
	SheetCTEEP,
	SheetLegalizacaoCE,
	SheetLegalizacaoRJ,
	SheetLegalizacaoSP,
	SheetRegularizacoes,
}

// IsRequiredSpreadsheet reports whether name is one of the ENEL spreadsheets.
func IsRequiredSpreadsheet(name string) bool {
	for _, required := range RequiredSpreadsheets {
		if required == name {
			return true
		}
	}
	return false
}

// AggregationPreset is the per-spreadsheet aggregation setup. Request
// parameters override individual fields.
type AggregationPreset struct {
	StatusColumn string
	YearColumn   string
	YearMode     aggregation.YearMode
	Filters      aggregation.Filters
	Completed    []string
	Canceled     []string
	Precision    int
}

var enelPresets = map[string]AggregationPreset{
	SheetAlvarasCE: {
		StatusColumn: "Status",
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeDefault,
		Canceled:     []string{"Cancelado"},
		Precision:    1,
	},
	SheetLegalizacaoCE: {
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeLast4,
		Canceled:     []string{"Cancelado", "Cancelada"},
		Precision:    1,
	},
	SheetCTEEP: {
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeExtract,
		Precision:    2,
	},
	SheetLegalizacaoRJ: {
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeLast4,
		Filters:      aggregation.Filters{ItemColumn: "Item", ItemNotEquals: "53"},
		Precision:    2,
	},
	SheetLegalizacaoSP: {
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeLast4,
		Completed:    []string{"Concluído", "Licença emitida", "Processo finalizado"},
		Canceled:     []string{"Cancelado"},
		Precision:    1,
	},
	SheetRegularizacoes: {
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeExtract,
		Filters:      aggregation.Filters{StatusExclude: []string{"*"}},
		Precision:    aggregation.FullPrecision,
	},
}

// PresetFor returns the preset of an ENEL spreadsheet. Unknown names get the
// generic status/year setup.
func PresetFor(name string) AggregationPreset {
	if preset, ok := enelPresets[name]; ok {
		return preset
	}
	return AggregationPreset{
		StatusColumn: DefaultStatusColumn,
		YearColumn:   aggregation.DefaultYearColumn,
		YearMode:     aggregation.YearModeDefault,
	}
}
