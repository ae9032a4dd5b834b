package aggregation

import (
	"github.com/montanaflynn/stats"
)

// FullPrecision leaves percentages unrounded. Positive precisions round to
// that many decimals.
const FullPrecision = 0

// Percentage is 100*part/whole rounded to precision decimals, 0 when whole is 0.
func Percentage(part, whole, precision int) float64 {
	if whole == 0 {
		return 0
	}
	return roundTo(float64(part)/float64(whole)*100, precision)
}

func roundTo(value float64, precision int) float64 {
	if precision <= FullPrecision {
		return value
	}
	rounded, err := stats.Round(value, precision)
	if err != nil {
		return value
	}
	return rounded
}

// summarize fills every percentage from the grand total. total_demandado is
// 100 even for an empty run.
func summarize(r *Result, precision int) {
	grand := r.TotalDemandado.Total

	r.TotalDemandado.Percentage = 100.0
	r.Concluidos.Percentage = Percentage(r.Concluidos.Total, grand, precision)
	r.Cancelados.Percentage = Percentage(r.Cancelados.Total, grand, precision)
	r.EmAndamento.Total.Percentage = Percentage(r.EmAndamento.Total.Total, grand, precision)
	for i := range r.EmAndamento.Subcategorias {
		sub := &r.EmAndamento.Subcategorias[i]
		sub.Percentage = Percentage(sub.Total, grand, precision)
	}
}

// BucketPercentageSum adds the three top-level bucket percentages. It is 100
// (within rounding) for any non-empty run with no excluded statuses.
func (r *Result) BucketPercentageSum() float64 {
	sum, err := stats.Sum(stats.Float64Data{
		r.Concluidos.Percentage,
		r.Cancelados.Percentage,
		r.EmAndamento.Total.Percentage,
	})
	if err != nil {
		return 0
	}
	return sum
}
