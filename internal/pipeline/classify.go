package pipeline

import (
	"math"

	"github.com/ruralstat/overdose-report/internal/model"
)

// ClassifyRows labels every merged row Urban or Rural from its density and
// derives the row-wise per-capita death rate. This is the single place the
// classification is applied; every downstream grouping reads the label from
// the row.
func ClassifyRows(rows []model.MergedRow) []model.MergedRow {
	out := make([]model.MergedRow, len(rows))
	for i, r := range rows {
		r.Classification = model.Classify(r.Density)
		if model.Missing(r.Population) || r.Population == 0 {
			r.DeathsPerCapita = math.NaN()
		} else {
			r.DeathsPerCapita = float64(r.Deaths) / r.Population
		}
		out[i] = r
	}
	return out
}
