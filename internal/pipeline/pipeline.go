package pipeline

import (
	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/model"
)

// Sources holds the four cleaned inputs to a report run.
type Sources struct {
	Mortality  []model.MortalityRecord
	Facilities []model.FacilityRecord
	Regions    []model.RegionLabel
	Population []model.PopulationRecord
}

// StageCounts records row counts through the pipeline for run observability.
type StageCounts struct {
	Mortality  int `json:"mortality"`
	Facilities int `json:"facilities"`
	Regions    int `json:"regions"`
	Population int `json:"population"`
	Densified  int `json:"densified"`
	Merged     int `json:"merged"`
	UrbanRows  int `json:"urban_rows"`
	RuralRows  int `json:"rural_rows"`
}

// Result is the full output of a report run.
type Result struct {
	Merged       []model.MergedRow    `json:"-"`
	ClassSummary []ClassSummary       `json:"class_summary"`
	Trend        []ClassYearPoint     `json:"trend"`
	Regional     []RegionClassSummary `json:"regional"`
	Fit          TrendFit             `json:"fit"`
	Counts       StageCounts          `json:"counts"`
}

// Run executes the full transform chain: densify the population series, join
// the four sources, classify, then compute the three grouped reductions and
// the scatter fit. Inputs are never mutated.
func Run(src Sources) *Result {
	densified := Densify(src.Population)
	merged := Join(src.Mortality, src.Facilities, src.Regions, densified)
	merged = ClassifyRows(merged)

	counts := StageCounts{
		Mortality:  len(src.Mortality),
		Facilities: len(src.Facilities),
		Regions:    len(src.Regions),
		Population: len(src.Population),
		Densified:  len(densified),
		Merged:     len(merged),
	}
	for _, r := range merged {
		if r.Classification == model.Urban {
			counts.UrbanRows++
		} else {
			counts.RuralRows++
		}
	}

	res := &Result{
		Merged:       merged,
		ClassSummary: SummarizeByClass(merged),
		Trend:        CrudeRateTrend(merged),
		Regional:     SummarizeByRegionClass(merged),
		Fit:          FitDensityCrudeRate(merged),
		Counts:       counts,
	}

	zap.L().Info("pipeline complete",
		zap.Int("merged_rows", counts.Merged),
		zap.Int("urban_rows", counts.UrbanRows),
		zap.Int("rural_rows", counts.RuralRows),
	)
	return res
}

// Series assembles the chart-ready view of a result.
func (r *Result) Series() ChartSeries {
	return ChartSeries{
		Trend:    r.Trend,
		Regional: r.Regional,
		Scatter:  ScatterPoints(r.Merged),
		Fit:      r.Fit,
	}
}
