// Package pipeline turns the four cleaned sources into the merged, classified
// dataset behind the urban/rural overdose report, and derives the summary
// statistics and chart series from it. Every stage is a pure transform over
// record slices; the run is deterministic for fixed inputs.
package pipeline

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/model"
)

// Densify expands each state's population series to one row per calendar year
// across that state's observed range, filling gaps in Population and Density
// independently by linear interpolation. Observed values are preserved
// exactly. Years with no bracketing pair of observations keep NaN.
func Densify(recs []model.PopulationRecord) []model.PopulationRecord {
	byState := make(map[string][]model.PopulationRecord)
	var states []string
	for _, r := range recs {
		if _, ok := byState[r.State]; !ok {
			states = append(states, r.State)
		}
		byState[r.State] = append(byState[r.State], r)
	}
	sort.Strings(states)

	var out []model.PopulationRecord
	var inserted int

	for _, state := range states {
		series := densifyState(byState[state])
		inserted += len(series) - len(byState[state])
		out = append(out, series...)
	}

	zap.L().Debug("population series densified",
		zap.Int("states", len(states)),
		zap.Int("rows", len(out)),
		zap.Int("inserted", inserted),
	)
	return out
}

// densifyState expands a single state's series. Duplicate years keep the first
// observation.
func densifyState(recs []model.PopulationRecord) []model.PopulationRecord {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Year < recs[j].Year })

	byYear := make(map[int]model.PopulationRecord, len(recs))
	for _, r := range recs {
		if _, ok := byYear[r.Year]; !ok {
			byYear[r.Year] = r
		}
	}

	minYear, maxYear := recs[0].Year, recs[len(recs)-1].Year
	state := recs[0].State

	n := maxYear - minYear + 1
	years := make([]int, 0, n)
	pops := make([]float64, 0, n)
	densities := make([]float64, 0, n)

	for year := minYear; year <= maxYear; year++ {
		years = append(years, year)
		if r, ok := byYear[year]; ok {
			pops = append(pops, r.Population)
			densities = append(densities, r.Density)
		} else {
			pops = append(pops, math.NaN())
			densities = append(densities, math.NaN())
		}
	}

	interpolate(years, pops)
	interpolate(years, densities)

	out := make([]model.PopulationRecord, n)
	for i, year := range years {
		out[i] = model.PopulationRecord{
			State:      state,
			Year:       year,
			Population: pops[i],
			Density:    densities[i],
		}
	}
	return out
}

// interpolate fills NaN entries of vals in place by linear interpolation
// between the nearest bracketing known values. Entries with no bracket on one
// side stay NaN (no extrapolation). Known entries are never touched.
func interpolate(years []int, vals []float64) {
	for i, v := range vals {
		if !math.IsNaN(v) {
			continue
		}

		prev, next := -1, -1
		for j := i - 1; j >= 0; j-- {
			if !math.IsNaN(vals[j]) {
				prev = j
				break
			}
		}
		for j := i + 1; j < len(vals); j++ {
			if !math.IsNaN(vals[j]) {
				next = j
				break
			}
		}
		if prev < 0 || next < 0 {
			continue
		}

		y0, y1 := float64(years[prev]), float64(years[next])
		v0, v1 := vals[prev], vals[next]
		vals[i] = v0 + (v1-v0)*(float64(years[i])-y0)/(y1-y0)
	}
}
