package pipeline

import (
	"math"
	"sort"

	"github.com/ruralstat/overdose-report/internal/model"
)

// ClassSummary is the by-classification reduction behind the summary table.
// Avg_Deaths_Per_Capita is the unweighted mean of row-wise ratios, not the
// ratio of sums.
type ClassSummary struct {
	Class              model.Classification `json:"class"`
	Rows               int                  `json:"rows"`
	MeanDensity        float64              `json:"mean_density"`
	AvgDeathsPerCapita float64              `json:"avg_deaths_per_capita"`
	TotalFacilities    int                  `json:"total_facilities"`
	TotalDeaths        int                  `json:"total_deaths"`
}

// ClassYearPoint is one point on the crude-rate trend chart.
type ClassYearPoint struct {
	Class         model.Classification `json:"class"`
	Year          int                  `json:"year"`
	MeanCrudeRate float64              `json:"mean_crude_rate"`
}

// RegionClassSummary is the (region, classification) reduction behind the
// regional bar chart.
type RegionClassSummary struct {
	Region             model.Region         `json:"region"`
	Class              model.Classification `json:"class"`
	Rows               int                  `json:"rows"`
	AvgDeathsPerCapita float64              `json:"avg_deaths_per_capita"`
	TotalFacilities    int                  `json:"total_facilities"`
	TotalDeaths        int                  `json:"total_deaths"`
}

// TrendFit holds the least-squares line for the density/crude-rate scatter.
type TrendFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
	N         int     `json:"n"`
}

// meanAcc accumulates a mean over non-missing values only.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	a.sum += v
	a.n++
}

func (a *meanAcc) mean() float64 {
	if a.n == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.n)
}

// SummarizeByClass computes the urban/rural summary statistics. Output is
// ordered Rural then Urban.
func SummarizeByClass(rows []model.MergedRow) []ClassSummary {
	type acc struct {
		density    meanAcc
		perCapita  meanAcc
		facilities int
		deaths     int
		rows       int
	}
	accs := make(map[model.Classification]*acc)

	for _, r := range rows {
		a, ok := accs[r.Classification]
		if !ok {
			a = &acc{}
			accs[r.Classification] = a
		}
		a.density.add(r.Density)
		a.perCapita.add(r.DeathsPerCapita)
		a.facilities += r.FacilityCount
		a.deaths += r.Deaths
		a.rows++
	}

	var out []ClassSummary
	for class, a := range accs {
		out = append(out, ClassSummary{
			Class:              class,
			Rows:               a.rows,
			MeanDensity:        a.density.mean(),
			AvgDeathsPerCapita: a.perCapita.mean(),
			TotalFacilities:    a.facilities,
			TotalDeaths:        a.deaths,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

// CrudeRateTrend computes the mean crude rate per (classification, year),
// ordered by year then class. Feeds the trend line chart.
func CrudeRateTrend(rows []model.MergedRow) []ClassYearPoint {
	type key struct {
		class model.Classification
		year  int
	}
	accs := make(map[key]*meanAcc)

	for _, r := range rows {
		k := key{r.Classification, r.Year}
		a, ok := accs[k]
		if !ok {
			a = &meanAcc{}
			accs[k] = a
		}
		a.add(r.CrudeRate)
	}

	out := make([]ClassYearPoint, 0, len(accs))
	for k, a := range accs {
		out = append(out, ClassYearPoint{Class: k.class, Year: k.year, MeanCrudeRate: a.mean()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// SummarizeByRegionClass computes the (region, classification) reduction,
// ordered by the conventional region order then class. Feeds the regional
// bar chart.
func SummarizeByRegionClass(rows []model.MergedRow) []RegionClassSummary {
	type key struct {
		region model.Region
		class  model.Classification
	}
	type acc struct {
		perCapita  meanAcc
		facilities int
		deaths     int
		rows       int
	}
	accs := make(map[key]*acc)

	for _, r := range rows {
		k := key{r.Region, r.Classification}
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
		}
		a.perCapita.add(r.DeathsPerCapita)
		a.facilities += r.FacilityCount
		a.deaths += r.Deaths
		a.rows++
	}

	regionOrder := make(map[model.Region]int, len(model.Regions))
	for i, region := range model.Regions {
		regionOrder[region] = i
	}

	out := make([]RegionClassSummary, 0, len(accs))
	for k, a := range accs {
		out = append(out, RegionClassSummary{
			Region:             k.region,
			Class:              k.class,
			Rows:               a.rows,
			AvgDeathsPerCapita: a.perCapita.mean(),
			TotalFacilities:    a.facilities,
			TotalDeaths:        a.deaths,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return regionOrder[out[i].Region] < regionOrder[out[j].Region]
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// FitDensityCrudeRate fits crude rate against density by ordinary least
// squares, for the scatter chart's trend line. Rows with a missing density
// are skipped. Returns a zero-N fit when fewer than two usable points exist
// or density has no variance.
func FitDensityCrudeRate(rows []model.MergedRow) TrendFit {
	var sx, sy, sxx, sxy, syy float64
	var n int

	for _, r := range rows {
		if math.IsNaN(r.Density) || math.IsNaN(r.CrudeRate) {
			continue
		}
		sx += r.Density
		sy += r.CrudeRate
		sxx += r.Density * r.Density
		sxy += r.Density * r.CrudeRate
		syy += r.CrudeRate * r.CrudeRate
		n++
	}

	if n < 2 {
		return TrendFit{}
	}

	fn := float64(n)
	denom := fn*sxx - sx*sx
	if denom == 0 {
		return TrendFit{}
	}

	slope := (fn*sxy - sx*sy) / denom
	intercept := (sy - slope*sx) / fn

	// Coefficient of determination.
	ssTot := syy - sy*sy/fn
	var r2 float64
	if ssTot > 0 {
		ssRes := syy - intercept*sy - slope*sxy
		r2 = 1 - ssRes/ssTot
	}

	return TrendFit{Slope: slope, Intercept: intercept, R2: r2, N: n}
}
