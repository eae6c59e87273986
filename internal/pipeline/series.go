package pipeline

import (
	"encoding/json"
	"io"
	"math"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/ruralstat/overdose-report/internal/model"
)

// ScatterPoint is one state-year point on the density/crude-rate scatter.
type ScatterPoint struct {
	State     string               `csv:"state" json:"state"`
	Year      int                  `csv:"year" json:"year"`
	Density   float64              `csv:"density" json:"density"`
	CrudeRate float64              `csv:"crude_rate" json:"crude_rate"`
	Class     model.Classification `csv:"class" json:"class"`
}

// ChartSeries bundles the data behind the report's three figures, in a shape
// any chart front end can draw from.
type ChartSeries struct {
	Trend    []ClassYearPoint     `json:"trend"`
	Regional []RegionClassSummary `json:"regional"`
	Scatter  []ScatterPoint       `json:"scatter"`
	Fit      TrendFit             `json:"fit"`
}

// ScatterPoints extracts the scatter data from the merged rows, skipping rows
// whose density never got filled.
func ScatterPoints(rows []model.MergedRow) []ScatterPoint {
	var pts []ScatterPoint
	for _, r := range rows {
		if math.IsNaN(r.Density) {
			continue
		}
		pts = append(pts, ScatterPoint{
			State:     r.State,
			Year:      r.Year,
			Density:   r.Density,
			CrudeRate: r.CrudeRate,
			Class:     r.Classification,
		})
	}
	return pts
}

// WriteSeriesJSON writes the chart series as indented JSON.
func WriteSeriesJSON(w io.Writer, s ChartSeries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(s), "series: encode json")
}

// WriteScatterCSV writes the scatter points as CSV.
func WriteScatterCSV(w io.Writer, pts []ScatterPoint) error {
	data, err := csvutil.Marshal(pts)
	if err != nil {
		return eris.Wrap(err, "series: marshal scatter csv")
	}
	_, err = w.Write(data)
	return eris.Wrap(err, "series: write scatter csv")
}

// WriteTrendCSV writes the crude-rate trend points as CSV.
func WriteTrendCSV(w io.Writer, pts []ClassYearPoint) error {
	type row struct {
		Class         model.Classification `csv:"class"`
		Year          int                  `csv:"year"`
		MeanCrudeRate float64              `csv:"mean_crude_rate"`
	}
	rows := make([]row, len(pts))
	for i, p := range pts {
		rows[i] = row{Class: p.Class, Year: p.Year, MeanCrudeRate: p.MeanCrudeRate}
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "series: marshal trend csv")
	}
	_, err = w.Write(data)
	return eris.Wrap(err, "series: write trend csv")
}
