package model

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// MortalityRecord is one state-year observation from the overdose mortality
// export. CrudeRate is deaths per 100,000 population as published; rows whose
// rate was flagged unreliable or suppressed never become records.
type MortalityRecord struct {
	State     string  `json:"state"`
	Year      int     `json:"year"`
	Deaths    int     `json:"deaths"`
	CrudeRate float64 `json:"crude_rate"`
}

// FacilityRecord is one state-year treatment facility count, already filtered
// to a single indicator series.
type FacilityRecord struct {
	State         string `json:"state"`
	Year          int    `json:"year"`
	FacilityCount int    `json:"facility_count"`
}

// RegionLabel maps a state to its census region. Static lookup, no time dimension.
type RegionLabel struct {
	State  string `csv:"State" json:"state"`
	Region Region `csv:"Region" json:"region"`
}

// PopulationRecord is one state-year population/density observation.
// Population and Density use NaN for a value that was present in the source
// row but not parseable; the densifier fills those by interpolation where a
// bracketing pair exists.
type PopulationRecord struct {
	State      string  `json:"state"`
	Year       int     `json:"year"`
	Population float64 `json:"population"`
	Density    float64 `json:"density"`
}

// MergedRow is the inner join of the four sources on (State, Year), plus the
// derived urban/rural classification and row-wise per-capita deaths.
type MergedRow struct {
	State           string         `json:"state"`
	Year            int            `json:"year"`
	Region          Region         `json:"region"`
	Deaths          int            `json:"deaths"`
	CrudeRate       float64        `json:"crude_rate"`
	FacilityCount   int            `json:"facility_count"`
	Population      float64        `json:"population"`
	Density         float64        `json:"density"`
	Classification  Classification `json:"classification"`
	DeathsPerCapita float64        `json:"deaths_per_capita"`
}

// Classification is the binary urban/rural label derived from density.
type Classification string

const (
	Urban Classification = "Urban"
	Rural Classification = "Rural"
)

// UrbanDensityThreshold is the persons-per-square-mile cutoff separating the
// two classes. Exactly 100 is Rural.
const UrbanDensityThreshold = 100.0

// Classify labels a density value. A NaN density compares false and therefore
// classifies Rural, matching the source analysis.
func Classify(density float64) Classification {
	if density > UrbanDensityThreshold {
		return Urban
	}
	return Rural
}

// Region is one of the four standard census regions.
type Region string

const (
	Northeast Region = "Northeast"
	Midwest   Region = "Midwest"
	South     Region = "South"
	West      Region = "West"
)

// Regions lists the four census regions in their conventional order.
var Regions = []Region{Northeast, Midwest, South, West}

// ParseRegion validates a region name from the lookup file.
func ParseRegion(s string) (Region, error) {
	switch Region(strings.TrimSpace(s)) {
	case Northeast:
		return Northeast, nil
	case Midwest:
		return Midwest, nil
	case South:
		return South, nil
	case West:
		return West, nil
	}
	return "", eris.Errorf("model: unknown census region %q", s)
}

// Missing reports whether a numeric observation is absent.
func Missing(v float64) bool {
	return math.IsNaN(v)
}
