package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralstat/overdose-report/internal/model"
)

func TestJoin_InnerJoinSurvival(t *testing.T) {
	mort := []model.MortalityRecord{
		{State: "Ohio", Year: 2018, Deaths: 3764, CrudeRate: 32.3},
		{State: "Ohio", Year: 2019, Deaths: 4028, CrudeRate: 34.5},
		{State: "Vermont", Year: 2018, Deaths: 110, CrudeRate: 17.6},
		{State: "Nevada", Year: 2018, Deaths: 647, CrudeRate: 21.2}, // no region
	}
	fac := []model.FacilityRecord{
		{State: "Ohio", Year: 2018, FacilityCount: 389},
		{State: "Vermont", Year: 2018, FacilityCount: 47},
		{State: "Nevada", Year: 2018, FacilityCount: 102},
		// no Ohio 2019
	}
	regions := []model.RegionLabel{
		{State: "Ohio", Region: model.Midwest},
		{State: "Vermont", Region: model.Northeast},
	}
	pop := []model.PopulationRecord{
		{State: "Ohio", Year: 2018, Population: 11676341, Density: 285.3},
		{State: "Ohio", Year: 2019, Population: 11689100, Density: 285.6},
		{State: "Vermont", Year: 2018, Population: 624358, Density: 67.7},
		{State: "Nevada", Year: 2018, Population: 3027341, Density: 27.6},
	}

	rows := Join(mort, fac, regions, pop)

	// Only pairs present in all four sources survive: Ohio 2019 lacks a
	// facility count, Nevada lacks a region.
	require.Len(t, rows, 2)
	assert.Equal(t, "Ohio", rows[0].State)
	assert.Equal(t, 2018, rows[0].Year)
	assert.Equal(t, model.Midwest, rows[0].Region)
	assert.Equal(t, 389, rows[0].FacilityCount)
	assert.Equal(t, "Vermont", rows[1].State)
}

func TestJoin_RowCountBound(t *testing.T) {
	mort := []model.MortalityRecord{
		{State: "A", Year: 2018, Deaths: 1, CrudeRate: 1},
		{State: "A", Year: 2019, Deaths: 1, CrudeRate: 1},
		{State: "B", Year: 2018, Deaths: 1, CrudeRate: 1},
	}
	fac := []model.FacilityRecord{{State: "A", Year: 2018, FacilityCount: 1}}
	regions := []model.RegionLabel{
		{State: "A", Region: model.South},
		{State: "B", Region: model.West},
	}
	pop := []model.PopulationRecord{
		{State: "A", Year: 2018, Population: 100, Density: 1},
		{State: "B", Year: 2018, Population: 100, Density: 1},
	}

	rows := Join(mort, fac, regions, pop)
	assert.LessOrEqual(t, len(rows), len(fac))
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].State)
}

func TestJoin_EmptySourceYieldsNothing(t *testing.T) {
	mort := []model.MortalityRecord{{State: "A", Year: 2018, Deaths: 1, CrudeRate: 1}}
	rows := Join(mort, nil, nil, nil)
	assert.Empty(t, rows)
}

func TestJoin_DuplicateKeysKeepFirst(t *testing.T) {
	mort := []model.MortalityRecord{{State: "A", Year: 2018, Deaths: 1, CrudeRate: 1}}
	fac := []model.FacilityRecord{
		{State: "A", Year: 2018, FacilityCount: 10},
		{State: "A", Year: 2018, FacilityCount: 99},
	}
	regions := []model.RegionLabel{
		{State: "A", Region: model.South},
		{State: "A", Region: model.West},
	}
	pop := []model.PopulationRecord{
		{State: "A", Year: 2018, Population: 100, Density: 1},
		{State: "A", Year: 2018, Population: 999, Density: 9},
	}

	rows := Join(mort, fac, regions, pop)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].FacilityCount)
	assert.Equal(t, model.South, rows[0].Region)
	assert.InDelta(t, 100, rows[0].Population, 1e-9)
	assert.InDelta(t, 1, rows[0].Density, 1e-9)
}

func TestJoin_OrderedByStateThenYear(t *testing.T) {
	mort := []model.MortalityRecord{
		{State: "B", Year: 2019, Deaths: 1, CrudeRate: 1},
		{State: "A", Year: 2019, Deaths: 1, CrudeRate: 1},
		{State: "A", Year: 2018, Deaths: 1, CrudeRate: 1},
	}
	fac := []model.FacilityRecord{
		{State: "A", Year: 2018, FacilityCount: 1},
		{State: "A", Year: 2019, FacilityCount: 1},
		{State: "B", Year: 2019, FacilityCount: 1},
	}
	regions := []model.RegionLabel{
		{State: "A", Region: model.South},
		{State: "B", Region: model.West},
	}
	pop := []model.PopulationRecord{
		{State: "A", Year: 2018, Population: 1, Density: 1},
		{State: "A", Year: 2019, Population: 1, Density: 1},
		{State: "B", Year: 2019, Population: 1, Density: 1},
	}

	rows := Join(mort, fac, regions, pop)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2018, 2019, 2019}, []int{rows[0].Year, rows[1].Year, rows[2].Year})
	assert.Equal(t, "A", rows[0].State)
	assert.Equal(t, "B", rows[2].State)
}
