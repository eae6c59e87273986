package pipeline

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/model"
)

type stateYear struct {
	state string
	year  int
}

// Join inner-joins the four cleaned sources: mortality, facilities, and
// population on (state, year), the region lookup on state alone. A row
// survives only if its keys exist in all four sources, so any state-year
// missing from one source silently vanishes — including entire years outside
// the window common to all sources. Output is ordered by state then year.
func Join(
	mort []model.MortalityRecord,
	fac []model.FacilityRecord,
	regions []model.RegionLabel,
	pop []model.PopulationRecord,
) []model.MergedRow {
	// Duplicate keys keep the first occurrence, same as the densifier.
	facByKey := make(map[stateYear]model.FacilityRecord, len(fac))
	for _, r := range fac {
		key := stateYear{r.State, r.Year}
		if _, ok := facByKey[key]; !ok {
			facByKey[key] = r
		}
	}
	popByKey := make(map[stateYear]model.PopulationRecord, len(pop))
	for _, r := range pop {
		key := stateYear{r.State, r.Year}
		if _, ok := popByKey[key]; !ok {
			popByKey[key] = r
		}
	}
	regionByState := make(map[string]model.Region, len(regions))
	for _, r := range regions {
		if _, ok := regionByState[r.State]; !ok {
			regionByState[r.State] = r.Region
		}
	}

	var rows []model.MergedRow
	for _, m := range mort {
		key := stateYear{m.State, m.Year}

		f, ok := facByKey[key]
		if !ok {
			continue
		}
		p, ok := popByKey[key]
		if !ok {
			continue
		}
		region, ok := regionByState[m.State]
		if !ok {
			continue
		}

		rows = append(rows, model.MergedRow{
			State:         m.State,
			Year:          m.Year,
			Region:        region,
			Deaths:        m.Deaths,
			CrudeRate:     m.CrudeRate,
			FacilityCount: f.FacilityCount,
			Population:    p.Population,
			Density:       p.Density,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].Year < rows[j].Year
	})

	zap.L().Debug("sources joined",
		zap.Int("mortality", len(mort)),
		zap.Int("facilities", len(fac)),
		zap.Int("population", len(pop)),
		zap.Int("merged", len(rows)),
	)
	return rows
}
