package dataset

import (
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/model"
)

// LoadRegions reads the static state-to-census-region lookup. Rows with an
// unknown region name or a blank state are dropped; duplicate states keep the
// first occurrence.
func LoadRegions(path string) ([]model.RegionLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "regions: read")
	}

	var raw []model.RegionLabel
	if err := csvutil.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "regions: decode csv")
	}

	seen := make(map[string]bool, len(raw))
	var labels []model.RegionLabel
	var dropped int

	for _, l := range raw {
		state := strings.TrimSpace(l.State)
		region, err := model.ParseRegion(string(l.Region))
		if err != nil || state == "" || seen[state] {
			dropped++
			continue
		}
		seen[state] = true
		labels = append(labels, model.RegionLabel{State: state, Region: region})
	}

	if len(labels) == 0 {
		return nil, eris.New("regions: no valid rows in lookup")
	}

	zap.L().Info("region lookup cleaned",
		zap.String("path", path),
		zap.Int("rows", len(labels)),
		zap.Int("dropped", dropped),
	)
	return labels, nil
}
