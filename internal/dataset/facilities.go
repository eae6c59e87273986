package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/model"
)

// DefaultFacilityIndicator is the N-SSATS indicator series the report uses.
// The source file interleaves several indicators per state-year; only one is
// a facility count.
const DefaultFacilityIndicator = "All substance use treatment facilities"

// LoadFacilities reads the facility indicator file and returns cleaned counts
// for the given indicator. Rows for other indicators are dropped, as are rows
// with an unparsable year or count.
func LoadFacilities(path, indicator string) ([]model.FacilityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "facilities: open")
	}
	defer f.Close()

	recs, dropped, err := parseFacilities(f, indicator)
	if err != nil {
		return nil, err
	}

	zap.L().Info("facility source cleaned",
		zap.String("path", path),
		zap.String("indicator", indicator),
		zap.Int("rows", len(recs)),
		zap.Int("dropped", dropped),
	)
	return recs, nil
}

func parseFacilities(r io.Reader, indicator string) ([]model.FacilityRecord, int, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, eris.Wrap(err, "facilities: read header")
	}
	colIdx := mapColumns(header)

	for _, col := range []string{"State", "Year", "Indicator", "Facilities"} {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			return nil, 0, eris.Errorf("facilities: missing required column %q", col)
		}
	}

	var recs []model.FacilityRecord
	var dropped int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}

		if !strings.EqualFold(getCol(record, colIdx, "Indicator"), indicator) {
			dropped++
			continue
		}

		state := trimQuotes(getCol(record, colIdx, "State"))
		year, yearOK := parseYear(getCol(record, colIdx, "Year"))
		count, countOK := parseCount(getCol(record, colIdx, "Facilities"))

		if state == "" || !yearOK || !countOK {
			dropped++
			continue
		}

		recs = append(recs, model.FacilityRecord{
			State:         state,
			Year:          year,
			FacilityCount: count,
		})
	}

	return recs, dropped, nil
}
