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

// LoadMortality reads a CDC WONDER-style overdose mortality export and returns
// the cleaned records. Rows with a non-empty Notes column (totals and footnote
// carriers), an unparsable year, or a sentinel death count or crude rate are
// dropped.
func LoadMortality(path string) ([]model.MortalityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "mortality: open")
	}
	defer f.Close()

	recs, dropped, err := parseMortality(f)
	if err != nil {
		return nil, err
	}

	zap.L().Info("mortality source cleaned",
		zap.String("path", path),
		zap.Int("rows", len(recs)),
		zap.Int("dropped", dropped),
	)
	return recs, nil
}

func parseMortality(r io.Reader) ([]model.MortalityRecord, int, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, eris.Wrap(err, "mortality: read header")
	}
	colIdx := mapColumns(header)

	for _, col := range []string{"State", "Year", "Deaths", "Crude Rate"} {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			return nil, 0, eris.Errorf("mortality: missing required column %q", col)
		}
	}

	var recs []model.MortalityRecord
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

		// WONDER appends total rows and footnotes flagged via Notes.
		if getCol(record, colIdx, "Notes") != "" {
			dropped++
			continue
		}

		state := trimQuotes(getCol(record, colIdx, "State"))
		year, yearOK := parseYear(getCol(record, colIdx, "Year"))
		deaths, deathsOK := parseCount(getCol(record, colIdx, "Deaths"))
		rate, rateOK := parseRate(getCol(record, colIdx, "Crude Rate"))

		if state == "" || !yearOK || !deathsOK || !rateOK {
			dropped++
			continue
		}

		recs = append(recs, model.MortalityRecord{
			State:     state,
			Year:      year,
			Deaths:    deaths,
			CrudeRate: rate,
		})
	}

	return recs, dropped, nil
}
