package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/fetcher"
	"github.com/ruralstat/overdose-report/internal/model"
)

// LoadPopulation reads the state population/density series from a CSV or XLSX
// file (by extension). Rows missing state or year are dropped. A row whose
// population or density does not parse keeps the row with that value as NaN,
// leaving a gap for the densifier to fill.
func LoadPopulation(path string) ([]model.PopulationRecord, error) {
	var rows [][]string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "population: read xlsx")
		}
	} else {
		rows, err = readDelimited(path)
		if err != nil {
			return nil, err
		}
	}

	recs, dropped, err := parsePopulation(rows)
	if err != nil {
		return nil, err
	}

	zap.L().Info("population source cleaned",
		zap.String("path", path),
		zap.Int("rows", len(recs)),
		zap.Int("dropped", dropped),
	)
	return recs, nil
}

func readDelimited(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "population: open")
	}
	defer f.Close()

	br := bufio.NewReader(f)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parsePopulation(rows [][]string) ([]model.PopulationRecord, int, error) {
	if len(rows) < 2 {
		return nil, 0, eris.New("population: no data rows")
	}

	colIdx := mapColumns(rows[0])
	for _, col := range []string{"State", "Year", "Population", "Density"} {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			return nil, 0, eris.Errorf("population: missing required column %q", col)
		}
	}

	var recs []model.PopulationRecord
	var dropped int

	for _, record := range rows[1:] {
		state := trimQuotes(getCol(record, colIdx, "State"))
		year, yearOK := parseYear(getCol(record, colIdx, "Year"))
		if state == "" || !yearOK {
			dropped++
			continue
		}

		pop := parseRateOrNaN(getCol(record, colIdx, "Population"))
		density := parseRateOrNaN(getCol(record, colIdx, "Density"))

		// A population of zero would blow up the per-capita derivation.
		if pop == 0 {
			dropped++
			continue
		}

		recs = append(recs, model.PopulationRecord{
			State:      state,
			Year:       year,
			Population: pop,
			Density:    density,
		})
	}

	return recs, dropped, nil
}
