package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestFormatSummaryTable(t *testing.T) {
	res := Run(testSources())
	out := FormatSummaryTable(res.ClassSummary)

	assert.Contains(t, out, "Rural")
	assert.Contains(t, out, "Urban")
	// StyleLight uppercases header cells.
	assert.Contains(t, out, "TOTAL DEATHS")
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "19")
}

func TestFormatReport(t *testing.T) {
	res := Run(testSources())
	out := FormatReport(res)

	assert.Contains(t, out, "# Urban vs. Rural Overdose Mortality")
	assert.Contains(t, out, "## Summary by Classification")
	assert.Contains(t, out, "## Crude Rate Trend")
	assert.Contains(t, out, "## Regional Breakdown")
	assert.Contains(t, out, "OLS fit over 4 points")
}

func TestFormatReport_DegenerateFit(t *testing.T) {
	res := Run(testSources())
	res.Fit = TrendFit{}

	out := FormatReport(res)
	assert.Contains(t, out, "Not enough points")
}

func TestExportXLSX(t *testing.T) {
	res := Run(testSources())
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, ExportXLSX(res, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	assert.Contains(t, f.Sheet, "Summary")
	assert.Contains(t, f.Sheet, "Trend")
	assert.Contains(t, f.Sheet, "Regional")

	summary := f.Sheet["Summary"]
	require.GreaterOrEqual(t, len(summary.Rows), 3)
	assert.Equal(t, "Class", summary.Rows[0].Cells[0].String())
}
