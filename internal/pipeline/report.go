package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var npr = message.NewPrinter(language.AmericanEnglish)

// FormatSummaryTable renders the urban/rural summary as a bordered table.
func FormatSummaryTable(sums []ClassSummary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Class", "States x Years", "Mean Density", "Avg Deaths / Capita", "Total Facilities", "Total Deaths"})

	for _, s := range sums {
		t.AppendRow(table.Row{
			string(s.Class),
			s.Rows,
			formatFloat(s.MeanDensity, 1),
			formatFloat(s.AvgDeathsPerCapita*100000, 1) + " per 100k",
			npr.Sprintf("%d", s.TotalFacilities),
			npr.Sprintf("%d", s.TotalDeaths),
		})
	}

	return t.Render()
}

// FormatReport renders the full markdown report: the summary table, the trend
// and regional tables, and the scatter fit. Chart rendering itself is left to
// whatever consumes the series export.
func FormatReport(res *Result) string {
	var b strings.Builder

	b.WriteString("# Urban vs. Rural Overdose Mortality\n\n")

	b.WriteString("## Dataset\n")
	npr.Fprintf(&b, "- Merged rows: %d (%d urban, %d rural)\n",
		res.Counts.Merged, res.Counts.UrbanRows, res.Counts.RuralRows)
	npr.Fprintf(&b, "- Source rows: %d mortality, %d facility, %d population (densified to %d)\n\n",
		res.Counts.Mortality, res.Counts.Facilities, res.Counts.Population, res.Counts.Densified)

	b.WriteString("## Summary by Classification\n")
	b.WriteString(FormatSummaryTable(res.ClassSummary))
	b.WriteString("\n\n")

	b.WriteString("## Crude Rate Trend (per 100,000)\n")
	for _, p := range res.Trend {
		fmt.Fprintf(&b, "- %d %s: %s\n", p.Year, p.Class, formatFloat(p.MeanCrudeRate, 1))
	}
	b.WriteString("\n")

	b.WriteString("## Regional Breakdown\n")
	for _, r := range res.Regional {
		npr.Fprintf(&b, "- %s/%s: %s deaths per 100k, %d facilities, %d deaths\n",
			string(r.Region), string(r.Class),
			formatFloat(r.AvgDeathsPerCapita*100000, 1),
			r.TotalFacilities, r.TotalDeaths)
	}
	b.WriteString("\n")

	b.WriteString("## Density vs. Crude Rate\n")
	if res.Fit.N >= 2 {
		fmt.Fprintf(&b, "- OLS fit over %d points: rate = %.4f + %.6f x density (R² %.3f)\n",
			res.Fit.N, res.Fit.Intercept, res.Fit.Slope, res.Fit.R2)
	} else {
		b.WriteString("- Not enough points for a trend line.\n")
	}

	return b.String()
}

// ExportXLSX writes the three aggregate tables to a workbook, one sheet each.
func ExportXLSX(res *Result, path string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, "Class", "Rows", "Mean Density", "Avg Deaths Per Capita", "Total Facilities", "Total Deaths")
	for _, s := range res.ClassSummary {
		row := summary.AddRow()
		row.AddCell().SetString(string(s.Class))
		row.AddCell().SetInt(s.Rows)
		addFloatCell(row, s.MeanDensity)
		addFloatCell(row, s.AvgDeathsPerCapita)
		row.AddCell().SetInt(s.TotalFacilities)
		row.AddCell().SetInt(s.TotalDeaths)
	}

	trend, err := f.AddSheet("Trend")
	if err != nil {
		return eris.Wrap(err, "report: add trend sheet")
	}
	addRow(trend, "Year", "Class", "Mean Crude Rate")
	for _, p := range res.Trend {
		row := trend.AddRow()
		row.AddCell().SetInt(p.Year)
		row.AddCell().SetString(string(p.Class))
		addFloatCell(row, p.MeanCrudeRate)
	}

	regional, err := f.AddSheet("Regional")
	if err != nil {
		return eris.Wrap(err, "report: add regional sheet")
	}
	addRow(regional, "Region", "Class", "Avg Deaths Per Capita", "Total Facilities", "Total Deaths")
	for _, r := range res.Regional {
		row := regional.AddRow()
		row.AddCell().SetString(string(r.Region))
		row.AddCell().SetString(string(r.Class))
		addFloatCell(row, r.AvgDeathsPerCapita)
		row.AddCell().SetInt(r.TotalFacilities)
		row.AddCell().SetInt(r.TotalDeaths)
	}

	return eris.Wrap(f.Save(path), "report: save xlsx")
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func addFloatCell(row *xlsx.Row, v float64) {
	cell := row.AddCell()
	if math.IsNaN(v) {
		cell.SetString("")
		return
	}
	cell.SetFloat(v)
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, v)
}
