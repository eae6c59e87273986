package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ruralstat/overdose-report/internal/dataset"
)

var inspectJSON bool

// sourceStats summarizes one cleaned input file.
type sourceStats struct {
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
	States  int    `json:"states"`
	MinYear int    `json:"min_year,omitempty"`
	MaxYear int    `json:"max_year,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show row counts and year coverage per source",
	Long: `Loads and cleans each source file, then prints how many rows
survived cleaning and which states and years they cover. Useful for
checking a fresh download before running the report.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		src, err := loadSources()
		if err != nil {
			return err
		}

		stats := make([]sourceStats, 0, 4)

		{
			s := sourceStats{Source: "mortality", Rows: len(src.Mortality)}
			seen := map[string]struct{}{}
			for _, r := range src.Mortality {
				seen[r.State] = struct{}{}
				s.spanYear(r.Year)
			}
			s.States = len(seen)
			stats = append(stats, s)
		}
		{
			s := sourceStats{Source: "facilities", Rows: len(src.Facilities)}
			seen := map[string]struct{}{}
			for _, r := range src.Facilities {
				seen[r.State] = struct{}{}
				s.spanYear(r.Year)
			}
			s.States = len(seen)
			stats = append(stats, s)
		}
		{
			s := sourceStats{Source: "regions", Rows: len(src.Regions)}
			seen := map[string]struct{}{}
			for _, r := range src.Regions {
				seen[r.State] = struct{}{}
			}
			s.States = len(seen)
			stats = append(stats, s)
		}
		{
			s := sourceStats{Source: "population", Rows: len(src.Population)}
			seen := map[string]struct{}{}
			for _, r := range src.Population {
				seen[r.State] = struct{}{}
				s.spanYear(r.Year)
			}
			s.States = len(seen)
			stats = append(stats, s)
		}

		if inspectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Source", "Rows", "States", "Years"})
		for _, s := range stats {
			years := "-"
			if s.MinYear > 0 {
				years = fmt.Sprintf("%d-%d", s.MinYear, s.MaxYear)
			}
			t.AppendRow(table.Row{s.Source, s.Rows, s.States, years})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func (s *sourceStats) spanYear(year int) {
	if s.MinYear == 0 || year < s.MinYear {
		s.MinYear = year
	}
	if year > s.MaxYear {
		s.MaxYear = year
	}
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit JSON instead of a table")
	inspectCmd.Flags().StringVar(&reportMortality, "mortality", "", "mortality export path (default from config)")
	inspectCmd.Flags().StringVar(&reportFacilities, "facilities", "", "facility indicator file path (default from config)")
	inspectCmd.Flags().StringVar(&reportRegions, "regions", "", "region lookup path (default from config)")
	inspectCmd.Flags().StringVar(&reportPopulation, "population", "", "population/density series path (default from config)")
	inspectCmd.Flags().StringVar(&reportIndicator, "indicator", dataset.DefaultFacilityIndicator, "facility indicator series to keep")
	rootCmd.AddCommand(inspectCmd)
}
