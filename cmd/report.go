package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruralstat/overdose-report/internal/dataset"
	"github.com/ruralstat/overdose-report/internal/model"
	"github.com/ruralstat/overdose-report/internal/pipeline"
	"github.com/ruralstat/overdose-report/internal/store"
)

var (
	reportMortality  string
	reportFacilities string
	reportRegions    string
	reportPopulation string
	reportIndicator  string
	reportOutput     string
	reportXLSX       bool
	reportArchive    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full pipeline and write the report",
	Long: `Loads the four sources, densifies the population series, joins on
(state, year), classifies urban/rural, and writes the report.

Outputs in the output directory:
  report.md    summary tables and the scatter fit
  series.json  chart-ready trend, regional, and scatter data
  scatter.csv  density vs. crude rate points
  trend.csv    mean crude rate per class per year
  report.xlsx  aggregate tables as a workbook (--xlsx)

The summary table is also printed to stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		src, err := loadSources()
		if err != nil {
			return err
		}

		res := pipeline.Run(src)
		if res.Counts.Merged == 0 {
			return eris.New("report: no rows survived the join; check that the sources share states and years")
		}

		if err := writeOutputs(res); err != nil {
			return err
		}

		if reportArchive {
			if err := archiveRun(cmd, res); err != nil {
				// The report itself succeeded; archiving is best effort.
				zap.L().Error("report: archive run", zap.Error(err))
			}
		}

		fmt.Println(pipeline.FormatSummaryTable(res.ClassSummary))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMortality, "mortality", "", "mortality export path (default from config)")
	reportCmd.Flags().StringVar(&reportFacilities, "facilities", "", "facility indicator file path (default from config)")
	reportCmd.Flags().StringVar(&reportRegions, "regions", "", "region lookup path (default from config)")
	reportCmd.Flags().StringVar(&reportPopulation, "population", "", "population/density series path (default from config)")
	reportCmd.Flags().StringVar(&reportIndicator, "indicator", dataset.DefaultFacilityIndicator, "facility indicator series to keep")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "output directory (default from config)")
	reportCmd.Flags().BoolVar(&reportXLSX, "xlsx", false, "also export the aggregate tables as a workbook")
	reportCmd.Flags().BoolVar(&reportArchive, "archive", false, "archive the run summary in the store")
	rootCmd.AddCommand(reportCmd)
}

// sourcePaths resolves flag overrides against config defaults.
func sourcePaths() (mortality, facilities, regions, population string) {
	mortality = firstOf(reportMortality, cfg.Sources.Mortality)
	facilities = firstOf(reportFacilities, cfg.Sources.Facilities)
	regions = firstOf(reportRegions, cfg.Sources.Regions)
	population = firstOf(reportPopulation, cfg.Sources.Population)
	return
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadSources reads and cleans the four inputs concurrently. The files are
// independent; the pipeline itself stays sequential.
func loadSources() (pipeline.Sources, error) {
	mortalityPath, facilitiesPath, regionsPath, populationPath := sourcePaths()

	var src pipeline.Sources
	var g errgroup.Group

	g.Go(func() error {
		var err error
		src.Mortality, err = dataset.LoadMortality(mortalityPath)
		return err
	})
	g.Go(func() error {
		var err error
		src.Facilities, err = dataset.LoadFacilities(facilitiesPath, reportIndicator)
		return err
	})
	g.Go(func() error {
		var err error
		src.Regions, err = dataset.LoadRegions(regionsPath)
		return err
	})
	g.Go(func() error {
		var err error
		src.Population, err = dataset.LoadPopulation(populationPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return pipeline.Sources{}, eris.Wrap(err, "report: load sources")
	}
	return src, nil
}

func writeOutputs(res *pipeline.Result) error {
	outDir := firstOf(reportOutput, cfg.Report.OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrap(err, "report: create output dir")
	}

	mdPath := filepath.Join(outDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(pipeline.FormatReport(res)), 0o644); err != nil {
		return eris.Wrap(err, "report: write markdown")
	}

	seriesPath := filepath.Join(outDir, "series.json")
	sf, err := os.Create(seriesPath)
	if err != nil {
		return eris.Wrap(err, "report: create series file")
	}
	if err := pipeline.WriteSeriesJSON(sf, res.Series()); err != nil {
		_ = sf.Close()
		return err
	}
	if err := sf.Close(); err != nil {
		return eris.Wrap(err, "report: close series file")
	}

	if err := writeCSV(filepath.Join(outDir, "scatter.csv"), func(f *os.File) error {
		return pipeline.WriteScatterCSV(f, pipeline.ScatterPoints(res.Merged))
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, "trend.csv"), func(f *os.File) error {
		return pipeline.WriteTrendCSV(f, res.Trend)
	}); err != nil {
		return err
	}

	if reportXLSX {
		if err := pipeline.ExportXLSX(res, filepath.Join(outDir, "report.xlsx")); err != nil {
			return err
		}
	}

	zap.L().Info("report written", zap.String("dir", outDir))
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", filepath.Base(path))
	}
	defer f.Close() //nolint:errcheck
	return write(f)
}

// archiveRun records the run summary in the configured store.
func archiveRun(cmd *cobra.Command, res *pipeline.Result) error {
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run, err := st.CreateRun(ctx)
	if err != nil {
		return err
	}

	summary, err := json.Marshal(res)
	if err != nil {
		_ = st.FailRun(ctx, run.ID, err.Error())
		return eris.Wrap(err, "report: marshal run summary")
	}
	if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
		return err
	}

	zap.L().Info("run archived",
		zap.String("run_id", run.ID),
		zap.String("status", string(model.RunStatusComplete)),
	)
	return nil
}
