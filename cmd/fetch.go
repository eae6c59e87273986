package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruralstat/overdose-report/internal/fetcher"
)

var fetchOverwrite bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the configured source files",
	Long: `Downloads each source with a configured URL to its local path from
the sources section. Sources without a URL are skipped. Existing files
are kept unless --overwrite is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		})

		targets := []struct {
			name string
			url  string
			path string
		}{
			{"mortality", cfg.Fetch.MortalityURL, cfg.Sources.Mortality},
			{"facilities", cfg.Fetch.FacilitiesURL, cfg.Sources.Facilities},
			{"regions", cfg.Fetch.RegionsURL, cfg.Sources.Regions},
			{"population", cfg.Fetch.PopulationURL, cfg.Sources.Population},
		}

		var g errgroup.Group
		fetched := 0
		for _, tgt := range targets {
			if tgt.url == "" {
				zap.L().Debug("fetch: no url configured, skipping", zap.String("source", tgt.name))
				continue
			}
			if !fetchOverwrite {
				if _, err := os.Stat(tgt.path); err == nil {
					zap.L().Info("fetch: file exists, skipping", zap.String("path", tgt.path))
					continue
				}
			}
			fetched++

			g.Go(func() error {
				if dir := filepath.Dir(tgt.path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return eris.Wrapf(err, "fetch: create dir for %s", tgt.name)
					}
				}
				n, err := f.DownloadToFile(ctx, tgt.url, tgt.path)
				if err != nil {
					return eris.Wrapf(err, "fetch: %s", tgt.name)
				}
				zap.L().Info("fetched source",
					zap.String("source", tgt.name),
					zap.String("path", tgt.path),
					zap.Int64("bytes", n),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
		if fetched == 0 {
			zap.L().Info("fetch: nothing to do")
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchOverwrite, "overwrite", false, "re-download sources that already exist locally")
	rootCmd.AddCommand(fetchCmd)
}
