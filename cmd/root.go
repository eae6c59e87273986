package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ruralstat/overdose-report/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "overdose-report",
	Short: "Urban/rural overdose mortality report generator",
	Long:  "Cleans four public tabular sources (mortality, treatment facilities, census regions, population density), merges them into one state-year dataset, and derives the urban/rural summary statistics and chart series.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
