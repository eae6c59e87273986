package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ruralstat/overdose-report/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived report runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no archived runs")
			return nil
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Status", "Created", "Error"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID,
				string(r.Status),
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.Error,
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print an archived run's summary JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("id:      %s\n", run.ID)
		fmt.Printf("status:  %s\n", run.Status)
		fmt.Printf("created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		if run.Error != "" {
			fmt.Printf("error:   %s\n", run.Error)
		}
		if len(run.Summary) > 0 {
			fmt.Println()
			_, _ = os.Stdout.Write(run.Summary)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "max runs to list (default 50)")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
