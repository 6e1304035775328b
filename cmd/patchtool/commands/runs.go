package commands

import (
	"context"
	"time"

	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	runsCmd.Flags().Int("limit", 0, "Show this many runs (0 uses the default).")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--limit N]",
	Short: "Lists recent verification sweeps.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		var verify *service.VerifyService
		return withApp(cmd, func(ctx context.Context) error {
			runs, err := verify.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}

			t := newTable()
			t.AppendHeader(table.Row{"Run", "Started", "Duration", "Pairs", "Match", "Mismatch", "Not found", "Errors", "Report"})
			for _, r := range runs {
				duration := "running"
				if r.FinishedAt != nil {
					duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
				}
				t.AppendRow(table.Row{
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					duration,
					r.Total,
					r.Matched,
					r.Mismatched,
					r.NotFound,
					r.Errored,
					r.ReportPath,
				})
			}
			t.Render()
			return nil
		}, &verify)
	},
}
