package commands

import (
	"context"
	"strings"

	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Maintains the list of characters each patch note mentions.",
}

func init() {
	namesScanCmd.Flags().Int("limit", 0, "Scan only the newest N patch notes (0 means all).")
	namesScanCmd.Flags().Bool("apply", false, "Store the names found on each page.")

	namesCmd.AddCommand(namesScanCmd)
	namesCmd.AddCommand(namesRebuildCmd)
	rootCmd.AddCommand(namesCmd)
}

var namesScanCmd = &cobra.Command{
	Use:   "scan [--limit N] [--apply]",
	Short: "Reads patch pages and compares the characters found with the stored lists.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		apply, err := cmd.Flags().GetBool("apply")
		if err != nil {
			return err
		}

		var names *service.NamesService
		return withApp(cmd, func(ctx context.Context) error {
			scans, err := names.Scan(ctx, limit, apply)

			t := newTable()
			t.AppendHeader(table.Row{"Patch", "Title", "Status", "Found", "Missing", "Excess", "Applied"})
			for _, s := range scans {
				if !s.Changed() && s.Error == "" {
					continue
				}
				status := s.Status
				if s.Error != "" {
					status = s.Error
				}
				t.AppendRow(table.Row{
					s.PatchID,
					s.Title,
					status,
					len(s.Found),
					strings.Join(s.Missing, ", "),
					strings.Join(s.Excess, ", "),
					s.Applied,
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "", "scanned", len(scans)})
			t.Render()
			return err
		}, &names)
	},
}

var namesRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recomputes every patch note's character list from the stored histories.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var names *service.NamesService
		return withApp(cmd, func(ctx context.Context) error {
			res, err := names.Rebuild(ctx)
			if err != nil {
				return err
			}

			t := newTable()
			t.AppendHeader(table.Row{"Updated", "Orphan patch ids"})
			orphans := make([]string, len(res.Orphans))
			for i, id := range res.Orphans {
				orphans[i] = itoa(id)
			}
			t.AppendRow(table.Row{res.Updated, strings.Join(orphans, ", ")})
			t.Render()
			return nil
		}, &names)
	},
}
