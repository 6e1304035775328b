package commands

import (
	"context"
	"fmt"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/reconcile"
	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repairs stored patch entries from the live patch notes.",
}

func init() {
	fixChangesCmd.Flags().String("report", "", "Verification report to repair from.")
	fixChangesCmd.Flags().Bool("dry-run", false, "Show what would change without writing.")
	fixChangesCmd.MarkFlagRequired("report")

	fixEntriesCmd.Flags().String("targets", "", "JSON5 file listing {patchId, characters} targets.")
	fixEntriesCmd.Flags().Bool("dry-run", false, "Show what would change without writing.")
	fixEntriesCmd.MarkFlagRequired("targets")

	fixCmd.AddCommand(fixChangesCmd)
	fixCmd.AddCommand(fixEntriesCmd)
	rootCmd.AddCommand(fixCmd)
}

var fixChangesCmd = &cobra.Command{
	Use:   "changes --report path [--dry-run]",
	Short: "Replaces stored changes where the report shows the live page lists more.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("report")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}
		report, err := reconcile.ReadFile(path)
		if err != nil {
			return err
		}

		var fix *service.FixService
		return withApp(cmd, func(ctx context.Context) error {
			res, err := fix.FixChanges(ctx, report, dryRun)
			if res != nil {
				renderFix(cmd, res)
			}
			return err
		}, &fix)
	},
}

var fixEntriesCmd = &cobra.Command{
	Use:   "entries --targets file.json5 [--dry-run]",
	Short: "Adds missing patch entries for the listed characters.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("targets")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}
		targets, err := config.ReadTargets(path)
		if err != nil {
			return err
		}

		var fix *service.FixService
		return withApp(cmd, func(ctx context.Context) error {
			res, err := fix.AddMissing(ctx, targets, dryRun)
			if res != nil {
				renderFix(cmd, res)
			}
			return err
		}, &fix)
	},
}

func renderFix(cmd *cobra.Command, res *service.FixResult) {
	t := newTable()
	t.AppendHeader(table.Row{"Result", "Character", "Patch", "Changes", "Reason"})
	for _, group := range []struct {
		label string
		items []service.FixItem
	}{
		{"fixed", res.Fixed},
		{"skipped", res.Skipped},
		{"failed", res.Failed},
	} {
		for _, it := range group.items {
			t.AppendRow(table.Row{group.label, it.Character, it.PatchID, it.Changes, it.Reason})
		}
	}
	t.Render()

	if res.DryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "dry run: nothing was written")
	}
}
