package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	verifyCmd.Flags().String("character", "", "Only verify this character.")
	verifyCmd.Flags().Int("offset", 0, "Skip this many characters (sorted by name).")
	verifyCmd.Flags().Int("limit", 0, "Verify at most this many characters (0 means all).")
	verifyCmd.Flags().String("out", "", "Write the report here instead of the default report path.")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [--character X] [--offset N] [--limit N] [--out path]",
	Short: "Re-extracts stored patch entries from the live patch notes and reports discrepancies.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts service.VerifyOptions
		var err error
		if opts.Character, err = cmd.Flags().GetString("character"); err != nil {
			return err
		}
		if opts.Offset, err = cmd.Flags().GetInt("offset"); err != nil {
			return err
		}
		if opts.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
			return err
		}
		if opts.Out, err = cmd.Flags().GetString("out"); err != nil {
			return err
		}

		var verify *service.VerifyService
		return withApp(cmd, func(ctx context.Context) error {
			report, path, err := verify.Sweep(ctx, opts)
			if errors.Is(err, domain.ErrCharacterNotFound) {
				suggestions, serr := verify.Suggest(ctx, opts.Character)
				if serr == nil && len(suggestions) > 0 {
					names := make([]string, len(suggestions))
					for i, s := range suggestions {
						names[i] = s.Name
					}
					return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
				}
				return err
			}
			if report == nil {
				return err
			}

			sm := report.Summary
			t := newTable()
			t.AppendHeader(table.Row{"Pairs", "Patches", "Match", "Mismatch", "Not found", "Section missing", "Errors"})
			t.AppendRow(table.Row{sm.TotalPairs, sm.TotalPatches, sm.MatchCount, sm.MismatchCount, sm.NotFoundCount, sm.SectionMissingCount, sm.ErrorCount})
			t.Render()

			if len(report.Discrepancies) > 0 {
				d := newTable()
				d.AppendHeader(table.Row{"Character", "Patch", "Version", "Stored", "Web", "Missing", "Extra"})
				for _, r := range report.Discrepancies {
					d.AppendRow(table.Row{r.Character, r.PatchID, r.PatchVersion, r.DBChangesCount, r.WebChangesCount, len(r.MissingChanges), len(r.ExtraChanges)})
				}
				d.Render()
			}

			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", path)
			}
			return err
		}, &verify)
	},
}
