package commands

import (
	"context"
	"fmt"
	"strconv"

	"er-patch-tracker/internal/balance"
	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/patchnote"
	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	parseCmd.Flags().String("character", "", "Only extract this character.")
	parseCmd.Flags().String("file", "", "Parse a saved page instead of fetching it.")
	rootCmd.AddCommand(parseCmd)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

var parseCmd = &cobra.Command{
	Use:   "parse <patchId> [--character X] [--file path]",
	Short: "Prints what the extractor recovers from one patch note.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patchID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid patch id %q: %w", args[0], err)
		}
		opts := service.ParseOptions{PatchID: patchID}
		if opts.Character, err = cmd.Flags().GetString("character"); err != nil {
			return err
		}
		if opts.File, err = cmd.Flags().GetString("file"); err != nil {
			return err
		}

		var parse *service.ParseService
		return withApp(cmd, func(ctx context.Context) error {
			res, err := parse.Parse(ctx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s, sections: %d, characters: %d\n", res.Status, res.Sections, len(res.Characters))
			if res.Status != patchnote.StatusFound {
				return nil
			}

			for _, c := range res.Characters {
				fmt.Fprintf(out, "\n%s (%s, %s)\n", c.Name, c.Shape, balance.OverallChange(c.Changes))
				if c.DevComment != "" {
					fmt.Fprintf(out, "comment: %s\n", c.DevComment)
				}
				t := newTable()
				t.AppendHeader(table.Row{"Target", "Stat / description", "Before", "After", "Type", "Category"})
				for _, ch := range c.Changes {
					text := ch.Stat
					if !ch.IsNumeric() {
						text = ch.Description
					}
					t.AppendRow(table.Row{ch.Target, text, ch.Before, ch.After, ch.ChangeType, category(ch)})
				}
				t.Render()
			}
			return nil
		}, &parse)
	},
}

// category shows the value effect next to numeric changes that add or remove
// a value.
func category(ch domain.Change) string {
	if !ch.IsNumeric() {
		return string(ch.ChangeCategory)
	}
	switch effect := balance.Effect(ch.Before, ch.After); effect {
	case domain.CategoryAdded, domain.CategoryRemoved:
		return fmt.Sprintf("%s (%s)", ch.ChangeCategory, effect)
	}
	return string(ch.ChangeCategory)
}
