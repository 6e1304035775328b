package commands

import (
	"context"
	"fmt"

	"er-patch-tracker/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recalcCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recomputes streaks and stats for every stored character.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var history *service.HistoryService
		return withApp(cmd, func(ctx context.Context) error {
			n, err := history.RecalculateAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recalculated %d characters\n", n)
			return nil
		}, &history)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Loads characters from a JSON snapshot, recomputing their stats.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var history *service.HistoryService
		return withApp(cmd, func(ctx context.Context) error {
			n, err := history.Import(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d characters from %s\n", n, args[0])
			return nil
		}, &history)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Writes every stored character to a JSON snapshot.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var history *service.HistoryService
		return withApp(cmd, func(ctx context.Context) error {
			n, err := history.Export(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d characters to %s\n", n, args[0])
			return nil
		}, &history)
	},
}
