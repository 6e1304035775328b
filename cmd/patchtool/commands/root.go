package commands

import (
	"context"
	"fmt"
	"os"

	"er-patch-tracker/internal/constants"
	fxmodules "er-patch-tracker/internal/fx"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "patchtool",
	Short:         "patchtool crawls Eternal Return patch notes and keeps the character balance history in sync with them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp builds the dependency graph, fills targets, runs fn and stops the
// app again.
func withApp(cmd *cobra.Command, fn func(ctx context.Context) error, targets ...any) error {
	app := fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	startCtx, cancel := context.WithTimeout(cmd.Context(), constants.StartTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	runErr := fn(cmd.Context())

	stopCtx, cancelStop := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
