package commands

import (
	"context"

	"er-patch-tracker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	crawlCmd.Flags().Bool("full", false, "Walk every listing page instead of stopping at the first page without new patch notes.")
	crawlCmd.Flags().Int("max-pages", 0, "Stop after this many listing pages (0 uses the built-in cap).")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--full] [--max-pages N]",
	Short: "Fetches the patch note listing and stores new patch notes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, err := cmd.Flags().GetBool("full")
		if err != nil {
			return err
		}
		maxPages, err := cmd.Flags().GetInt("max-pages")
		if err != nil {
			return err
		}

		var crawl *service.CrawlService
		return withApp(cmd, func(ctx context.Context) error {
			res, err := crawl.Crawl(ctx, service.CrawlOptions{Full: full, MaxPages: maxPages})
			if res != nil {
				t := newTable()
				t.AppendHeader(table.Row{"Pages", "Patch notes", "New"})
				t.AppendRow(table.Row{res.Pages, res.Fetched, res.New})
				t.Render()
			}
			return err
		}, &crawl)
	},
}
