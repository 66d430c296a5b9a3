package cmd

import (
	"fmt"

	"github.com/budgie-app/budgie/internal/cli"
	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/resources"

	"github.com/spf13/cobra"
)

var (
	flagListPage     int
	flagListPageSize int
	flagListSort     string
	flagListFilters  []string
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "Print one page of a resource",
	Example: `  budgie list transfers --sort -value
  budgie list transfers -f "transfer_type is EXPENSE" -f "value >= 100"
  budgie list budgets --page 2 --page-size 25`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: resources.Names(),
	RunE:      runList,
}

func init() {
	listCmd.Flags().IntVar(&flagListPage, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&flagListPageSize, "page-size", 0, "Rows per page (default from config)")
	listCmd.Flags().StringVarP(&flagListSort, "sort", "s", "", "Sort field, prefix with - for descending")
	listCmd.Flags().StringArrayVarP(&flagListFilters, "filter", "f", nil, `Filter "field operator value" (repeatable)`)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	filters, err := parseFilters(res, flagListFilters)
	if err != nil {
		return err
	}

	e, hub := newEngine(res)
	defer hub.Close()

	size := flagListPageSize
	if size == 0 {
		size = appCfg.Grid.PageSize
	}
	if err := e.SetPagination(grid.Pagination{Page: flagListPage - 1, PageSize: size}); err != nil {
		return fmt.Errorf("--page %d --page-size %d: %w (sizes: %v)", flagListPage, size, err, e.PageSizes())
	}
	if cmd.Flags().Changed("sort") {
		items := grid.ParseSort(flagListSort)
		if len(items) > 0 {
			if _, ok := res.Columns.Lookup(items[0].Field); !ok {
				return fmt.Errorf("--sort: %s has no field %q", res.Name, items[0].Field)
			}
		}
		e.SetSortModel(items)
	}
	e.SetFilters(filters)

	ctx, cancel := signalContext()
	defer cancel()

	if err := e.Fetch(ctx); err != nil {
		printAlert(hub)
		return err
	}

	rows := e.Rows()
	fmt.Println()
	if len(rows) == 0 {
		fmt.Println("  " + cli.RenderMuted("No rows match."))
	} else {
		fmt.Print(cli.RenderTable(cli.ResourceTable(res.Title, res.Columns, rows)))
	}
	fmt.Println("  " + cli.RenderMuted(cli.FormatPageInfo(e.Query().Pagination.Page, e.PageCount(), e.Count())))
	fmt.Println()
	return nil
}
