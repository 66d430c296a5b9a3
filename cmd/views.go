package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/budgie-app/budgie/internal/cli"
	"github.com/budgie-app/budgie/internal/store"

	"github.com/spf13/cobra"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Show the saved grid views",
	RunE:  runViews,
}

var viewsClearCmd = &cobra.Command{
	Use:   "clear [resource...]",
	Short: "Forget saved views (all when no resource is given)",
	RunE:  runViewsClear,
}

func init() {
	viewsCmd.AddCommand(viewsClearCmd)
	rootCmd.AddCommand(viewsCmd)
}

func runViews(_ *cobra.Command, _ []string) error {
	views, err := store.Open(store.DefaultPath())
	if err != nil {
		return err
	}
	defer func() { _ = views.Close() }()

	list, err := views.ListViews()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("  No saved views.")
		return nil
	}

	t := cli.Table{
		Title:      "Saved views",
		Headers:    []string{"Resource", "Page", "Size", "Sort", "Filters", "Saved"},
		RightAlign: []bool{false, true, true, false, false, false},
	}
	for _, v := range list {
		sort := v.Sort
		if sort == "" {
			sort = "-"
		}
		filters := strings.Join(v.Filters, "; ")
		if filters == "" {
			filters = "-"
		}
		t.Rows = append(t.Rows, []string{
			v.Resource,
			strconv.Itoa(v.Page + 1),
			strconv.Itoa(v.PageSize),
			sort,
			cli.Truncate(filters, 40),
			cli.FormatAgo(v.UpdatedAt),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	fmt.Printf("  %s\n\n", cli.RenderMuted(store.DefaultPath()))
	return nil
}

func runViewsClear(_ *cobra.Command, args []string) error {
	views, err := store.Open(store.DefaultPath())
	if err != nil {
		return err
	}
	defer func() { _ = views.Close() }()

	if len(args) == 0 {
		if err := views.Clear(); err != nil {
			return err
		}
		fmt.Println("  " + cli.RenderSuccess("All saved views cleared."))
		return nil
	}

	for _, name := range args {
		res, err := lookupResource(name)
		if err != nil {
			return err
		}
		if err := views.DeleteView(res.Name); err != nil {
			return err
		}
	}
	fmt.Println("  " + cli.RenderSuccess(fmt.Sprintf("Cleared %d saved view(s).", len(args))))
	return nil
}
