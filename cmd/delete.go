package cmd

import (
	"github.com/budgie-app/budgie/internal/resources"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:       "delete <resource> <id>...",
	Short:     "Delete one or more rows",
	Example:   `  budgie delete transfers 12 13 14`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: resources.Names(),
	RunE:      runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	res, err := lookupResource(args[0])
	if err != nil {
		return err
	}

	e, hub := newEngine(res)
	defer hub.Close()

	ctx, cancel := signalContext()
	defer cancel()

	err = e.BulkDelete(ctx, args[1:])
	printAlert(hub)
	if err != nil {
		return err
	}
	return nil
}
