package cmd

import (
	"fmt"

	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/resources"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:       "add <resource> field=value...",
	Short:     "Create a row",
	Example:   `  budgie add transfers name=Coffee transfer_type=EXPENSE value=12.5 date=2025-02-01 category=3 deposit=1`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: resources.Names(),
	RunE:      runAdd,
}

var updateCmd = &cobra.Command{
	Use:     "update <resource> <id> field=value...",
	Short:   "Change fields of a row",
	Example: `  budgie update budgets 4 amount=1500`,
	Args:    cobra.MinimumNArgs(3),
	RunE:    runUpdate,
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	res, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	fields, err := parseAssignments(res, args[1:])
	if err != nil {
		return err
	}

	e, hub := newEngine(res)
	defer hub.Close()

	ctx, cancel := signalContext()
	defer cancel()

	row, err := e.Create(ctx, e.AddRow(fields))
	printAlert(hub)
	if err != nil {
		return err
	}
	fmt.Printf("  id: %s\n", row.ID())
	return nil
}

func runUpdate(_ *cobra.Command, args []string) error {
	res, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	row, err := parseAssignments(res, args[2:])
	if err != nil {
		return err
	}
	row[model.IDField] = args[1]

	e, hub := newEngine(res)
	defer hub.Close()

	ctx, cancel := signalContext()
	defer cancel()

	err = e.Update(ctx, row)
	printAlert(hub)
	if err != nil {
		return err
	}
	return nil
}
