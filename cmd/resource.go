package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/budgie-app/budgie/internal/cli"
	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/notify"
	"github.com/budgie-app/budgie/internal/resources"
)

func lookupResource(name string) (resources.Resource, error) {
	res, ok := resources.Lookup(strings.ToLower(name))
	if !ok {
		return res, fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(resources.Names(), ", "))
	}
	return res, nil
}

// newEngine returns an engine for res bound to the configured API and a
// fresh hub. Callers close the hub.
func newEngine(res resources.Resource) (*grid.Engine, *notify.Hub) {
	hub := notify.NewHub()
	var opts []grid.EngineOption
	if appCfg.Grid.LatestOnly {
		opts = append(opts, grid.WithLatestOnly())
	}
	return res.NewEngine(newClient(appCfg), hub, opts...), hub
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseAssignments reads field=value arguments into a row of typed values.
// Only editable columns may be assigned.
func parseAssignments(res resources.Resource, args []string) (model.Row, error) {
	row := model.Row{}
	for _, arg := range args {
		field, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q: want field=value", arg)
		}
		col, found := res.Columns.Lookup(strings.TrimSpace(field))
		if !found || !col.Editable {
			return nil, fmt.Errorf("argument %q: %s has no editable field %q", arg, res.Name, field)
		}
		v, err := grid.ParseValue(col, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		row[col.Field] = v
	}
	return row, nil
}

// parseFilters reads filter expressions and checks them against res.
func parseFilters(res resources.Resource, exprs []string) ([]grid.Filter, error) {
	filters := make([]grid.Filter, 0, len(exprs))
	for _, expr := range exprs {
		f, err := grid.ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		col, ok := res.Columns.Lookup(f.Field)
		if !ok {
			return nil, fmt.Errorf("filter %q: %s has no field %q", expr, res.Name, f.Field)
		}
		if !grid.Allowed(col.Type, f.Operator) {
			return nil, fmt.Errorf("filter %q: %s does not apply to %s fields (use one of %v)",
				expr, f.Operator, col.Type, grid.OperatorsFor(col.Type))
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// printAlert writes the hub's alert, success to stdout and errors to stderr.
func printAlert(hub *notify.Hub) {
	alert, ok := hub.Alerts.Current()
	if !ok {
		return
	}
	if alert.Kind == notify.KindError {
		fmt.Fprintln(os.Stderr, "  "+cli.RenderError(strings.ReplaceAll(alert.Message, "\n", "\n    ")))
		return
	}
	fmt.Println("  " + cli.RenderSuccess(alert.Message))
}
