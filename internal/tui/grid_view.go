package tui

import (
	"fmt"
	"strings"

	"github.com/budgie-app/budgie/internal/cli"
	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/resources"
	"github.com/budgie-app/budgie/internal/tui/components"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	idColWidth     = 6
	budgetBarWidth = 10
)

// gridView binds one resource engine to a table widget.
type gridView struct {
	res     resources.Resource
	engine  *grid.Engine
	table   table.Model
	rows    []model.Row // snapshot the table rows were built from
	sortCol int         // column the "s" key sorts by next; -1 before first use
	fetched bool
	stale   bool // a refresh event arrived while the tab was hidden
}

func newGridView(res resources.Resource, e *grid.Engine) *gridView {
	t := table.New(
		table.WithColumns(tableColumns(res)),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())

	gv := &gridView{res: res, engine: e, table: t, sortCol: -1}
	if s := e.Query().Sort; !s.IsZero() {
		for i, c := range res.Columns {
			if c.Field == s.Field {
				gv.sortCol = i
			}
		}
	}
	return gv
}

func isBudgets(res resources.Resource) bool {
	return res.Name == resources.Budgets.Name
}

func tableColumns(res resources.Resource) []table.Column {
	cols := []table.Column{{Title: "ID", Width: idColWidth}}
	for _, c := range res.Columns {
		w := max(c.Width, lipgloss.Width(c.Label))
		cols = append(cols, table.Column{Title: c.Label, Width: w})
	}
	if isBudgets(res) {
		cols = append(cols, table.Column{Title: "Used", Width: budgetBarWidth + 5})
	}
	return cols
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true)
	return s
}

// sync rebuilds the table from the engine's current rows.
func (gv *gridView) sync() {
	gv.rows = gv.engine.Rows()
	out := make([]table.Row, len(gv.rows))
	for i, r := range gv.rows {
		id := r.ID()
		if r.IsNew() {
			id = "new"
		}
		line := table.Row{id}
		for _, c := range gv.res.Columns {
			line = append(line, cli.FormatCell(c, r))
		}
		if isBudgets(gv.res) {
			line = append(line, budgetCell(r))
		}
		out[i] = line
	}
	gv.table.SetRows(out)
	gv.table.SetCursor(min(gv.table.Cursor(), max(len(out)-1, 0)))
}

func budgetCell(r model.Row) string {
	stats, ok := model.BudgetFromRow(r, "amount", "spent")
	if !ok {
		return ""
	}
	pct := 0.0
	if stats.Planned > 0 {
		pct = stats.Spent / stats.Planned
	}
	return fmt.Sprintf("%s %3.0f%%", components.MiniBar(stats.Progress, budgetBarWidth), pct*100)
}

// selected returns the row under the cursor.
func (gv *gridView) selected() (model.Row, bool) {
	i := gv.table.Cursor()
	if i < 0 || i >= len(gv.rows) {
		return nil, false
	}
	return gv.rows[i], true
}

// selectID moves the cursor to the row with id, if present.
func (gv *gridView) selectID(id string) {
	for i, r := range gv.rows {
		if r.ID() == id {
			gv.table.SetCursor(i)
			return
		}
	}
}

// nextSortItems advances the sort column and returns an ascending sort on it.
func (gv *gridView) nextSortItems() []grid.SortItem {
	gv.sortCol = (gv.sortCol + 1) % len(gv.res.Columns)
	return []grid.SortItem{{Field: gv.res.Columns[gv.sortCol].Field, Direction: grid.Asc}}
}

// flipSortItems reverses the current sort, or sorts the first column
// descending when none is active.
func (gv *gridView) flipSortItems() []grid.SortItem {
	s := gv.engine.Query().Sort
	if s.IsZero() {
		gv.sortCol = 0
		return []grid.SortItem{{Field: gv.res.Columns[0].Field, Direction: grid.Desc}}
	}
	dir := grid.Desc
	if s.Direction == grid.Desc {
		dir = grid.Asc
	}
	return []grid.SortItem{{Field: s.Field, Direction: dir}}
}

// queryLine describes the active sort and filters.
func (gv *gridView) queryLine() string {
	q := gv.engine.Query()
	var parts []string
	if !q.Sort.IsZero() {
		arrow := "↑"
		if q.Sort.Direction == grid.Desc {
			arrow = "↓"
		}
		parts = append(parts, "sort "+gv.res.Columns.Label(q.Sort.Field)+" "+arrow)
	}
	for _, f := range q.Filters {
		parts = append(parts, grid.FormatFilter(f))
	}
	if len(parts) == 0 {
		return "no sort · no filters"
	}
	return strings.Join(parts, " · ")
}

// budgetDetail renders the utilisation bar of the selected budget next to
// its amounts.
func (gv *gridView) budgetDetail(width int) string {
	r, ok := gv.selected()
	if !ok {
		return ""
	}
	stats, ok := model.BudgetFromRow(r, "amount", "spent")
	if !ok {
		return ""
	}
	barCardW := width * 3 / 5
	sumCardW := width - barCardW
	barW := max(components.CardInnerWidth(barCardW)-24, 10)
	bar := components.BudgetBar(cli.Truncate(r.String("name"), 14), stats, 14, barW)
	sums := fmt.Sprintf("Planned   %s\nSpent     %s\nRemaining %s",
		cli.FormatAmount(stats.Planned), cli.FormatAmount(stats.Spent), cli.FormatAmount(stats.Remaining))
	return components.CardRow([]string{
		components.ContentCard("Budget", bar, barCardW),
		components.ContentCard("Amounts", sums, sumCardW),
	})
}
