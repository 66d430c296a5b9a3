// Package tui provides the interactive Bubble Tea grids for budgie.
package tui

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/notify"
	"github.com/budgie-app/budgie/internal/resources"
	"github.com/budgie-app/budgie/internal/store"
	"github.com/budgie-app/budgie/internal/tui/components"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// Options wires the app to its collaborators.
type Options struct {
	Client     grid.Client
	Hub        *notify.Hub
	Views      *store.Store // nil disables saved views
	PageSize   int          // initial page size when no view is saved
	LatestOnly bool
}

type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeForm
)

// App is the root Bubble Tea model.
type App struct {
	ctx   context.Context
	hub   *notify.Hub
	views *store.Store

	grids  []*gridView
	active int

	refreshCh <-chan notify.RefreshEvent

	// UI state
	width    int
	height   int
	showHelp bool
	mode     mode
	filterIn textinput.Model
	form     *rowForm
	spinner  spinner.Model
	spinning bool
}

const (
	minTerminalWidth = 80
	minContentHeight = 5
)

// NewApp builds one grid per resource, restoring saved views when present.
func NewApp(ctx context.Context, opts Options) App {
	var engineOpts []grid.EngineOption
	if opts.LatestOnly {
		engineOpts = append(engineOpts, grid.WithLatestOnly())
	}

	grids := make([]*gridView, 0, len(resources.All))
	for _, res := range resources.All {
		e := res.NewEngine(opts.Client, opts.Hub, engineOpts...)
		if opts.PageSize > 0 {
			_ = e.SetPagination(grid.Pagination{Page: 0, PageSize: opts.PageSize})
		}
		restoreView(opts.Views, res.Name, e)
		grids = append(grids, newGridView(res, e))
	}

	_, ch := opts.Hub.Refresh.Subscribe(16)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	ti := textinput.New()
	ti.Placeholder = "field operator value, e.g. name contains rent"
	ti.CharLimit = 200
	ti.Width = 60

	return App{
		ctx:       ctx,
		hub:       opts.Hub,
		views:     opts.Views,
		grids:     grids,
		refreshCh: ch,
		filterIn:  ti,
		spinner:   sp,
	}
}

func restoreView(views *store.Store, name string, e *grid.Engine) {
	if views == nil {
		return
	}
	v, ok, err := views.LoadView(name)
	if err != nil {
		log.Warn().Str("component", "tui").Str("resource", name).Err(err).Msg("loading view failed")
		return
	}
	if !ok {
		return
	}
	if err := e.Restore(v.Query()); err != nil {
		log.Warn().Str("component", "tui").Str("resource", name).Err(err).Msg("saved view ignored")
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	a.grids[a.active].fetched = true
	return tea.Batch(
		tea.EnableMouseCellMotion,
		fetchCmd(a.ctx, a.active, a.grids[a.active].engine),
		waitForRefresh(a.refreshCh),
		a.spinner.Tick,
	)
}

func (a App) current() *gridView { return a.grids[a.active] }

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTables()
		if a.form != nil {
			a.form.form = a.form.form.WithWidth(min(msg.Width, 80))
		}
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case modeForm:
			if msg.String() == "esc" {
				return a.closeForm(false)
			}
			return a.updateForm(msg)
		case modeFilter:
			return a.updateFilterInput(msg)
		}
		return a.handleKey(msg)

	case FetchedMsg:
		gv := a.grids[msg.Grid]
		if msg.Err != nil && !errors.Is(msg.Err, grid.ErrSuperseded) {
			log.Debug().Str("component", "tui").Str("resource", gv.res.Name).Err(msg.Err).Msg("fetch failed")
		}
		gv.sync()
		return a, nil

	case SavedMsg:
		gv := a.grids[msg.Grid]
		gv.sync()
		if msg.Err == nil {
			gv.selectID(msg.Row.ID())
		}
		return a, nil

	case DeletedMsg:
		a.grids[msg.Grid].sync()
		return a, nil

	case RefreshMsg:
		if msg.Closed {
			return a, nil
		}
		return a, tea.Batch(a.onRefresh(msg.Event), waitForRefresh(a.refreshCh))

	case spinner.TickMsg:
		if !a.anyLoading() {
			a.spinning = false
			return a, nil
		}
		a.spinning = true
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.mode == modeForm {
		return a.updateForm(msg)
	}
	if a.mode == modeFilter {
		var cmd tea.Cmd
		a.filterIn, cmd = a.filterIn.Update(msg)
		return a, cmd
	}
	return a, nil
}

// onRefresh re-fetches the grid the event came from and marks the others
// stale so they re-fetch when shown.
func (a *App) onRefresh(ev notify.RefreshEvent) tea.Cmd {
	var cmd tea.Cmd
	for i, gv := range a.grids {
		if gv.res.Name == ev.Source {
			gv.fetched = true
			gv.stale = false
			cmd = a.fetch(i)
			continue
		}
		if gv.fetched {
			gv.stale = true
		}
	}
	return cmd
}

// fetch starts a fetch of grid i together with the loading spinner.
func (a *App) fetch(i int) tea.Cmd {
	cmd := fetchCmd(a.ctx, i, a.grids[i].engine)
	if a.spinning {
		return cmd
	}
	a.spinning = true
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a App) anyLoading() bool {
	for _, gv := range a.grids {
		if gv.engine.Loading() {
			return true
		}
	}
	return false
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	gv := a.current()
	switch key {
	case "q":
		return a, tea.Quit

	case "right", "tab":
		return a.switchTab((a.active + 1) % len(a.grids))
	case "left", "shift+tab":
		return a.switchTab((a.active - 1 + len(a.grids)) % len(a.grids))

	case "r":
		return a, a.fetch(a.active)

	case "n", "pgdown":
		p := gv.engine.Query().Pagination
		if p.Page+1 >= gv.engine.PageCount() {
			return a, nil
		}
		p.Page++
		return a.applyPagination(p)

	case "p", "pgup":
		p := gv.engine.Query().Pagination
		if p.Page == 0 {
			return a, nil
		}
		p.Page--
		return a.applyPagination(p)

	case "+", "=":
		return a.stepPageSize(1)
	case "-":
		return a.stepPageSize(-1)

	case "s":
		gv.engine.SetSortModel(gv.nextSortItems())
		return a, a.queryChanged()
	case "S":
		gv.engine.SetSortModel(gv.flipSortItems())
		return a, a.queryChanged()
	case "x":
		gv.engine.SetSortModel(nil)
		return a, a.queryChanged()

	case "/":
		a.mode = modeFilter
		a.filterIn.SetValue("")
		a.filterIn.Focus()
		return a, a.filterIn.Cursor.BlinkCmd()
	case "F":
		if len(gv.engine.Query().Filters) == 0 {
			return a, nil
		}
		gv.engine.SetFilters(nil)
		return a.resetPage()

	case "a":
		// A transient row left by a failed save is reopened as is.
		row, ok := gv.engine.Transient()
		if !ok {
			row = gv.engine.AddRow(nil)
			gv.sync()
		}
		gv.selectID(row.ID())
		return a.openForm(newEditForm(a.active, gv.res.Columns, row))

	case "e", "enter":
		row, ok := gv.selected()
		if !ok {
			return a, nil
		}
		return a.openForm(newEditForm(a.active, gv.res.Columns, row))

	case "d":
		row, ok := gv.selected()
		if !ok {
			return a, nil
		}
		if row.IsNew() {
			return a, deleteCmd(a.ctx, a.active, gv.engine, row.ID())
		}
		label := row.String("name")
		if label == "" {
			label = "row " + row.ID()
		}
		return a.openForm(newDeleteForm(a.active, row, label))

	case "c":
		a.hub.Alerts.Clear()
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			return a.switchTab(idx)
		}
	}

	var cmd tea.Cmd
	gv.table, cmd = gv.table.Update(msg)
	return a, cmd
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.active = idx
	gv := a.current()
	if !gv.fetched || gv.stale {
		gv.fetched = true
		gv.stale = false
		return a, a.fetch(idx)
	}
	return a, nil
}

func (a App) applyPagination(p grid.Pagination) (tea.Model, tea.Cmd) {
	if err := a.current().engine.SetPagination(p); err != nil {
		a.hub.Alerts.Error(err.Error())
		return a, nil
	}
	return a, a.queryChanged()
}

func (a App) stepPageSize(step int) (tea.Model, tea.Cmd) {
	gv := a.current()
	sizes := gv.engine.PageSizes()
	cur := gv.engine.Query().Pagination.PageSize
	i := slices.Index(sizes, cur) + step
	if i < 0 || i >= len(sizes) {
		return a, nil
	}
	return a.applyPagination(grid.Pagination{Page: 0, PageSize: sizes[i]})
}

func (a App) resetPage() (tea.Model, tea.Cmd) {
	p := a.current().engine.Query().Pagination
	p.Page = 0
	return a.applyPagination(p)
}

// queryChanged re-fetches the active grid and persists its view.
func (a *App) queryChanged() tea.Cmd {
	return tea.Batch(a.fetch(a.active), saveViewCmd(a.views, a.current()))
}

func (a App) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeBrowse
		a.filterIn.Blur()
		return a, nil
	case "enter":
		a.mode = modeBrowse
		a.filterIn.Blur()
		expr := strings.TrimSpace(a.filterIn.Value())
		if expr == "" {
			return a, nil
		}
		f, err := grid.ParseFilter(expr)
		if err != nil {
			a.hub.Alerts.Error(err.Error())
			return a, nil
		}
		gv := a.current()
		col, ok := gv.res.Columns.Lookup(f.Field)
		if !ok {
			a.hub.Alerts.Error("Unknown column " + f.Field + ".")
			return a, nil
		}
		if !grid.Allowed(col.Type, f.Operator) {
			a.hub.Alerts.Error("Operator " + string(f.Operator) + " does not apply to " + col.Label + ".")
			return a, nil
		}
		gv.engine.SetFilters(append(gv.engine.Query().Filters, f))
		return a.resetPage()
	}

	var cmd tea.Cmd
	a.filterIn, cmd = a.filterIn.Update(msg)
	return a, cmd
}

func (a App) openForm(rf *rowForm) (tea.Model, tea.Cmd) {
	a.mode = modeForm
	a.form = rf
	if a.width > 0 {
		a.form.form = a.form.form.WithWidth(min(a.width, 80))
	}
	return a, a.form.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form.form = f
	}

	switch a.form.form.State {
	case huh.StateCompleted:
		return a.closeForm(true)
	case huh.StateAborted:
		return a.closeForm(false)
	}
	return a, cmd
}

// closeForm leaves form mode. A submitted edit form saves its row; a
// submitted and confirmed delete form deletes it. Cancelling an add
// discards the transient row.
func (a App) closeForm(submitted bool) (tea.Model, tea.Cmd) {
	rf := a.form
	a.form = nil
	a.mode = modeBrowse
	gv := a.grids[rf.grid]

	if !submitted {
		if rf.kind == formEdit && rf.row.IsNew() {
			gv.engine.Discard()
			gv.sync()
		}
		return a, nil
	}

	switch rf.kind {
	case formDelete:
		if rf.confirmed() {
			return a, deleteCmd(a.ctx, rf.grid, gv.engine, rf.row.ID())
		}
		return a, nil
	default:
		return a, saveCmd(a.ctx, rf.grid, gv.engine, rf.result())
	}
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showHelp || a.mode != modeBrowse {
		return a, nil
	}
	gv := a.current()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		gv.table.MoveUp(1)
	case tea.MouseButtonWheelDown:
		gv.table.MoveDown(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.active)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
