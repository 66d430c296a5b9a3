package tui

import (
	"context"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/notify"
	"github.com/budgie-app/budgie/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// FetchedMsg is sent when a grid fetch resolves.
type FetchedMsg struct {
	Grid int
	Err  error
}

// SavedMsg is sent when a create or update resolves.
type SavedMsg struct {
	Grid int
	Row  model.Row
	Err  error
}

// DeletedMsg is sent when a delete resolves.
type DeletedMsg struct {
	Grid int
	Err  error
}

// RefreshMsg carries one event of the refresh signal. Closed is set once
// the signal shuts down.
type RefreshMsg struct {
	Event  notify.RefreshEvent
	Closed bool
}

func fetchCmd(ctx context.Context, idx int, e *grid.Engine) tea.Cmd {
	return func() tea.Msg {
		return FetchedMsg{Grid: idx, Err: e.Fetch(ctx)}
	}
}

func saveCmd(ctx context.Context, idx int, e *grid.Engine, row model.Row) tea.Cmd {
	return func() tea.Msg {
		saved, err := e.Save(ctx, row)
		return SavedMsg{Grid: idx, Row: saved, Err: err}
	}
}

func deleteCmd(ctx context.Context, idx int, e *grid.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{Grid: idx, Err: e.Delete(ctx, id)}
	}
}

// waitForRefresh blocks until the next refresh event.
func waitForRefresh(ch <-chan notify.RefreshEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return RefreshMsg{Event: ev, Closed: !ok}
	}
}

// saveViewCmd persists the query of a grid. Failures are logged only.
func saveViewCmd(views *store.Store, gv *gridView) tea.Cmd {
	if views == nil {
		return nil
	}
	v := store.ViewFromQuery(gv.res.Name, gv.engine.Query())
	return func() tea.Msg {
		if err := views.SaveView(v); err != nil {
			log.Warn().Str("component", "tui").Str("resource", v.Resource).Err(err).Msg("saving view failed")
		}
		return nil
	}
}
