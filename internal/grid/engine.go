package grid

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/budgie-app/budgie/internal/api"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// User-visible alert messages.
const (
	MsgLoadFailed   = "Failed to load table rows."
	MsgSaveFailed   = "Failed to save row."
	MsgDeleteFailed = "Failed to delete row."
	MsgCreated      = "Row created."
	MsgUpdated      = "Row updated."
	MsgDeleted      = "Row deleted."
)

// bulkDeleteLimit caps concurrent requests of a bulk delete.
const bulkDeleteLimit = 4

// ErrSuperseded is returned by Fetch when WithLatestOnly is set and a newer
// fetch started before this one resolved. Its response is discarded.
var ErrSuperseded = errors.New("grid: fetch superseded by a newer request")

// Client is the transport the engine reads and writes rows through.
// *api.Client implements it.
type Client interface {
	List(ctx context.Context, endpoint string, params url.Values) (model.Page, error)
	Create(ctx context.Context, endpoint string, payload map[string]any) (model.Row, error)
	Update(ctx context.Context, endpoint, id string, payload map[string]any) (model.Row, error)
	Delete(ctx context.Context, endpoint, id string) error
}

// Engine binds one grid to one list endpoint. It owns the row collection and
// query state exclusively. All methods are safe for concurrent use.
//
// By default overlapping fetches are not cancelled and the last one to
// resolve overwrites the rows. WithLatestOnly switches to last-started-wins.
type Engine struct {
	name       string
	endpoint   string
	columns    Columns
	client     Client
	hub        *notify.Hub
	latestOnly bool
	pageSizes  []int

	mu      sync.Mutex
	state   *QueryState
	rows    []model.Row
	count   int
	loading bool
	seq     uint64
	cancel  context.CancelFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLatestOnly cancels an in-flight fetch when a newer one starts and
// discards stale responses.
func WithLatestOnly() EngineOption {
	return func(e *Engine) { e.latestOnly = true }
}

// WithPageSizes sets the allowed page sizes.
func WithPageSizes(sizes []int) EngineOption {
	return func(e *Engine) {
		if len(sizes) > 0 {
			e.pageSizes = sizes
		}
	}
}

// New creates an engine for the named resource at endpoint.
func New(name, endpoint string, columns Columns, client Client, hub *notify.Hub, opts ...EngineOption) *Engine {
	e := &Engine{
		name:     name,
		endpoint: endpoint,
		columns:  columns,
		client:   client,
		hub:      hub,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = NewQueryState(columns, e.pageSizes)
	return e
}

// Name returns the resource name; it is also the refresh event source.
func (e *Engine) Name() string { return e.name }

// Columns returns the column descriptors.
func (e *Engine) Columns() Columns { return e.columns }

// Rows returns a copy of the current row collection.
func (e *Engine) Rows() []model.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Row, len(e.rows))
	for i, r := range e.rows {
		out[i] = r.Clone()
	}
	return out
}

// Count returns the server-reported total row count.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Loading reports whether a fetch is in progress.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// PageCount returns the number of pages for the current count, at least 1.
func (e *Engine) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	size := e.state.Pagination().PageSize
	if size <= 0 || e.count == 0 {
		return 1
	}
	return (e.count + size - 1) / size
}

// Query returns a snapshot of the query state.
func (e *Engine) Query() Query {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot()
}

// PageSizes returns the allowed page sizes.
func (e *Engine) PageSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PageSizes()
}

// SetPagination replaces pagination wholesale.
func (e *Engine) SetPagination(p Pagination) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.SetPagination(p)
}

// SetSortModel applies a sort-click event.
func (e *Engine) SetSortModel(items []SortItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SetSortModel(items)
}

// SetFilters replaces filters wholesale.
func (e *Engine) SetFilters(filters []Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SetFilters(filters)
}

// Restore replaces the query state, e.g. from a saved view.
func (e *Engine) Restore(q Query) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Restore(q)
}

// Fetch loads the current page. On failure the previous rows are kept and
// an error alert is raised.
func (e *Engine) Fetch(ctx context.Context) error {
	e.mu.Lock()
	q := e.state.Snapshot()
	e.seq++
	seq := e.seq
	e.loading = true
	if e.latestOnly {
		if e.cancel != nil {
			e.cancel()
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		e.cancel = cancel
		defer cancel()
	}
	e.mu.Unlock()

	params := Params(q, e.columns)
	page, err := e.client.List(ctx, e.endpoint, params)

	e.mu.Lock()
	if e.latestOnly && seq != e.seq {
		e.mu.Unlock()
		log.Debug().Str("component", "grid").Str("grid", e.name).Uint64("seq", seq).Msg("discarding stale fetch")
		return ErrSuperseded
	}
	if e.latestOnly {
		e.cancel = nil
	}
	e.loading = false
	if err != nil {
		e.mu.Unlock()
		log.Warn().Str("component", "grid").Str("grid", e.name).Err(err).Msg("fetch failed")
		e.hub.Alerts.Error(MsgLoadFailed)
		return fmt.Errorf("fetching %s: %w", e.name, err)
	}
	e.rows = append([]model.Row(nil), page.Results...)
	e.count = page.Count
	e.mu.Unlock()

	log.Debug().Str("component", "grid").Str("grid", e.name).
		Str("query", params.Encode()).Int("rows", len(page.Results)).Int("count", page.Count).
		Msg("fetched rows")
	return nil
}

// AddRow appends a transient row after all persisted rows. A grid holds at
// most one transient row; if one exists it is returned unchanged.
func (e *Engine) AddRow(defaults model.Row) model.Row {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range e.rows {
		if r.IsNew() {
			return r.Clone()
		}
	}

	row := defaults.Clone()
	if row == nil {
		row = model.Row{}
	}
	row[model.IDField] = "new-" + uuid.NewString()
	row[model.NewField] = true
	e.rows = append(e.rows, row)
	return row.Clone()
}

// Transient returns the transient row, if any.
func (e *Engine) Transient() (model.Row, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rows {
		if r.IsNew() {
			return r.Clone(), true
		}
	}
	return nil, false
}

// Discard drops the transient row without any I/O.
func (e *Engine) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = removeRows(e.rows, func(r model.Row) bool { return r.IsNew() })
}

// Save creates transient rows and updates persisted ones.
func (e *Engine) Save(ctx context.Context, row model.Row) (model.Row, error) {
	if row.IsNew() {
		return e.Create(ctx, row)
	}
	return row, e.Update(ctx, row)
}

// Create sends row without its client-only fields. On success the transient
// row is replaced by the persisted row and a refresh is published.
func (e *Engine) Create(ctx context.Context, row model.Row) (model.Row, error) {
	created, err := e.client.Create(ctx, e.endpoint, row.Payload())
	if err != nil {
		log.Warn().Str("component", "grid").Str("grid", e.name).Err(err).Msg("create failed")
		e.hub.Alerts.Error(FormatSaveError(err, e.columns))
		return nil, fmt.Errorf("creating %s row: %w", e.name, err)
	}

	tempID := ""
	if row.IsNew() {
		tempID = row.ID()
	}
	newID := created.ID()

	e.mu.Lock()
	e.rows = removeRows(e.rows, func(r model.Row) bool {
		return (tempID != "" && r.IsNew() && r.ID() == tempID) || (newID != "" && !r.IsNew() && r.ID() == newID)
	})
	e.rows = insertPersisted(e.rows, created.Clone())
	e.mu.Unlock()

	e.hub.Alerts.Success(MsgCreated)
	e.hub.Refresh.Publish(e.name)
	return created, nil
}

// Update sends row keyed by its persisted id. The response is not merged
// locally; the refresh it publishes drives the next fetch.
func (e *Engine) Update(ctx context.Context, row model.Row) error {
	id := row.ID()
	if id == "" || row.IsNew() {
		return fmt.Errorf("updating %s row: row is not persisted", e.name)
	}
	if _, err := e.client.Update(ctx, e.endpoint, id, row.Payload()); err != nil {
		log.Warn().Str("component", "grid").Str("grid", e.name).Str("id", id).Err(err).Msg("update failed")
		e.hub.Alerts.Error(FormatSaveError(err, e.columns))
		return fmt.Errorf("updating %s row %s: %w", e.name, id, err)
	}

	e.hub.Alerts.Success(MsgUpdated)
	e.hub.Refresh.Publish(e.name)
	return nil
}

// Delete removes a row. Transient rows are dropped locally; persisted rows
// are removed locally as soon as the server confirms, before any refresh.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if e.dropTransient(id) {
		return nil
	}

	if err := e.client.Delete(ctx, e.endpoint, id); err != nil {
		log.Warn().Str("component", "grid").Str("grid", e.name).Str("id", id).Err(err).Msg("delete failed")
		e.hub.Alerts.Error(MsgDeleteFailed)
		return fmt.Errorf("deleting %s row %s: %w", e.name, id, err)
	}

	e.removeIDs([]string{id})
	e.hub.Alerts.Success(MsgDeleted)
	e.hub.Refresh.Publish(e.name)
	return nil
}

// BulkDelete deletes several rows as one logical operation. Rows whose
// delete succeeded are removed even when others fail.
func (e *Engine) BulkDelete(ctx context.Context, ids []string) error {
	var remote []string
	for _, id := range ids {
		if !e.dropTransient(id) {
			remote = append(remote, id)
		}
	}
	if len(remote) == 0 {
		return nil
	}

	var (
		mu     sync.Mutex
		done   []string
		failed []error
	)
	var g errgroup.Group
	g.SetLimit(bulkDeleteLimit)
	for _, id := range remote {
		g.Go(func() error {
			err := e.client.Delete(ctx, e.endpoint, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, fmt.Errorf("row %s: %w", id, err))
				return nil
			}
			done = append(done, id)
			return nil
		})
	}
	_ = g.Wait()

	e.removeIDs(done)

	if len(failed) > 0 {
		log.Warn().Str("component", "grid").Str("grid", e.name).
			Int("failed", len(failed)).Int("total", len(remote)).Msg("bulk delete incomplete")
		e.hub.Alerts.Error(fmt.Sprintf("Failed to delete %d of %d rows.", len(failed), len(remote)))
	} else {
		e.hub.Alerts.Success(fmt.Sprintf("Deleted %d rows.", len(done)))
	}
	if len(done) > 0 {
		e.hub.Refresh.Publish(e.name)
	}
	if len(failed) > 0 {
		return fmt.Errorf("bulk deleting %s rows: %w", e.name, errors.Join(failed...))
	}
	return nil
}

func (e *Engine) dropTransient(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.rows)
	e.rows = removeRows(e.rows, func(r model.Row) bool { return r.IsNew() && r.ID() == id })
	return len(e.rows) != n
}

func (e *Engine) removeIDs(ids []string) {
	if len(ids) == 0 {
		return
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = removeRows(e.rows, func(r model.Row) bool {
		if r.IsNew() {
			return false
		}
		_, ok := set[r.ID()]
		return ok
	})
}

// FormatSaveError renders a create/update failure. Validation errors give
// one line per field, labelled with the column label when known.
func FormatSaveError(err error, columns Columns) string {
	var ve *api.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) == 0 {
		return MsgSaveFailed
	}

	keys := make([]string, 0, len(ve.Fields))
	for k := range ve.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		label := k
		if k != "non_field_errors" {
			label = columns.Label(k)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, strings.Join(ve.Fields[k], " ")))
	}
	return strings.Join(lines, "\n")
}

func removeRows(rows []model.Row, drop func(model.Row) bool) []model.Row {
	out := rows[:0:0]
	for _, r := range rows {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}

// insertPersisted places row after the last persisted row, ahead of any
// transient row.
func insertPersisted(rows []model.Row, row model.Row) []model.Row {
	idx := len(rows)
	for i, r := range rows {
		if r.IsNew() {
			idx = i
			break
		}
	}
	out := make([]model.Row, 0, len(rows)+1)
	out = append(out, rows[:idx]...)
	out = append(out, row)
	out = append(out, rows[idx:]...)
	return out
}
