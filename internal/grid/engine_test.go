package grid

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/budgie-app/budgie/internal/api"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/notify"
)

type fakeClient struct {
	mu         sync.Mutex
	list       func(ctx context.Context, params url.Values) (model.Page, error)
	create     func(payload map[string]any) (model.Row, error)
	updateErr  error
	deleteErrs map[string]error
	payloads   []map[string]any
	updated    []string
	deleted    []string
	lastParams url.Values
}

func (f *fakeClient) List(ctx context.Context, _ string, params url.Values) (model.Page, error) {
	f.mu.Lock()
	f.lastParams = params
	fn := f.list
	f.mu.Unlock()
	return fn(ctx, params)
}

func (f *fakeClient) Create(_ context.Context, _ string, payload map[string]any) (model.Row, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	return f.create(payload)
}

func (f *fakeClient) Update(_ context.Context, _ string, id string, payload map[string]any) (model.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, id)
	return model.Row(payload), nil
}

func (f *fakeClient) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func staticPage(rows ...model.Row) func(context.Context, url.Values) (model.Page, error) {
	return func(context.Context, url.Values) (model.Page, error) {
		return model.Page{Results: rows, Count: len(rows)}, nil
	}
}

func newTestEngine(fc *fakeClient, opts ...EngineOption) (*Engine, *notify.Hub) {
	hub := notify.NewHub()
	return New("transfers", "transfers", testColumns, fc, hub, opts...), hub
}

func TestFetchScenario(t *testing.T) {
	fc := &fakeClient{list: staticPage(model.Row{"id": json.Number("1"), "name": "Salary"})}
	e, hub := newTestEngine(fc)

	if err := e.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID() != "1" {
		t.Fatalf("rows = %v, want one row with id 1", rows)
	}
	if e.Count() != 1 {
		t.Fatalf("Count = %d, want 1", e.Count())
	}
	if e.Loading() {
		t.Fatal("Loading = true after fetch")
	}
	if got := fc.lastParams.Encode(); got != "page=0&page_size=10" {
		t.Fatalf("params = %q, want page=0&page_size=10", got)
	}
	if _, ok := hub.Alerts.Current(); ok {
		t.Fatal("alert raised on successful fetch")
	}
}

func TestFetchFailureKeepsRows(t *testing.T) {
	fc := &fakeClient{list: staticPage(model.Row{"id": json.Number("1")}, model.Row{"id": json.Number("2")})}
	e, hub := newTestEngine(fc)
	if err := e.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}

	fc.list = func(context.Context, url.Values) (model.Page, error) {
		return model.Page{}, errors.New("connection refused")
	}
	if err := e.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch succeeded, want error")
	}

	if len(e.Rows()) != 2 || e.Count() != 2 {
		t.Fatalf("rows changed on failure: %d rows, count %d", len(e.Rows()), e.Count())
	}
	if e.Loading() {
		t.Fatal("Loading = true after failed fetch")
	}
	a, ok := hub.Alerts.Current()
	if !ok || a.Kind != notify.KindError || a.Message != MsgLoadFailed {
		t.Fatalf("alert = %+v, want error %q", a, MsgLoadFailed)
	}
}

func TestFetchRaceLastToResolveWins(t *testing.T) {
	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	fc := &fakeClient{list: func(_ context.Context, p url.Values) (model.Page, error) {
		if p.Get("page") == "0" {
			<-releaseA
			return model.Page{Results: []model.Row{{"id": "A"}}, Count: 1}, nil
		}
		<-releaseB
		return model.Page{Results: []model.Row{{"id": "B"}}, Count: 1}, nil
	}}
	e, _ := newTestEngine(fc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = e.Fetch(context.Background()) // A, page 0
	}()
	waitFor(t, func() bool { return e.Loading() })

	_ = e.SetPagination(Pagination{Page: 1, PageSize: 10})
	doneB := make(chan struct{})
	go func() {
		defer close(doneB)
		_ = e.Fetch(context.Background()) // B, page 1
	}()

	// B resolves first, then A.
	close(releaseB)
	<-doneB
	close(releaseA)
	wg.Wait()

	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID() != "A" {
		t.Fatalf("rows = %v, want A's response", rows)
	}
}

func TestFetchLatestOnlyDiscardsStale(t *testing.T) {
	releaseA := make(chan struct{})
	fc := &fakeClient{list: func(ctx context.Context, p url.Values) (model.Page, error) {
		if p.Get("page") == "0" {
			<-releaseA
			if ctx.Err() == nil {
				t.Error("stale fetch context not cancelled")
			}
			return model.Page{Results: []model.Row{{"id": "A"}}, Count: 1}, nil
		}
		return model.Page{Results: []model.Row{{"id": "B"}}, Count: 1}, nil
	}}
	e, _ := newTestEngine(fc, WithLatestOnly())

	errA := make(chan error, 1)
	go func() { errA <- e.Fetch(context.Background()) }()
	waitFor(t, func() bool { return e.Loading() })

	_ = e.SetPagination(Pagination{Page: 1, PageSize: 10})
	if err := e.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch B: %v", err)
	}
	close(releaseA)

	if err := <-errA; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("Fetch A err = %v, want ErrSuperseded", err)
	}
	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID() != "B" {
		t.Fatalf("rows = %v, want B's response", rows)
	}
}

func TestAddRowAtMostOneTransient(t *testing.T) {
	fc := &fakeClient{list: staticPage(model.Row{"id": json.Number("1")})}
	e, _ := newTestEngine(fc)
	_ = e.Fetch(context.Background())

	first := e.AddRow(model.Row{"name": "draft"})
	second := e.AddRow(nil)
	if first.ID() != second.ID() {
		t.Fatalf("second AddRow created another transient row: %s vs %s", first.ID(), second.ID())
	}
	if !strings.HasPrefix(first.ID(), "new-") || !first.IsNew() {
		t.Fatalf("transient row = %v", first)
	}
	rows := e.Rows()
	if len(rows) != 2 || !rows[1].IsNew() {
		t.Fatalf("rows = %v, want transient row last", rows)
	}

	e.Discard()
	if _, ok := e.Transient(); ok {
		t.Fatal("transient row survived Discard")
	}
}

func TestCreateReplacesTransientRow(t *testing.T) {
	fc := &fakeClient{
		list: staticPage(model.Row{"id": json.Number("1"), "name": "Rent"}),
		create: func(p map[string]any) (model.Row, error) {
			row := model.Row{"id": json.Number("42")}
			for k, v := range p {
				row[k] = v
			}
			return row, nil
		},
	}
	e, hub := newTestEngine(fc)
	_ = e.Fetch(context.Background())
	_, refresh := hub.Refresh.Subscribe(1)

	draft := e.AddRow(nil)
	draft["name"] = "Groceries"
	created, err := e.Save(context.Background(), draft)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.ID() != "42" {
		t.Fatalf("created id = %s, want 42", created.ID())
	}

	payload := fc.payloads[0]
	if _, ok := payload[model.IDField]; ok {
		t.Fatal("create payload carried the temporary id")
	}
	if _, ok := payload[model.NewField]; ok {
		t.Fatal("create payload carried the isNew flag")
	}

	rows := e.Rows()
	var withNewID int
	for _, r := range rows {
		if r.ID() == draft.ID() {
			t.Fatalf("transient row %s still present", draft.ID())
		}
		if r.ID() == "42" {
			withNewID++
			if r["name"] != "Groceries" {
				t.Fatalf("created row name = %v, want Groceries", r["name"])
			}
		}
	}
	if withNewID != 1 {
		t.Fatalf("rows with id 42 = %d, want 1", withNewID)
	}
	if rows[0].ID() != "1" || rows[1].ID() != "42" {
		t.Fatalf("row order = %s,%s, want 1,42", rows[0].ID(), rows[1].ID())
	}

	// A repeated identical success must not duplicate the row.
	if _, err := e.Create(context.Background(), created); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	withNewID = 0
	for _, r := range e.Rows() {
		if r.ID() == "42" {
			withNewID++
		}
	}
	if withNewID != 1 {
		t.Fatalf("rows with id 42 after repeat = %d, want 1", withNewID)
	}

	select {
	case ev := <-refresh:
		if ev.Source != "transfers" {
			t.Fatalf("refresh source = %q, want transfers", ev.Source)
		}
	default:
		t.Fatal("no refresh published after create")
	}
	if a, _ := hub.Alerts.Current(); a.Kind != notify.KindSuccess {
		t.Fatalf("alert kind = %v, want success", a.Kind)
	}
}

func TestCreateValidationError(t *testing.T) {
	fc := &fakeClient{
		list: staticPage(),
		create: func(map[string]any) (model.Row, error) {
			return nil, &api.ValidationError{Status: 400, Fields: map[string][]string{
				"name":        {"This field is required."},
				"category_id": {"Invalid pk."},
			}}
		},
	}
	e, hub := newTestEngine(fc)
	draft := e.AddRow(nil)

	if _, err := e.Save(context.Background(), draft); err == nil {
		t.Fatal("Save succeeded, want validation error")
	}

	a, ok := hub.Alerts.Current()
	if !ok || a.Kind != notify.KindError {
		t.Fatalf("alert = %+v, want error", a)
	}
	if !strings.Contains(a.Message, "Name: This field is required.") {
		t.Fatalf("alert %q missing labelled name message", a.Message)
	}
	if !strings.Contains(a.Message, "category_id: Invalid pk.") {
		t.Fatalf("alert %q missing raw-key message", a.Message)
	}
	if len(strings.Split(a.Message, "\n")) != 2 {
		t.Fatalf("alert %q, want one line per field", a.Message)
	}
	if _, ok := e.Transient(); !ok {
		t.Fatal("transient row dropped after failed create")
	}
}

func TestCreateGenericError(t *testing.T) {
	fc := &fakeClient{
		list: staticPage(),
		create: func(map[string]any) (model.Row, error) {
			return nil, &api.StatusError{Status: 500}
		},
	}
	e, hub := newTestEngine(fc)
	_, _ = e.Create(context.Background(), e.AddRow(nil))

	if a, _ := hub.Alerts.Current(); a.Message != MsgSaveFailed {
		t.Fatalf("alert = %q, want %q", a.Message, MsgSaveFailed)
	}
}

func TestUpdateDoesNotMergeLocally(t *testing.T) {
	fc := &fakeClient{list: staticPage(model.Row{"id": json.Number("5"), "name": "Old"})}
	e, hub := newTestEngine(fc)
	_ = e.Fetch(context.Background())
	_, refresh := hub.Refresh.Subscribe(1)

	edited := e.Rows()[0]
	edited["name"] = "New"
	if err := e.Update(context.Background(), edited); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(fc.updated) != 1 || fc.updated[0] != "5" {
		t.Fatalf("updated ids = %v, want [5]", fc.updated)
	}
	if fc.payloads[0][model.IDField] != json.Number("5") {
		t.Fatalf("update payload id = %v, want 5", fc.payloads[0][model.IDField])
	}
	if got := e.Rows()[0]["name"]; got != "Old" {
		t.Fatalf("local row name = %v, want Old until refresh", got)
	}
	select {
	case <-refresh:
	default:
		t.Fatal("no refresh published after update")
	}
}

func TestUpdateRejectsTransientRow(t *testing.T) {
	e, _ := newTestEngine(&fakeClient{list: staticPage()})
	if err := e.Update(context.Background(), e.AddRow(nil)); err == nil {
		t.Fatal("Update of transient row succeeded")
	}
}

func TestDeleteRemovesRowBeforeRefresh(t *testing.T) {
	fc := &fakeClient{list: staticPage(model.Row{"id": json.Number("1")}, model.Row{"id": json.Number("2")})}
	e, hub := newTestEngine(fc)
	_ = e.Fetch(context.Background())

	// The refresh fetch never resolves during the test.
	fc.list = func(ctx context.Context, _ url.Values) (model.Page, error) {
		<-ctx.Done()
		return model.Page{}, ctx.Err()
	}
	_, refresh := hub.Refresh.Subscribe(1)

	if err := e.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, r := range e.Rows() {
		if r.ID() == "1" {
			t.Fatal("deleted row still present")
		}
	}
	select {
	case <-refresh:
	default:
		t.Fatal("no refresh published after delete")
	}
}

func TestDeleteTransientRowIsLocal(t *testing.T) {
	fc := &fakeClient{list: staticPage()}
	e, _ := newTestEngine(fc)
	draft := e.AddRow(nil)

	if err := e.Delete(context.Background(), draft.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fc.deleted) != 0 {
		t.Fatalf("server delete issued for transient row: %v", fc.deleted)
	}
	if len(e.Rows()) != 0 {
		t.Fatal("transient row still present")
	}
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	fc := &fakeClient{
		list:       staticPage(model.Row{"id": json.Number("3")}),
		deleteErrs: map[string]error{"3": api.ErrNotFound},
	}
	e, hub := newTestEngine(fc)
	_ = e.Fetch(context.Background())

	if err := e.Delete(context.Background(), "3"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
	if len(e.Rows()) != 1 {
		t.Fatal("row removed despite failed delete")
	}
	if a, _ := hub.Alerts.Current(); a.Message != MsgDeleteFailed {
		t.Fatalf("alert = %q, want %q", a.Message, MsgDeleteFailed)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	fc := &fakeClient{
		list: staticPage(
			model.Row{"id": json.Number("1")},
			model.Row{"id": json.Number("2")},
			model.Row{"id": json.Number("3")},
		),
		deleteErrs: map[string]error{"2": &api.StatusError{Status: 500}},
	}
	e, hub := newTestEngine(fc)
	_ = e.Fetch(context.Background())

	err := e.BulkDelete(context.Background(), []string{"1", "2", "3"})
	if err == nil {
		t.Fatal("BulkDelete succeeded, want partial failure")
	}

	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID() != "2" {
		t.Fatalf("rows = %v, want only row 2", rows)
	}
	a, _ := hub.Alerts.Current()
	if a.Kind != notify.KindError || a.Message != "Failed to delete 1 of 3 rows." {
		t.Fatalf("alert = %+v", a)
	}
}

func TestPageCount(t *testing.T) {
	rows := make([]model.Row, 0)
	fc := &fakeClient{list: func(context.Context, url.Values) (model.Page, error) {
		return model.Page{Results: rows, Count: 23}, nil
	}}
	e, _ := newTestEngine(fc)
	if e.PageCount() != 1 {
		t.Fatalf("PageCount before fetch = %d, want 1", e.PageCount())
	}
	_ = e.Fetch(context.Background())
	if e.PageCount() != 3 {
		t.Fatalf("PageCount = %d, want 3", e.PageCount())
	}
}

func TestEngineOptionsAlongsideSelectOptions(t *testing.T) {
	fc := &fakeClient{list: staticPage()}
	opts := []EngineOption{WithPageSizes([]int{5, 15}), WithLatestOnly()}
	e, hub := newTestEngine(fc, opts...)
	defer hub.Close()

	if got := e.PageSizes(); len(got) != 2 || got[0] != 5 || got[1] != 15 {
		t.Fatalf("PageSizes = %v, want [5 15]", got)
	}
	if err := e.SetPagination(Pagination{Page: 0, PageSize: 10}); err == nil {
		t.Fatal("page size outside the configured sizes should be rejected")
	}

	col, ok := e.Columns().Lookup("kind")
	if !ok {
		t.Fatal("kind column missing")
	}
	var choices []Option = col.Options
	if len(choices) != 2 || choices[0].Label != "Income" {
		t.Fatalf("select options = %+v", choices)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
