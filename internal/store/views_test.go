package store

import (
	"path/filepath"
	"testing"

	"github.com/budgie-app/budgie/internal/grid"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "views.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadView(t *testing.T) {
	s := openTemp(t)

	if _, ok, err := s.LoadView("transfers"); err != nil || ok {
		t.Fatalf("LoadView on empty db = ok %v, err %v; want false, nil", ok, err)
	}

	in := View{
		Resource: "transfers",
		Page:     2,
		PageSize: 25,
		Sort:     "-date",
		Filters:  []string{"name contains weekly shop", "kind isAnyOf INCOME,EXPENSE"},
	}
	if err := s.SaveView(in); err != nil {
		t.Fatalf("SaveView: %v", err)
	}

	got, ok, err := s.LoadView("transfers")
	if err != nil || !ok {
		t.Fatalf("LoadView = ok %v, err %v", ok, err)
	}
	if got.Page != 2 || got.PageSize != 25 || got.Sort != "-date" {
		t.Fatalf("got %+v", got)
	}
	if len(got.Filters) != 2 || got.Filters[0] != "name contains weekly shop" {
		t.Fatalf("filters = %q", got.Filters)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt not set")
	}

	in.Page = 0
	in.Filters = nil
	if err := s.SaveView(in); err != nil {
		t.Fatalf("SaveView replace: %v", err)
	}
	got, _, _ = s.LoadView("transfers")
	if got.Page != 0 || len(got.Filters) != 0 {
		t.Fatalf("replaced view = %+v", got)
	}
}

func TestListAndDeleteViews(t *testing.T) {
	s := openTemp(t)
	for _, r := range []string{"wallets", "budgets", "transfers"} {
		if err := s.SaveView(View{Resource: r, PageSize: 10}); err != nil {
			t.Fatalf("SaveView %s: %v", r, err)
		}
	}

	views, err := s.ListViews()
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	if len(views) != 3 || views[0].Resource != "budgets" || views[2].Resource != "wallets" {
		t.Fatalf("views = %+v", views)
	}

	if err := s.DeleteView("budgets"); err != nil {
		t.Fatalf("DeleteView: %v", err)
	}
	if _, ok, _ := s.LoadView("budgets"); ok {
		t.Fatal("budgets view still present after delete")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	views, _ = s.ListViews()
	if len(views) != 0 {
		t.Fatalf("views after Clear = %d, want 0", len(views))
	}
}

func TestSaveViewRequiresResource(t *testing.T) {
	s := openTemp(t)
	if err := s.SaveView(View{PageSize: 10}); err == nil {
		t.Fatal("expected error for view without resource")
	}
}

func TestViewQueryRoundTrip(t *testing.T) {
	q := grid.Query{
		Pagination: grid.Pagination{Page: 3, PageSize: 50},
		Sort:       grid.Sort{Field: "amount", Direction: grid.Desc, Wire: "-amount"},
		Filters: []grid.Filter{
			{Field: "name", Operator: grid.OpContains, Value: "rent"},
			{Field: "kind", Operator: grid.OpIsAnyOf, Value: []string{"INCOME", "EXPENSE"}},
		},
	}

	v := ViewFromQuery("transfers", q)
	if v.Sort != "-amount" {
		t.Fatalf("Sort = %q, want -amount", v.Sort)
	}

	back := v.Query()
	if back.Pagination != q.Pagination {
		t.Fatalf("pagination = %+v, want %+v", back.Pagination, q.Pagination)
	}
	if back.Sort.Field != "amount" || back.Sort.Direction != grid.Desc {
		t.Fatalf("sort = %+v", back.Sort)
	}
	if len(back.Filters) != 2 {
		t.Fatalf("filters = %+v", back.Filters)
	}
	vals, ok := back.Filters[1].Value.([]string)
	if !ok || len(vals) != 2 || vals[1] != "EXPENSE" {
		t.Fatalf("isAnyOf value = %#v", back.Filters[1].Value)
	}
}

func TestViewQuerySkipsBadFilters(t *testing.T) {
	v := View{Resource: "x", PageSize: 10, Filters: []string{"broken", "name bogus x", "name equals a"}}
	q := v.Query()
	if len(q.Filters) != 1 || q.Filters[0].Field != "name" {
		t.Fatalf("filters = %+v", q.Filters)
	}
	if !q.Sort.IsZero() {
		t.Fatalf("sort = %+v, want zero", q.Sort)
	}
}
