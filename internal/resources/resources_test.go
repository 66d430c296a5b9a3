package resources

import (
	"testing"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/notify"
)

func TestResourcesAreWellFormed(t *testing.T) {
	names := map[string]bool{}
	keys := map[rune]bool{}
	for _, r := range All {
		if names[r.Name] {
			t.Fatalf("duplicate resource name %q", r.Name)
		}
		names[r.Name] = true
		if keys[r.Key] {
			t.Fatalf("duplicate key %q on %s", r.Key, r.Name)
		}
		keys[r.Key] = true
		if r.Endpoint == "" || r.Title == "" {
			t.Fatalf("%s: endpoint and title are required", r.Name)
		}

		fields := map[string]bool{}
		for _, c := range r.Columns {
			if fields[c.Field] {
				t.Fatalf("%s: duplicate column %q", r.Name, c.Field)
			}
			fields[c.Field] = true
			if c.Type == grid.TypeSingleSelect && len(c.Options) == 0 {
				t.Fatalf("%s.%s: select column without options", r.Name, c.Field)
			}
		}
		if sort := grid.ParseSort(r.DefaultSort); len(sort) > 0 {
			if _, ok := r.Columns.Lookup(sort[0].Field); !ok {
				t.Fatalf("%s: default sort on unknown column %q", r.Name, sort[0].Field)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("transfers")
	if !ok || r.Endpoint != "transfers" {
		t.Fatalf("Lookup(transfers) = %+v, %v", r, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup(nope) should fail")
	}
	if got := Names(); len(got) != len(All) || got[0] != "budgets" {
		t.Fatalf("Names() = %v", got)
	}
}

func TestNewEngineAppliesDefaultSort(t *testing.T) {
	hub := notify.NewHub()
	defer hub.Close()

	e := Transfers.NewEngine(nil, hub)
	s := e.Query().Sort
	if s.Field != "date" || s.Direction != grid.Desc {
		t.Fatalf("sort = %+v, want date desc", s)
	}

	e = Categories.NewEngine(nil, hub)
	if got := e.Name(); got != "categories" {
		t.Fatalf("Name() = %q, want categories", got)
	}
}
