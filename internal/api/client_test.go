package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/budgie-app/budgie/internal/api"
	"github.com/budgie-app/budgie/internal/mockapi"
)

func newClient(t *testing.T, cfg mockapi.Config, token string) *api.Client {
	t.Helper()
	srv := httptest.NewServer(mockapi.New(cfg).Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/", token)
}

func TestListSendsParams(t *testing.T) {
	c := newClient(t, mockapi.Config{Seed: true}, "")

	params := url.Values{}
	params.Set("page", "0")
	params.Set("page_size", "2")
	params.Set("ordering", "name")
	params.Set("transfer_type", "EXPENSE")

	page, err := c.List(context.Background(), "transfers", params)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Count != 10 {
		t.Fatalf("count = %d, want 10", page.Count)
	}
	if len(page.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(page.Results))
	}
	if got := page.Results[0].String("name"); got != "Dinner" {
		t.Fatalf("first name = %q, want Dinner", got)
	}
	if _, ok := page.Results[0]["id"].(json.Number); !ok {
		t.Fatalf("id decoded as %T, want json.Number", page.Results[0]["id"])
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	c := newClient(t, mockapi.Config{}, "")
	ctx := context.Background()

	row, err := c.Create(ctx, "categories", map[string]any{"name": "Fuel", "category_type": "EXPENSE"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.ID() != "1" {
		t.Fatalf("id = %q, want 1", row.ID())
	}

	updated, err := c.Update(ctx, "categories", row.ID(), map[string]any{"id": row.ID(), "name": "Petrol"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := updated.String("name"); got != "Petrol" {
		t.Fatalf("name = %q, want Petrol", got)
	}

	if err := c.Delete(ctx, "categories", row.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "categories", row.ID()); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestValidationError(t *testing.T) {
	c := newClient(t, mockapi.Config{}, "")

	_, err := c.Create(context.Background(), "transfers", map[string]any{"name": "x"})
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v (%T), want *ValidationError", err, err)
	}
	if verr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", verr.Status)
	}
	got := verr.FieldNames()
	want := []string{"date", "transfer_type", "value"}
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fields = %v, want %v", got, want)
		}
	}
}

func TestUnauthorized(t *testing.T) {
	cfg := mockapi.Config{Token: "s3cret"}

	if _, err := newClient(t, cfg, "").List(context.Background(), "budgets", nil); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := newClient(t, cfg, "s3cret").List(context.Background(), "budgets", nil); err != nil {
		t.Fatalf("authorized List: %v", err)
	}
}

func TestStatusErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database is down"}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL, "").List(context.Background(), "budgets", nil)
	var serr *api.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v (%T), want *StatusError", err, err)
	}
	if serr.Status != 500 || serr.Detail != "database is down" {
		t.Fatalf("got %d %q, want 500 %q", serr.Status, serr.Detail, "database is down")
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, "", api.WithTimeout(50*time.Millisecond))
	if _, err := c.List(context.Background(), "budgets", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestBaseURLIsNormalized(t *testing.T) {
	tests := map[string]string{
		"http://127.0.0.1:8000/api/":   "http://127.0.0.1:8000/api",
		"  https://x.example/api//  ": "https://x.example/api",
		"http://127.0.0.1:8000/api":    "http://127.0.0.1:8000/api",
	}
	for in, want := range tests {
		if got := api.NewClient(in, "").BaseURL(); got != want {
			t.Fatalf("BaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
