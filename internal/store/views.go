// Package store persists grid views (page, sort and filters per resource)
// in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/budgie-app/budgie/internal/grid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// View is the saved query of one resource grid. Sort uses the ordering
// form ("field" or "-field") keyed by UI field; filters use the
// "field operator value" form.
type View struct {
	Resource  string
	Page      int
	PageSize  int
	Sort      string
	Filters   []string
	UpdatedAt time.Time
}

// Store provides SQLite-backed view persistence.
type Store struct {
	db *sql.DB
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgie")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budgie")
}

// DefaultPath returns the full path to the views database.
func DefaultPath() string {
	return filepath.Join(DataDir(), "views.db")
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening views db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveView inserts or replaces the view of v.Resource.
func (s *Store) SaveView(v View) error {
	if v.Resource == "" {
		return errors.New("store: view without resource")
	}
	filters := v.Filters
	if filters == nil {
		filters = []string{}
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO views
		(resource, page, page_size, ordering, filters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.Resource, v.Page, v.PageSize, v.Sort, string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving view %s: %w", v.Resource, err)
	}
	return nil
}

// LoadView returns the saved view of resource. ok is false when none exists.
func (s *Store) LoadView(resource string) (v View, ok bool, err error) {
	row := s.db.QueryRow(`SELECT resource, page, page_size, ordering, filters, updated_at
		FROM views WHERE resource = ?`, resource)
	v, err = scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return View{}, false, nil
	}
	if err != nil {
		return View{}, false, fmt.Errorf("loading view %s: %w", resource, err)
	}
	return v, true, nil
}

// ListViews returns all saved views ordered by resource.
func (s *Store) ListViews() ([]View, error) {
	rows, err := s.db.Query(`SELECT resource, page, page_size, ordering, filters, updated_at
		FROM views ORDER BY resource`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var views []View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// DeleteView removes the saved view of resource, if any.
func (s *Store) DeleteView(resource string) error {
	_, err := s.db.Exec("DELETE FROM views WHERE resource = ?", resource)
	return err
}

// Clear removes all saved views.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM views")
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(sc scanner) (View, error) {
	var (
		v       View
		filters string
		updated string
	)
	if err := sc.Scan(&v.Resource, &v.Page, &v.PageSize, &v.Sort, &filters, &updated); err != nil {
		return View{}, err
	}
	if err := json.Unmarshal([]byte(filters), &v.Filters); err != nil {
		return View{}, fmt.Errorf("decoding filters of %s: %w", v.Resource, err)
	}
	v.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return v, nil
}

// ViewFromQuery captures q as the view of resource.
func ViewFromQuery(resource string, q grid.Query) View {
	v := View{
		Resource: resource,
		Page:     q.Pagination.Page,
		PageSize: q.Pagination.PageSize,
		Filters:  make([]string, 0, len(q.Filters)),
	}
	if !q.Sort.IsZero() {
		v.Sort = q.Sort.Field
		if q.Sort.Direction == grid.Desc {
			v.Sort = "-" + v.Sort
		}
	}
	for _, f := range q.Filters {
		v.Filters = append(v.Filters, grid.FormatFilter(f))
	}
	return v
}

// Query converts the view back into a grid query. Filter expressions that
// no longer parse are skipped.
func (v View) Query() grid.Query {
	q := grid.Query{
		Pagination: grid.Pagination{Page: v.Page, PageSize: v.PageSize},
	}
	if items := grid.ParseSort(v.Sort); len(items) > 0 {
		q.Sort = grid.Sort{Field: items[0].Field, Direction: items[0].Direction}
	}
	for _, expr := range v.Filters {
		f, err := grid.ParseFilter(expr)
		if err != nil {
			continue
		}
		q.Filters = append(q.Filters, f)
	}
	return q
}
