package grid

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultPageSizes are the page sizes a grid offers unless configured.
var DefaultPageSizes = []int{10, 25, 50, 100}

// ErrInvalidPagination is returned for a negative page or an unlisted size.
var ErrInvalidPagination = errors.New("grid: invalid pagination")

// Pagination is the zero-based page and its size.
type Pagination struct {
	Page     int
	PageSize int
}

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortItem is one entry of a sort-click event, keyed by UI column field.
type SortItem struct {
	Field     string
	Direction Direction
}

// Sort is the active ordering. The zero value means no ordering.
type Sort struct {
	Field     string // UI column field
	Direction Direction
	Wire      string // "field" or "-field" as sent in the ordering parameter
}

// IsZero reports whether no ordering is active.
func (s Sort) IsZero() bool { return s.Field == "" }

// Operator is a filter comparison.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpEq         Operator = "="
	OpNe         Operator = "!="
	OpGt         Operator = ">"
	OpGte        Operator = ">="
	OpLt         Operator = "<"
	OpLte        Operator = "<="
	OpIs         Operator = "is"
	OpNot        Operator = "not"
	OpIsAnyOf    Operator = "isAnyOf"
	OpAfter      Operator = "after"
	OpOnOrAfter  Operator = "onOrAfter"
	OpBefore     Operator = "before"
	OpOnOrBefore Operator = "onOrBefore"
)

// Filter is one filter term. Value holds a string, or a []string for isAnyOf.
type Filter struct {
	Field    string
	Operator Operator
	Value    any
}

// Query is an immutable snapshot of the grid query state.
type Query struct {
	Pagination Pagination
	Sort       Sort
	Filters    []Filter
}

// QueryState holds pagination, sort and filter state. Its setters are pure
// state transitions and perform no I/O.
type QueryState struct {
	columns    Columns
	pageSizes  []int
	pagination Pagination
	sort       Sort
	filters    []Filter
}

// NewQueryState returns state on page 0 with the first allowed page size.
// An empty pageSizes uses DefaultPageSizes.
func NewQueryState(columns Columns, pageSizes []int) *QueryState {
	if len(pageSizes) == 0 {
		pageSizes = DefaultPageSizes
	}
	return &QueryState{
		columns:    columns,
		pageSizes:  slices.Clone(pageSizes),
		pagination: Pagination{Page: 0, PageSize: pageSizes[0]},
	}
}

// PageSizes returns the allowed page sizes.
func (q *QueryState) PageSizes() []int { return slices.Clone(q.pageSizes) }

// Pagination returns the current pagination.
func (q *QueryState) Pagination() Pagination { return q.pagination }

// Sort returns the current sort.
func (q *QueryState) Sort() Sort { return q.sort }

// Filters returns a copy of the current filters.
func (q *QueryState) Filters() []Filter { return slices.Clone(q.filters) }

// Snapshot returns a copy of the whole state.
func (q *QueryState) Snapshot() Query {
	return Query{
		Pagination: q.pagination,
		Sort:       q.sort,
		Filters:    q.Filters(),
	}
}

// SetPagination replaces pagination wholesale.
func (q *QueryState) SetPagination(p Pagination) error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page %d", ErrInvalidPagination, p.Page)
	}
	if !slices.Contains(q.pageSizes, p.PageSize) {
		return fmt.Errorf("%w: page size %d not in %v", ErrInvalidPagination, p.PageSize, q.pageSizes)
	}
	q.pagination = p
	return nil
}

// SetSortModel applies a sort-click event. No items clears the sort; with
// one or more, the first item wins and its wire name comes from the column
// field mapping, prefixed with "-" when descending.
func (q *QueryState) SetSortModel(items []SortItem) {
	if len(items) == 0 {
		q.sort = Sort{}
		return
	}
	it := items[0]
	wire := q.columns.ServerField(it.Field)
	if it.Direction == Desc {
		wire = "-" + wire
	}
	q.sort = Sort{Field: it.Field, Direction: it.Direction, Wire: wire}
}

// SetFilters replaces filters wholesale.
func (q *QueryState) SetFilters(filters []Filter) {
	q.filters = slices.Clone(filters)
}

// Restore replaces the whole state, validating pagination. Sort is re-derived
// from its field and direction so stale wire names are never restored.
func (q *QueryState) Restore(s Query) error {
	if err := q.SetPagination(s.Pagination); err != nil {
		return err
	}
	if s.Sort.IsZero() {
		q.SetSortModel(nil)
	} else {
		q.SetSortModel([]SortItem{{Field: s.Sort.Field, Direction: s.Sort.Direction}})
	}
	q.SetFilters(s.Filters)
	return nil
}
