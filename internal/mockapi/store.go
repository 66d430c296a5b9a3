package mockapi

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/resources"
)

// table is one in-memory resource collection.
type table struct {
	res    resources.Resource
	mu     sync.RWMutex
	rows   []model.Row
	nextID int64
}

func newTable(res resources.Resource) *table {
	return &table{res: res, nextID: 1}
}

// listQuery is a parsed list request.
type listQuery struct {
	page     int
	pageSize int
	ordering string
	filters  map[string]string
}

func (t *table) list(q listQuery) model.Page {
	t.mu.RLock()
	matched := make([]model.Row, 0, len(t.rows))
	for _, r := range t.rows {
		if t.matches(r, q.filters) {
			matched = append(matched, r.Clone())
		}
	}
	t.mu.RUnlock()

	if q.ordering != "" {
		t.order(matched, q.ordering)
	}

	count := len(matched)
	start := q.page * q.pageSize
	if start > count {
		start = count
	}
	end := start + q.pageSize
	if end > count {
		end = count
	}
	return model.Page{Results: matched[start:end], Count: count}
}

func (t *table) get(id string) (model.Row, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.rows {
		if r.ID() == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

func (t *table) insert(fields map[string]any) model.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	row := model.Row{}
	for k, v := range fields {
		row[k] = v
	}
	row[model.IDField] = json.Number(strconv.FormatInt(t.nextID, 10))
	t.nextID++
	t.rows = append(t.rows, row)
	return row.Clone()
}

func (t *table) patch(id string, fields map[string]any) (model.Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if r.ID() != id {
			continue
		}
		for k, v := range fields {
			if k == model.IDField {
				continue
			}
			r[k] = v
		}
		return r.Clone(), true
	}
	return nil, false
}

func (t *table) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if r.ID() == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// rowKey maps a wire field name to the key rows are stored under.
func (t *table) rowKey(wire string) string {
	for _, c := range t.res.Columns {
		if c.Wire() == wire {
			return c.Field
		}
	}
	return wire
}

func (t *table) matches(r model.Row, filters map[string]string) bool {
	for key, want := range filters {
		field, lookup := key, ""
		// wallet__name is a field, wallet__name__icontains a lookup on it.
		if j := strings.LastIndex(key, "__"); j >= 0 && isLookup(key[j+2:]) {
			field, lookup = key[:j], key[j+2:]
		}
		got := rawString(r, t.rowKey(field))
		if !compare(got, lookup, want) {
			return false
		}
	}
	return true
}

// rawString is Row.String with booleans in wire form.
func rawString(r model.Row, key string) string {
	if b, ok := r[key].(bool); ok {
		return strconv.FormatBool(b)
	}
	return r.String(key)
}

func isLookup(s string) bool {
	switch s {
	case "icontains", "istartswith", "iendswith", "ne", "gt", "gte", "lt", "lte", "in":
		return true
	}
	return false
}

func compare(got, lookup, want string) bool {
	lg, lw := strings.ToLower(got), strings.ToLower(want)
	switch lookup {
	case "":
		return lg == lw
	case "icontains":
		return strings.Contains(lg, lw)
	case "istartswith":
		return strings.HasPrefix(lg, lw)
	case "iendswith":
		return strings.HasSuffix(lg, lw)
	case "ne":
		return lg != lw
	case "in":
		for _, v := range strings.Split(want, ",") {
			if strings.EqualFold(got, strings.TrimSpace(v)) {
				return true
			}
		}
		return false
	}

	c := cmpValues(got, want)
	switch lookup {
	case "gt":
		return c > 0
	case "gte":
		return c >= 0
	case "lt":
		return c < 0
	case "lte":
		return c <= 0
	}
	return false
}

// cmpValues compares numerically when both sides parse, else as strings.
// Dates in YYYY-MM-DD order correctly as strings.
func cmpValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func (t *table) order(rows []model.Row, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	key := t.rowKey(strings.TrimPrefix(ordering, "-"))
	sort.SliceStable(rows, func(i, j int) bool {
		c := cmpValues(rows[i].String(key), rows[j].String(key))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// missingRequired returns a validation detail for required editable columns
// absent from fields. partial skips columns not present at all.
func missingRequired(cols grid.Columns, fields map[string]any, partial bool) map[string][]string {
	detail := map[string][]string{}
	for _, c := range cols {
		if !c.Required || !c.Editable {
			continue
		}
		v, present := fields[c.Field]
		if partial && !present {
			continue
		}
		if v == nil || strings.TrimSpace(model.Row(fields).String(c.Field)) == "" {
			detail[c.Field] = []string{"This field is required."}
		}
	}
	return detail
}
