package grid

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseFilter reads a filter expression of the form "field operator value",
// e.g. "amount >= 100" or "type isAnyOf income,expense". The value may
// contain spaces.
func ParseFilter(expr string) (Filter, error) {
	field, rest := cutSpace(expr)
	name, value := cutSpace(rest)
	if field == "" || name == "" || value == "" {
		return Filter{}, fmt.Errorf("filter %q: want \"field operator value\"", expr)
	}
	op := Operator(name)
	if _, ok := lookupSuffix[op]; !ok {
		return Filter{}, fmt.Errorf("filter %q: unknown operator %q", expr, name)
	}

	f := Filter{Field: field, Operator: op, Value: value}
	if op == OpIsAnyOf {
		f.Value = strings.Split(value, ",")
	}
	return f, nil
}

// cutSpace splits s at its first whitespace run after trimming. The tail
// keeps its inner spacing.
func cutSpace(s string) (head, tail string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// ParseSort reads "field" or "-field" into a sort-click item list.
func ParseSort(s string) []SortItem {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "-") {
		return []SortItem{{Field: strings.TrimPrefix(s, "-"), Direction: Desc}}
	}
	return []SortItem{{Field: s, Direction: Asc}}
}

// FormatFilter renders a filter in the form ParseFilter accepts.
func FormatFilter(f Filter) string {
	var val string
	switch v := f.Value.(type) {
	case []string:
		val = strings.Join(v, ",")
	default:
		val = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s %s %s", f.Field, f.Operator, val)
}
