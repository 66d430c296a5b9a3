package grid

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// allowedOperators is the operator subset each column type accepts.
var allowedOperators = map[ColumnType][]Operator{
	TypeText:         {OpContains, OpEquals, OpStartsWith, OpEndsWith},
	TypeNumber:       {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte},
	TypeSingleSelect: {OpIs, OpNot, OpIsAnyOf},
	TypeDate:         {OpIs, OpAfter, OpOnOrAfter, OpBefore, OpOnOrBefore},
	TypeBoolean:      {OpIs},
}

// lookupSuffix is the filter lookup appended to the wire field.
var lookupSuffix = map[Operator]string{
	OpEquals:     "",
	OpEq:         "",
	OpIs:         "",
	OpContains:   "__icontains",
	OpStartsWith: "__istartswith",
	OpEndsWith:   "__iendswith",
	OpNe:         "__ne",
	OpNot:        "__ne",
	OpGt:         "__gt",
	OpAfter:      "__gt",
	OpGte:        "__gte",
	OpOnOrAfter:  "__gte",
	OpLt:         "__lt",
	OpBefore:     "__lt",
	OpLte:        "__lte",
	OpOnOrBefore: "__lte",
	OpIsAnyOf:    "__in",
}

// OperatorsFor returns the operators allowed for a column type.
func OperatorsFor(t ColumnType) []Operator {
	ops := allowedOperators[t]
	out := make([]Operator, len(ops))
	copy(out, ops)
	return out
}

// Allowed reports whether op may be used on a column of type t.
func Allowed(t ColumnType, op Operator) bool {
	for _, o := range allowedOperators[t] {
		if o == op {
			return true
		}
	}
	return false
}

// Translate maps filter terms to query parameters. Terms on unknown
// columns, with an operator outside the column type's set, or with an empty
// value are dropped. Later terms overwrite earlier ones on the same key.
func Translate(filters []Filter, columns Columns) map[string]string {
	out := make(map[string]string, len(filters))
	for _, f := range filters {
		col, ok := columns.Lookup(f.Field)
		if !ok || !Allowed(col.Type, f.Operator) {
			continue
		}
		val, ok := wireValue(col, f.Operator, f.Value)
		if !ok {
			continue
		}
		out[col.Wire()+lookupSuffix[f.Operator]] = val
	}
	return out
}

// Params builds the full query string for a snapshot: page, page_size,
// ordering (when sorted) and the translated filters.
func Params(q Query, columns Columns) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Pagination.Page))
	v.Set("page_size", strconv.Itoa(q.Pagination.PageSize))
	if !q.Sort.IsZero() && q.Sort.Wire != "" {
		v.Set("ordering", q.Sort.Wire)
	}
	for k, val := range Translate(q.Filters, columns) {
		v.Set(k, val)
	}
	return v
}

func wireValue(col Column, op Operator, value any) (string, bool) {
	if op == OpIsAnyOf {
		var items []string
		switch v := value.(type) {
		case []string:
			items = v
		case string:
			items = strings.Split(v, ",")
		default:
			return "", false
		}
		var kept []string
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				kept = append(kept, it)
			}
		}
		if len(kept) == 0 {
			return "", false
		}
		return strings.Join(kept, ","), true
	}

	var s string
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		s = strings.TrimSpace(v)
	case bool:
		s = strconv.FormatBool(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	default:
		s = strings.TrimSpace(fmt.Sprint(v))
	}
	if s == "" {
		return "", false
	}

	if col.Type == TypeBoolean {
		b, err := parseBool(s)
		if err != nil {
			return "", false
		}
		s = strconv.FormatBool(b)
	}
	return s, true
}
