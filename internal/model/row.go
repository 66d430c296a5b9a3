// Package model defines the records exchanged with the budgeting API.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// IDField is the persisted identifier key of every row.
	IDField = "id"
	// NewField flags a transient row that exists only on the client.
	NewField = "isNew"
)

// Row is a single record of a list endpoint. Values keep their JSON form
// (numbers decode as json.Number).
type Row map[string]any

// ID returns the row identifier as a string, or "" if the row has none.
func (r Row) ID() string {
	v, ok := r[IDField]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}

// IsNew reports whether the row is transient (not yet persisted).
func (r Row) IsNew() bool {
	b, _ := r[NewField].(bool)
	return b
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Payload returns the row without client-only fields. Transient rows also
// lose their temporary identifier.
func (r Row) Payload() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if k == NewField {
			continue
		}
		if k == IDField && r.IsNew() {
			continue
		}
		out[k] = v
	}
	return out
}

// String returns the display form of a field value.
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

// Float returns a numeric field value and whether it could be read.
func (r Row) Float(field string) (float64, bool) {
	switch val := r[field].(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}

// Page is the list endpoint response shape.
type Page struct {
	Results []Row `json:"results"`
	Count   int   `json:"count"`
}
