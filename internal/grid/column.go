// Package grid implements the server-driven data grid: query state,
// translation to REST query parameters, and row reconciliation against a
// list endpoint.
package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ColumnType declares how a column is filtered, parsed and edited.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeNumber
	TypeSingleSelect
	TypeDate
	TypeBoolean
)

var columnTypeNames = map[ColumnType]string{
	TypeText:         "text",
	TypeNumber:       "number",
	TypeSingleSelect: "singleSelect",
	TypeDate:         "date",
	TypeBoolean:      "boolean",
}

func (t ColumnType) String() string {
	if s, ok := columnTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// DateLayout is the wire format of date columns.
const DateLayout = "2006-01-02"

// Option is one choice of a single-select column.
type Option struct {
	Value string
	Label string
}

// Column describes one grid column. It is plain data; all behavior lives in
// the functions that consume it.
type Column struct {
	Field       string // UI identifier, also the row key
	ServerField string // wire name for ordering and filters; empty means Field
	Label       string
	Type        ColumnType
	Options     []Option
	Required    bool
	Editable    bool
	Width       int
}

// Wire returns the server-side field name.
func (c Column) Wire() string {
	if c.ServerField != "" {
		return c.ServerField
	}
	return c.Field
}

// OptionLabel returns the label for an option value, or the value itself.
func (c Column) OptionLabel(value string) string {
	for _, o := range c.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Columns is an ordered set of column descriptors.
type Columns []Column

// Lookup finds a column by its UI field.
func (cs Columns) Lookup(field string) (Column, bool) {
	for _, c := range cs {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// lookupAny matches a UI field or a server field.
func (cs Columns) lookupAny(key string) (Column, bool) {
	if c, ok := cs.Lookup(key); ok {
		return c, true
	}
	for _, c := range cs {
		if c.ServerField == key {
			return c, true
		}
	}
	return Column{}, false
}

// Label returns the display label for a field key, falling back to the key.
// Server field names resolve too, since validation errors use them.
func (cs Columns) Label(key string) string {
	if c, ok := cs.lookupAny(key); ok && c.Label != "" {
		return c.Label
	}
	return key
}

// ServerField maps a UI field to its wire name (identity when unknown).
func (cs Columns) ServerField(field string) string {
	if c, ok := cs.Lookup(field); ok {
		return c.Wire()
	}
	return field
}

// Editable returns the columns shown in edit forms.
func (cs Columns) Editable() Columns {
	var out Columns
	for _, c := range cs {
		if c.Editable {
			out = append(out, c)
		}
	}
	return out
}

// ParseValue converts raw form input into the payload value for c.
// Empty input yields nil, or an error if the column is required.
func ParseValue(c Column, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if c.Required {
			return nil, fmt.Errorf("%s is required", c.displayName())
		}
		return nil, nil
	}

	switch c.Type {
	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", c.displayName())
		}
		return f, nil
	case TypeBoolean:
		b, err := parseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be yes or no", c.displayName())
		}
		return b, nil
	case TypeDate:
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", c.displayName())
		}
		return raw, nil
	case TypeSingleSelect:
		if len(c.Options) == 0 {
			return raw, nil
		}
		for _, o := range c.Options {
			if o.Value == raw {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%s must be one of the listed options", c.displayName())
	default:
		return raw, nil
	}
}

func (c Column) displayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Field
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
