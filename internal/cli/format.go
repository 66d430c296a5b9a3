// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatAmount formats a money value with thousands separators and two
// decimals, e.g. 1234.5 -> "1,234.50".
func FormatAmount(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// FormatCount adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatAgo renders t relative to now, e.g. "3 minutes ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatPageInfo renders the pager footer, e.g. "page 2/5 · 43 rows".
func FormatPageInfo(page, pageCount, count int) string {
	return fmt.Sprintf("page %d/%d · %s rows", page+1, pageCount, FormatCount(count))
}

// FormatCell renders one row value for display according to its column.
func FormatCell(col grid.Column, row model.Row) string {
	if row.IsNew() && col.Field == model.IDField {
		return "new"
	}
	switch col.Type {
	case grid.TypeNumber:
		if v, ok := row.Float(col.Field); ok {
			return FormatAmount(v)
		}
	case grid.TypeBoolean:
		if b, ok := row[col.Field].(bool); ok {
			if b {
				return "✓"
			}
			return "·"
		}
	case grid.TypeSingleSelect:
		return col.OptionLabel(row.String(col.Field))
	}
	return row.String(col.Field)
}

// Truncate shortens s to width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.TrimSpace(s))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
