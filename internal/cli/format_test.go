package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-950, "-950.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Fatalf("FormatCount = %q, want 1,234,567", got)
	}
	if got := FormatCount(12); got != "12" {
		t.Fatalf("FormatCount = %q, want 12", got)
	}
}

func TestFormatPageInfo(t *testing.T) {
	if got := FormatPageInfo(1, 5, 43); got != "page 2/5 · 43 rows" {
		t.Fatalf("FormatPageInfo = %q", got)
	}
}

func TestFormatCell(t *testing.T) {
	kind := grid.Column{Field: "kind", Type: grid.TypeSingleSelect, Options: []grid.Option{{Value: "INCOME", Label: "Income"}}}
	amount := grid.Column{Field: "amount", Type: grid.TypeNumber}
	active := grid.Column{Field: "active", Type: grid.TypeBoolean}
	name := grid.Column{Field: "name", Type: grid.TypeText}

	row := model.Row{
		"kind":   "INCOME",
		"amount": json.Number("2800.5"),
		"active": false,
		"name":   "Rent",
	}

	tests := []struct {
		col  grid.Column
		want string
	}{
		{kind, "Income"},
		{amount, "2,800.50"},
		{active, "·"},
		{name, "Rent"},
		{grid.Column{Field: "missing", Type: grid.TypeNumber}, ""},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.col, row); got != tt.want {
			t.Errorf("FormatCell(%s) = %q, want %q", tt.col.Field, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Weekly shopping", 6); got != "Weekl…" {
		t.Fatalf("Truncate = %q, want Weekl…", got)
	}
	if got := Truncate("Rent", 6); got != "Rent" {
		t.Fatalf("Truncate = %q, want Rent", got)
	}
	if got := Truncate("Rent", 0); got != "" {
		t.Fatalf("Truncate width 0 = %q", got)
	}
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Value"},
		Rows:       [][]string{{"Rent", "2,800.00"}, {"Sushi", "142.00"}},
		RightAlign: []bool{false, true},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6:\n%s", len(lines), out)
	}
	for _, l := range lines[1:] {
		if lipgloss.Width(l) != lipgloss.Width(lines[0]) {
			t.Fatalf("ragged table:\n%s", out)
		}
	}
	if !strings.Contains(lines[4], "   142.00 ") {
		t.Fatalf("value not right-aligned: %q", lines[4])
	}
}

func TestResourceTable(t *testing.T) {
	cols := grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Width: 4},
		{Field: "value", Label: "Value", Type: grid.TypeNumber},
	}
	rows := []model.Row{{"id": json.Number("7"), "name": "Groceries", "value": 12.0}}

	tbl := ResourceTable("Transfers", cols, rows)
	if len(tbl.Headers) != 3 || tbl.Headers[0] != "ID" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	want := []string{"7", "Gro…", "12.00"}
	for i, w := range want {
		if tbl.Rows[0][i] != w {
			t.Fatalf("row = %v, want %v", tbl.Rows[0], want)
		}
	}
	if tbl.RightAlign[1] || !tbl.RightAlign[2] {
		t.Fatalf("RightAlign = %v", tbl.RightAlign)
	}
}

func TestColorForLevel(t *testing.T) {
	if ColorForLevel(model.BudgetOver) != ColorRed {
		t.Fatal("over budget should be red")
	}
	if ColorForLevel(model.BudgetOK) != ColorGreen {
		t.Fatal("ok budget should be green")
	}
}
