package grid

import "testing"

func TestColumnsLabel(t *testing.T) {
	if got := testColumns.Label("name"); got != "Name" {
		t.Fatalf("Label(name) = %q, want Name", got)
	}
	if got := testColumns.Label("transfer_type"); got != "Type" {
		t.Fatalf("Label(server field) = %q, want Type", got)
	}
	if got := testColumns.Label("category_id"); got != "category_id" {
		t.Fatalf("Label(unknown) = %q, want raw key", got)
	}
}

func TestParseValue(t *testing.T) {
	name, _ := testColumns.Lookup("name")
	amount, _ := testColumns.Lookup("amount")
	kind, _ := testColumns.Lookup("kind")
	date, _ := testColumns.Lookup("date")
	active, _ := testColumns.Lookup("active")

	tests := []struct {
		col     Column
		raw     string
		want    any
		wantErr bool
	}{
		{name, "Groceries", "Groceries", false},
		{name, "", nil, true},
		{amount, "12.50", 12.5, false},
		{amount, "twelve", nil, true},
		{amount, "", nil, false},
		{kind, "income", "income", false},
		{kind, "gift", nil, true},
		{date, "2024-02-29", "2024-02-29", false},
		{date, "29/02/2024", nil, true},
		{active, "yes", true, false},
		{active, "false", false, false},
		{active, "maybe", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.col, tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseValue(%s, %q) err = %v, wantErr %v", tt.col.Field, tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseValue(%s, %q) = %#v, want %#v", tt.col.Field, tt.raw, got, tt.want)
		}
	}
}
