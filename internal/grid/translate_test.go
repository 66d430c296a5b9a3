package grid

import (
	"reflect"
	"strconv"
	"testing"
)

func itoa(n int) string { return strconv.Itoa(n) }

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    map[string]string
	}{
		{
			name:    "text contains",
			filters: []Filter{{Field: "name", Operator: OpContains, Value: "food"}},
			want:    map[string]string{"name__icontains": "food"},
		},
		{
			name:    "text equals",
			filters: []Filter{{Field: "name", Operator: OpEquals, Value: "Rent"}},
			want:    map[string]string{"name": "Rent"},
		},
		{
			name: "number comparisons",
			filters: []Filter{
				{Field: "amount", Operator: OpGt, Value: "10"},
				{Field: "amount", Operator: OpLte, Value: 99.5},
			},
			want: map[string]string{"amount__gt": "10", "amount__lte": "99.5"},
		},
		{
			name:    "single select uses server field",
			filters: []Filter{{Field: "kind", Operator: OpIs, Value: "income"}},
			want:    map[string]string{"transfer_type": "income"},
		},
		{
			name:    "single select in set",
			filters: []Filter{{Field: "kind", Operator: OpIsAnyOf, Value: []string{"income", " expense", ""}}},
			want:    map[string]string{"transfer_type__in": "income,expense"},
		},
		{
			name:    "date range",
			filters: []Filter{{Field: "date", Operator: OpOnOrAfter, Value: "2024-01-01"}},
			want:    map[string]string{"date__gte": "2024-01-01"},
		},
		{
			name:    "boolean normalised",
			filters: []Filter{{Field: "active", Operator: OpIs, Value: "yes"}},
			want:    map[string]string{"active": "true"},
		},
		{
			name: "operator not allowed for type is dropped",
			filters: []Filter{
				{Field: "name", Operator: OpGt, Value: "a"},
				{Field: "amount", Operator: OpContains, Value: "1"},
				{Field: "active", Operator: OpNot, Value: "true"},
			},
			want: map[string]string{},
		},
		{
			name: "unknown column and empty value dropped",
			filters: []Filter{
				{Field: "ghost", Operator: OpEquals, Value: "x"},
				{Field: "name", Operator: OpContains, Value: "  "},
				{Field: "amount", Operator: OpEq, Value: nil},
			},
			want: map[string]string{},
		},
		{
			name: "last applied wins",
			filters: []Filter{
				{Field: "amount", Operator: OpGt, Value: "1"},
				{Field: "amount", Operator: OpGt, Value: "2"},
			},
			want: map[string]string{"amount__gt": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.filters, testColumns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Translate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslateIsPure(t *testing.T) {
	filters := []Filter{
		{Field: "name", Operator: OpContains, Value: "a"},
		{Field: "amount", Operator: OpGte, Value: "5"},
	}
	first := Translate(filters, testColumns)

	// Mutating unrelated state between calls must not change the output.
	q := NewQueryState(testColumns, nil)
	q.SetSortModel([]SortItem{{Field: "amount", Direction: Desc}})
	_ = q.SetPagination(Pagination{Page: 4, PageSize: 50})

	second := Translate(filters, testColumns)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Translate not deterministic: %v vs %v", first, second)
	}
}

func TestParamsOmitsAbsentParts(t *testing.T) {
	q := Query{Pagination: Pagination{Page: 0, PageSize: 10}}
	got := Params(q, testColumns)
	want := "page=0&page_size=10"
	if got.Encode() != want {
		t.Fatalf("Params = %q, want %q", got.Encode(), want)
	}
}

func TestOperatorsFor(t *testing.T) {
	ops := OperatorsFor(TypeBoolean)
	if len(ops) != 1 || ops[0] != OpIs {
		t.Fatalf("OperatorsFor(boolean) = %v, want [is]", ops)
	}
	ops[0] = OpGt
	if !Allowed(TypeBoolean, OpIs) {
		t.Fatal("OperatorsFor returned shared slice")
	}
}
