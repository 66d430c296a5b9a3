// Package resources declares the budgeting API resources and their grid
// columns.
package resources

import (
	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/notify"
)

// Resource is one list endpoint shown as a grid.
type Resource struct {
	Name        string // stable identifier, e.g. "transfers"
	Title       string
	Endpoint    string // path relative to the API base URL
	Key         rune   // TUI tab shortcut
	Columns     grid.Columns
	DefaultSort string // "field" or "-field"; empty for server order
}

var transferTypes = []grid.Option{
	{Value: "INCOME", Label: "Income"},
	{Value: "EXPENSE", Label: "Expense"},
}

var currencies = []grid.Option{
	{Value: "PLN", Label: "PLN"},
	{Value: "EUR", Label: "EUR"},
	{Value: "USD", Label: "USD"},
	{Value: "GBP", Label: "GBP"},
}

var priorities = []grid.Option{
	{Value: "MOST_IMPORTANT", Label: "Most important"},
	{Value: "DEBTS", Label: "Debts"},
	{Value: "SAVINGS", Label: "Savings"},
	{Value: "OTHERS", Label: "Others"},
}

// Budgets tracks planned spending against what was actually spent.
var Budgets = Resource{
	Name:     "budgets",
	Title:    "Budgets",
	Endpoint: "budgets",
	Key:      '1',
	Columns: grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Required: true, Editable: true, Width: 20},
		{Field: "currency", Label: "Currency", Type: grid.TypeSingleSelect, Options: currencies, Required: true, Editable: true, Width: 8},
		{Field: "amount", Label: "Planned", Type: grid.TypeNumber, Required: true, Editable: true, Width: 12},
		{Field: "spent", Label: "Spent", Type: grid.TypeNumber, Width: 12},
		{Field: "start_date", Label: "From", Type: grid.TypeDate, Required: true, Editable: true, Width: 10},
		{Field: "end_date", Label: "To", Type: grid.TypeDate, Required: true, Editable: true, Width: 10},
	},
	DefaultSort: "-start_date",
}

// Wallets group deposits of one currency.
var Wallets = Resource{
	Name:     "wallets",
	Title:    "Wallets",
	Endpoint: "wallets",
	Key:      '2',
	Columns: grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Required: true, Editable: true, Width: 20},
		{Field: "currency", Label: "Currency", Type: grid.TypeSingleSelect, Options: currencies, Required: true, Editable: true, Width: 8},
		{Field: "balance", Label: "Balance", Type: grid.TypeNumber, Width: 12},
		{Field: "is_active", Label: "Active", Type: grid.TypeBoolean, Editable: true, Width: 6},
	},
	DefaultSort: "name",
}

// Deposits are the accounts money moves through.
var Deposits = Resource{
	Name:     "deposits",
	Title:    "Deposits",
	Endpoint: "deposits",
	Key:      '3',
	Columns: grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Required: true, Editable: true, Width: 20},
		{Field: "walletName", ServerField: "wallet__name", Label: "Wallet", Type: grid.TypeText, Width: 16},
		{Field: "wallet", Label: "Wallet ID", Type: grid.TypeNumber, Required: true, Editable: true, Width: 9},
		{Field: "balance", Label: "Balance", Type: grid.TypeNumber, Width: 12},
		{Field: "is_active", Label: "Active", Type: grid.TypeBoolean, Editable: true, Width: 6},
	},
	DefaultSort: "name",
}

// Categories classify transfers.
var Categories = Resource{
	Name:     "categories",
	Title:    "Categories",
	Endpoint: "categories",
	Key:      '4',
	Columns: grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Required: true, Editable: true, Width: 20},
		{Field: "category_type", Label: "Type", Type: grid.TypeSingleSelect, Options: transferTypes, Required: true, Editable: true, Width: 8},
		{Field: "priority", Label: "Priority", Type: grid.TypeSingleSelect, Options: priorities, Editable: true, Width: 15},
		{Field: "description", Label: "Description", Type: grid.TypeText, Editable: true, Width: 24},
	},
	DefaultSort: "name",
}

// Transfers are individual incomes and expenses.
var Transfers = Resource{
	Name:     "transfers",
	Title:    "Transfers",
	Endpoint: "transfers",
	Key:      '5',
	Columns: grid.Columns{
		{Field: "name", Label: "Name", Type: grid.TypeText, Required: true, Editable: true, Width: 20},
		{Field: "transfer_type", Label: "Type", Type: grid.TypeSingleSelect, Options: transferTypes, Required: true, Editable: true, Width: 8},
		{Field: "value", Label: "Value", Type: grid.TypeNumber, Required: true, Editable: true, Width: 12},
		{Field: "date", Label: "Date", Type: grid.TypeDate, Required: true, Editable: true, Width: 10},
		{Field: "categoryName", ServerField: "category__name", Label: "Category", Type: grid.TypeText, Width: 16},
		{Field: "category", Label: "Category ID", Type: grid.TypeNumber, Editable: true, Width: 11},
		{Field: "description", Label: "Description", Type: grid.TypeText, Editable: true, Width: 24},
	},
	DefaultSort: "-date",
}

// Predictions are expected expenses per category and month.
var Predictions = Resource{
	Name:     "predictions",
	Title:    "Predictions",
	Endpoint: "expense-predictions",
	Key:      '6',
	Columns: grid.Columns{
		{Field: "categoryName", ServerField: "category__name", Label: "Category", Type: grid.TypeText, Width: 16},
		{Field: "category", Label: "Category ID", Type: grid.TypeNumber, Required: true, Editable: true, Width: 11},
		{Field: "period", Label: "Period", Type: grid.TypeDate, Required: true, Editable: true, Width: 10},
		{Field: "value", Label: "Value", Type: grid.TypeNumber, Required: true, Editable: true, Width: 12},
		{Field: "description", Label: "Description", Type: grid.TypeText, Editable: true, Width: 24},
	},
	DefaultSort: "-period",
}

// All lists resources in tab order.
var All = []Resource{Budgets, Wallets, Deposits, Categories, Transfers, Predictions}

// Lookup finds a resource by name.
func Lookup(name string) (Resource, bool) {
	for _, r := range All {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// Names returns all resource names in tab order.
func Names() []string {
	out := make([]string, len(All))
	for i, r := range All {
		out[i] = r.Name
	}
	return out
}

// NewEngine returns a grid engine for r with its default sort applied.
func (r Resource) NewEngine(client grid.Client, hub *notify.Hub, opts ...grid.EngineOption) *grid.Engine {
	e := grid.New(r.Name, r.Endpoint, r.Columns, client, hub, opts...)
	e.SetSortModel(grid.ParseSort(r.DefaultSort))
	return e
}
