package mockapi

import (
	"encoding/json"

	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/resources"
)

// relation fills a read-only display field from a referenced row.
type relation struct {
	fk      string // foreign key field on the row
	target  string // endpoint of the referenced table
	display string // field the referenced name is copied into
}

var relations = map[string][]relation{
	resources.Deposits.Endpoint:    {{fk: "wallet", target: resources.Wallets.Endpoint, display: "walletName"}},
	resources.Transfers.Endpoint:   {{fk: "category", target: resources.Categories.Endpoint, display: "categoryName"}},
	resources.Predictions.Endpoint: {{fk: "category", target: resources.Categories.Endpoint, display: "categoryName"}},
}

// link resolves display fields of row and stores them.
func (s *Server) link(t *table, row model.Row) model.Row {
	derived := map[string]any{}
	for _, rel := range relations[t.res.Endpoint] {
		target, ok := s.tables[rel.target]
		if !ok {
			continue
		}
		ref, ok := target.get(row.String(rel.fk))
		if !ok {
			continue
		}
		derived[rel.display] = ref.String("name")
	}
	if len(derived) == 0 {
		return row
	}
	if linked, ok := t.patch(row.ID(), derived); ok {
		return linked
	}
	return row
}

func num(s string) json.Number { return json.Number(s) }

func (s *Server) seed() {
	wallets := []map[string]any{
		{"name": "Household", "currency": "PLN", "balance": num("8420.50"), "is_active": true},
		{"name": "Travel", "currency": "EUR", "balance": num("1210.00"), "is_active": true},
		{"name": "Old savings", "currency": "USD", "balance": num("0"), "is_active": false},
	}
	for _, w := range wallets {
		_, _ = s.Insert(resources.Wallets.Endpoint, w)
	}

	deposits := []map[string]any{
		{"name": "Main account", "wallet": num("1"), "balance": num("6120.50"), "is_active": true},
		{"name": "Cash", "wallet": num("1"), "balance": num("300.00"), "is_active": true},
		{"name": "Savings account", "wallet": num("1"), "balance": num("2000.00"), "is_active": true},
		{"name": "Revolut EUR", "wallet": num("2"), "balance": num("1210.00"), "is_active": true},
	}
	for _, d := range deposits {
		_, _ = s.Insert(resources.Deposits.Endpoint, d)
	}

	categories := []map[string]any{
		{"name": "Salary", "category_type": "INCOME", "priority": "OTHERS"},
		{"name": "Rent", "category_type": "EXPENSE", "priority": "MOST_IMPORTANT"},
		{"name": "Groceries", "category_type": "EXPENSE", "priority": "MOST_IMPORTANT"},
		{"name": "Loan", "category_type": "EXPENSE", "priority": "DEBTS"},
		{"name": "Emergency fund", "category_type": "EXPENSE", "priority": "SAVINGS"},
		{"name": "Restaurants", "category_type": "EXPENSE", "priority": "OTHERS", "description": "Eating out"},
	}
	for _, c := range categories {
		_, _ = s.Insert(resources.Categories.Endpoint, c)
	}

	budgets := []map[string]any{
		{"name": "January", "currency": "PLN", "amount": num("6000"), "spent": num("5480.20"), "start_date": "2026-01-01", "end_date": "2026-01-31"},
		{"name": "February", "currency": "PLN", "amount": num("6000"), "spent": num("6310.75"), "start_date": "2026-02-01", "end_date": "2026-02-28"},
		{"name": "March", "currency": "PLN", "amount": num("6500"), "spent": num("3120.00"), "start_date": "2026-03-01", "end_date": "2026-03-31"},
		{"name": "Trip to Lisbon", "currency": "EUR", "amount": num("1500"), "spent": num("1140.00"), "start_date": "2026-05-10", "end_date": "2026-05-20"},
	}
	for _, b := range budgets {
		_, _ = s.Insert(resources.Budgets.Endpoint, b)
	}

	transfers := []map[string]any{
		{"name": "January salary", "transfer_type": "INCOME", "value": num("9000"), "date": "2026-01-10", "category": num("1")},
		{"name": "Rent January", "transfer_type": "EXPENSE", "value": num("2800"), "date": "2026-01-05", "category": num("2")},
		{"name": "Weekly shopping", "transfer_type": "EXPENSE", "value": num("412.35"), "date": "2026-01-08", "category": num("3")},
		{"name": "Loan installment", "transfer_type": "EXPENSE", "value": num("950"), "date": "2026-01-15", "category": num("4")},
		{"name": "Dinner", "transfer_type": "EXPENSE", "value": num("186.40"), "date": "2026-01-17", "category": num("6"), "description": "Birthday"},
		{"name": "Weekly shopping", "transfer_type": "EXPENSE", "value": num("388.10"), "date": "2026-01-15", "category": num("3")},
		{"name": "Emergency fund", "transfer_type": "EXPENSE", "value": num("500"), "date": "2026-01-20", "category": num("5")},
		{"name": "February salary", "transfer_type": "INCOME", "value": num("9000"), "date": "2026-02-10", "category": num("1")},
		{"name": "Rent February", "transfer_type": "EXPENSE", "value": num("2800"), "date": "2026-02-05", "category": num("2")},
		{"name": "Weekly shopping", "transfer_type": "EXPENSE", "value": num("401.00"), "date": "2026-02-07", "category": num("3")},
		{"name": "Loan installment", "transfer_type": "EXPENSE", "value": num("950"), "date": "2026-02-15", "category": num("4")},
		{"name": "Sushi", "transfer_type": "EXPENSE", "value": num("142.00"), "date": "2026-02-21", "category": num("6")},
	}
	for _, tr := range transfers {
		_, _ = s.Insert(resources.Transfers.Endpoint, tr)
	}

	predictions := []map[string]any{
		{"category": num("2"), "period": "2026-03-01", "value": num("2800")},
		{"category": num("3"), "period": "2026-03-01", "value": num("1600"), "description": "Four weeks"},
		{"category": num("4"), "period": "2026-03-01", "value": num("950")},
		{"category": num("6"), "period": "2026-03-01", "value": num("400")},
	}
	for _, p := range predictions {
		_, _ = s.Insert(resources.Predictions.Endpoint, p)
	}
}
