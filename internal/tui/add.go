package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/jask/expensetracker/internal/domain"
)

func newAddTransaction(e *env, parent *dashboardScreen) *formScreen {
	s := newForm(e, "Add transaction", "adding transaction", []formField{
		{key: "type", label: "Type", value: string(domain.Expense), placeholder: "Income or Expense"},
		{key: "amount", label: "Amount", placeholder: "0.00"},
		{key: "date", label: "Date", value: domain.Date{Time: time.Now()}.String(), placeholder: "YYYY-MM-DD"},
		{key: "category", label: "Category"},
		{key: "description", label: "Description"},
	})
	s.parent = parent
	s.back = func() (Screen, tea.Cmd) { return parent, nil }
	s.hint = func(vals map[string]string) string {
		typ, err := domain.ParseTransactionType(vals["type"])
		if err != nil {
			return "Type must be Income or Expense."
		}
		return "Categories: " + strings.Join(domain.CategoriesFor(typ), ", ")
	}
	s.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		tx, err := parseNewTransaction(vals)
		if err != nil {
			return nil, err
		}
		return e.deps.Ledger.Add(ctx, tx)
	}
	s.done = func(v any) (Screen, tea.Cmd) {
		parent.setTransactions(v.([]domain.Transaction))
		return parent, statusCmd("Transaction added.")
	}
	return s
}

func parseNewTransaction(vals map[string]string) (domain.NewTransaction, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(vals["amount"], ",", ""))
	if err != nil {
		return domain.NewTransaction{}, &domain.ValidationError{Field: "amount", Message: "Amount must be a number."}
	}
	if err := domain.ValidateDate("date", vals["date"]); err != nil {
		return domain.NewTransaction{}, err
	}
	date, _ := domain.ParseDate(vals["date"])
	return domain.NewTransaction{
		Type:        domain.TransactionType(vals["type"]),
		Amount:      amount,
		Date:        date,
		Category:    vals["category"],
		Description: vals["description"],
	}, nil
}
