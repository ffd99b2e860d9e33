package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jask/expensetracker/internal/domain"
)

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryTotals is sorted by Total descending.
type CategoryTotals []CategoryTotal

// Sum adds every entry.
func (c CategoryTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, ct := range c {
		sum = sum.Add(ct.Total)
	}
	return sum
}

// TopN returns at most the first n entries.
func (c CategoryTotals) TopN(n int) CategoryTotals {
	if n < 0 {
		n = 0
	}
	if n > len(c) {
		n = len(c)
	}
	return c[:n]
}

// AggregateByCategory splits txs into income and expense and sums each
// category. Ties keep first-encounter order.
func AggregateByCategory(txs []domain.Transaction) (income, expense CategoryTotals) {
	inc := newAccumulator()
	exp := newAccumulator()
	for _, tx := range txs {
		if tx.Type.IsIncome() {
			inc.add(tx.Category, tx.Amount)
		} else {
			exp.add(tx.Category, tx.Amount)
		}
	}
	return inc.sorted(), exp.sorted()
}

type accumulator struct {
	index  map[string]int
	totals CategoryTotals
}

func newAccumulator() *accumulator {
	return &accumulator{index: map[string]int{}}
}

func (a *accumulator) add(category string, amount decimal.Decimal) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.OtherCategory
	}
	i, ok := a.index[category]
	if !ok {
		i = len(a.totals)
		a.index[category] = i
		a.totals = append(a.totals, CategoryTotal{Category: category, Total: decimal.Zero})
	}
	a.totals[i].Total = a.totals[i].Total.Add(amount)
}

func (a *accumulator) sorted() CategoryTotals {
	out := make(CategoryTotals, len(a.totals))
	copy(out, a.totals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}

// MonthlySummary condenses the monthly report rows.
type MonthlySummary struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Difference decimal.Decimal
}

// SummarizeMonthly totals report rows by type; Difference is Income - Expense.
func SummarizeMonthly(rows []domain.MonthlyTotal) MonthlySummary {
	s := MonthlySummary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, r := range rows {
		if r.Type.IsIncome() {
			s.Income = s.Income.Add(r.TotalAmount)
		} else {
			s.Expense = s.Expense.Add(r.TotalAmount)
		}
	}
	s.Difference = s.Income.Sub(s.Expense)
	return s
}
