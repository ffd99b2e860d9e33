package aggregate

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/expensetracker/internal/domain"
)

func tx(id int64, date string, typ domain.TransactionType, category string, amount int64) domain.Transaction {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{ID: id, Type: typ, Category: category, Amount: decimal.NewFromInt(amount), Date: d}
}

func sample() []domain.Transaction {
	return []domain.Transaction{
		tx(1, "2024-01-05", domain.Expense, "Food", 20),
		tx(2, "2024-01-20", domain.Income, "Salary", 1000),
		tx(3, "2024-02-01", domain.Expense, "Food", 15),
	}
}

func randomTransactions(r *rand.Rand, n int) []domain.Transaction {
	types := []domain.TransactionType{"Income", "income", "Expense", "EXPENSE", "other"}
	cats := []string{"Food", "Rent", "Salary", "", "Travel"}
	out := make([]domain.Transaction, n)
	for i := range out {
		date := time.Date(2022+r.Intn(3), time.Month(1+r.Intn(12)), 1+r.Intn(28), 0, 0, 0, 0, time.UTC)
		out[i] = domain.Transaction{
			ID:       int64(i + 1),
			Type:     types[r.Intn(len(types))],
			Category: cats[r.Intn(len(cats))],
			Amount:   decimal.NewFromInt(int64(r.Intn(500))),
			Date:     domain.Date{Time: date},
		}
	}
	return out
}

func TestGroupByMonthScenario(t *testing.T) {
	t.Parallel()
	groups := GroupByMonth(sample())

	require.Len(t, groups[AllKey], 3)
	require.Len(t, groups["January 2024"], 2)
	require.Len(t, groups["February 2024"], 1)
	require.Equal(t, []string{AllKey, "February 2024", "January 2024"}, groups.Keys())
}

func TestGroupByMonthProperties(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		txs := randomTransactions(r, r.Intn(40))
		groups := GroupByMonth(txs)

		require.Equal(t, txs, groups[AllKey])

		seen := map[int64]int{}
		for key, items := range groups {
			if key == AllKey {
				continue
			}
			for _, item := range items {
				require.Equal(t, MonthKey(item.Date), key)
				seen[item.ID]++
			}
		}
		for _, item := range txs {
			require.Equal(t, 1, seen[item.ID], "transaction %d", item.ID)
		}
	}
}

func TestKeysEmpty(t *testing.T) {
	t.Parallel()
	groups := GroupByMonth(nil)
	require.Equal(t, []string{AllKey}, groups.Keys())
	require.Empty(t, groups[AllKey])
}

func TestPaginateReconstructs(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(11))
	for round := 0; round < 50; round++ {
		txs := randomTransactions(r, r.Intn(60))
		size := 1 + r.Intn(12)
		var rebuilt []domain.Transaction
		for page := 1; ; page++ {
			chunk := Paginate(txs, page, size)
			if len(chunk) == 0 {
				break
			}
			require.LessOrEqual(t, len(chunk), size)
			rebuilt = append(rebuilt, chunk...)
		}
		require.Equal(t, len(txs), len(rebuilt))
		for i := range txs {
			require.Equal(t, txs[i].ID, rebuilt[i].ID)
		}
	}
}

func TestPaginateBounds(t *testing.T) {
	t.Parallel()
	txs := sample()
	require.Empty(t, Paginate(txs, 0, 2))
	require.Empty(t, Paginate(txs, 1, 0))
	require.Empty(t, Paginate(txs, 3, 2))
	require.Len(t, Paginate(txs, 2, 2), 1)
}

func TestPageHasNext(t *testing.T) {
	t.Parallel()
	txs := randomTransactions(rand.New(rand.NewSource(3)), 20)

	p := PageOf(txs, 1, 10)
	require.True(t, p.HasNext())
	require.False(t, p.HasPrev())
	require.Equal(t, 2, p.PageCount())

	// a full last page has no successor
	p = PageOf(txs, 2, 10)
	require.Len(t, p.Items, 10)
	require.False(t, p.HasNext())
	require.True(t, p.HasPrev())

	require.Equal(t, 1, PageOf(nil, 1, 10).PageCount())
}

func TestPaginateHugePage(t *testing.T) {
	t.Parallel()
	txs := randomTransactions(rand.New(rand.NewSource(4)), 5)

	for _, page := range []int{math.MaxInt/2 + 2, math.MaxInt, math.MaxInt / 3} {
		require.NotPanics(t, func() {
			require.Empty(t, Paginate(txs, page, 2))
		})
		var p Page
		require.NotPanics(t, func() { p = PageOf(txs, page, 2) })
		require.Empty(t, p.Items)
		require.False(t, p.HasNext())
		require.True(t, p.HasPrev())
	}
	require.Empty(t, Paginate(txs, 2, math.MaxInt))
	require.Len(t, Paginate(txs, 1, math.MaxInt), 5)
	require.Equal(t, 1, PageOf(txs, 1, math.MaxInt).PageCount())
}

func TestAggregateByCategoryScenario(t *testing.T) {
	t.Parallel()
	txs := []domain.Transaction{
		tx(1, "2024-01-05", domain.Expense, "Food", 20),
		tx(2, "2024-01-07", domain.Expense, "Food", 15),
	}
	income, expense := AggregateByCategory(txs)
	require.Empty(t, income)
	require.Len(t, expense, 1)
	require.Equal(t, "Food", expense[0].Category)
	require.True(t, decimal.NewFromInt(35).Equal(expense[0].Total))
}

func TestAggregateByCategorySums(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(5))
	for round := 0; round < 50; round++ {
		txs := randomTransactions(r, r.Intn(50))
		income, expense := AggregateByCategory(txs)

		wantIncome, wantExpense := decimal.Zero, decimal.Zero
		for _, item := range txs {
			if item.Type.IsIncome() {
				wantIncome = wantIncome.Add(item.Amount)
			} else {
				wantExpense = wantExpense.Add(item.Amount)
			}
		}
		require.True(t, wantIncome.Equal(income.Sum()), "income %s != %s", wantIncome, income.Sum())
		require.True(t, wantExpense.Equal(expense.Sum()), "expense %s != %s", wantExpense, expense.Sum())

		for _, totals := range []CategoryTotals{income, expense} {
			for i := 1; i < len(totals); i++ {
				require.False(t, totals[i].Total.GreaterThan(totals[i-1].Total))
			}
			for _, ct := range totals {
				require.NotEmpty(t, ct.Category)
			}
		}
	}
}

func TestEmptyCategoryBecomesOther(t *testing.T) {
	t.Parallel()
	_, expense := AggregateByCategory([]domain.Transaction{tx(1, "2024-01-01", domain.Expense, "  ", 9)})
	require.Equal(t, domain.OtherCategory, expense[0].Category)
}

func TestTopNTiesKeepOrder(t *testing.T) {
	t.Parallel()
	var txs []domain.Transaction
	for i, cat := range []string{"A", "B", "C", "D", "E"} {
		amount := int64(10)
		if cat == "D" {
			amount = 50
		}
		txs = append(txs, tx(int64(i), "2024-01-01", domain.Expense, cat, amount))
	}
	_, expense := AggregateByCategory(txs)
	top := expense.TopN(3)

	got := make([]string, len(top))
	for i, ct := range top {
		got[i] = ct.Category
	}
	require.Equal(t, []string{"D", "A", "B"}, got)
	require.Len(t, expense.TopN(10), 5)
	require.Empty(t, expense.TopN(-1))
}

func TestSummarizeMonthly(t *testing.T) {
	t.Parallel()
	s := SummarizeMonthly([]domain.MonthlyTotal{
		{Type: "Income", TotalAmount: decimal.NewFromInt(1000)},
		{Type: "expense", TotalAmount: decimal.RequireFromString("250.50")},
		{Type: "Expense", TotalAmount: decimal.RequireFromString("49.50")},
	})
	require.Equal(t, "1000", s.Income.String())
	require.Equal(t, "300", s.Expense.String())
	require.Equal(t, "700", s.Difference.String())
}

func ExampleMonthKey() {
	fmt.Println(MonthKey(domain.NewDate(2024, time.March, 9)))
	// Output: March 2024
}
