package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionDecode(t *testing.T) {
	t.Parallel()

	raw := `{"id":7,"transactionType":"Expense","amount":20.456,"date":"2024-01-05T00:00:00","category":"Food","description":"lunch","createdAt":"2024-01-05T12:01:02.123"}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	require.Equal(t, int64(7), tx.ID)
	require.Equal(t, Expense, tx.Type)
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("20.456")))
	require.Equal(t, "2024-01-05", tx.Date.String())
	require.Equal(t, time.January, tx.Date.Month())
	require.Equal(t, "2024-01-05T12:01:02.123", tx.CreatedAt)

	out, err := json.Marshal(NewTransaction{Type: Income, Amount: decimal.NewFromInt(5), Date: NewDate(2024, 2, 1), Category: "Salary"})
	require.NoError(t, err)
	require.Contains(t, string(out), `"date":"2024-02-01"`)
	require.Contains(t, string(out), `"transactionType":"Income"`)
}

func TestDateRejectsGarbage(t *testing.T) {
	t.Parallel()

	var d Date
	require.Error(t, json.Unmarshal([]byte(`"05/01/2024"`), &d))
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	require.True(t, d.IsZero())
}

func TestTransactionTypeIsIncome(t *testing.T) {
	t.Parallel()

	require.True(t, TransactionType("income").IsIncome())
	require.True(t, TransactionType(" INCOME ").IsIncome())
	require.False(t, TransactionType("Expense").IsIncome())
	require.False(t, TransactionType("refund").IsIncome())
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$1,235", FormatAmount("$", decimal.RequireFromString("1234.5")))
	require.Equal(t, "$0", FormatAmount("$", decimal.Zero))
	require.Equal(t, "$1,000,000", FormatAmount("$", decimal.NewFromInt(1000000)))
	require.Equal(t, "-$20", FormatSigned("$", Expense, decimal.NewFromInt(20)))
	require.Equal(t, "$20", FormatSigned("$", Income, decimal.NewFromInt(20)))
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	good := Registration{
		Username: "ann", Password: "pw", Email: "ann@example.com",
		FirstName: "Ann", LastName: "Lee", PhoneNumber: "0412345678", DateOfBirth: "1990-04-01",
	}
	require.NoError(t, ValidateRegistration(good))

	cases := map[string]func(r *Registration){
		"missing field": func(r *Registration) { r.LastName = " " },
		"bad email":     func(r *Registration) { r.Email = "ann.example.com" },
		"short phone":   func(r *Registration) { r.PhoneNumber = "041234567" },
		"letters phone": func(r *Registration) { r.PhoneNumber = "04123x5678" },
		"bad dob":       func(r *Registration) { r.DateOfBirth = "01/04/1990" },
		"impossible":    func(r *Registration) { r.DateOfBirth = "1990-02-30" },
	}
	for name, mutate := range cases {
		r := good
		mutate(&r)
		err := ValidateRegistration(r)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), name)
	}
}

func TestValidateNewTransaction(t *testing.T) {
	t.Parallel()

	tx := NewTransaction{Type: "expense", Amount: decimal.NewFromInt(12), Date: NewDate(2024, 3, 3), Category: "food"}
	require.NoError(t, ValidateNewTransaction(&tx))
	require.Equal(t, Expense, tx.Type)
	require.Equal(t, "Food", tx.Category)

	tx = NewTransaction{Type: Expense, Amount: decimal.NewFromInt(12), Date: NewDate(2024, 3, 3), Category: "Transportaton"}
	err := ValidateNewTransaction(&tx)
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "Transportation"`)

	tx = NewTransaction{Type: Income, Amount: decimal.NewFromInt(12), Date: NewDate(2024, 3, 3), Category: "Food"}
	require.Error(t, ValidateNewTransaction(&tx))

	tx = NewTransaction{Type: Income, Amount: decimal.Zero, Date: NewDate(2024, 3, 3), Category: "Salary"}
	require.Error(t, ValidateNewTransaction(&tx))

	tx = NewTransaction{Type: "gift", Amount: decimal.NewFromInt(1), Date: NewDate(2024, 3, 3), Category: "Salary"}
	require.Error(t, ValidateNewTransaction(&tx))
}

func TestSuggestCategory(t *testing.T) {
	t.Parallel()

	s, ok := SuggestCategory(Income, "salery")
	require.True(t, ok)
	require.Equal(t, "Salary", s)

	_, ok = SuggestCategory(Expense, "zzzzzzzzzzzz")
	require.False(t, ok)
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateCredentials("", "pw"))
	require.Error(t, ValidateCredentials("ann", "  "))
	require.NoError(t, ValidateCredentials("ann", "pw"))
	require.Error(t, ValidatePasswordChange("a", "b"))
	require.NoError(t, ValidatePasswordChange("a", "a"))
	require.Error(t, ValidatePasswordReset("ann", "nope"))
}
