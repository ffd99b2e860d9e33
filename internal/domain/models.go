package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType partitions transactions into income and expense.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// IsIncome compares case-insensitively; anything that is not "income" counts as expense.
func (t TransactionType) IsIncome() bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), string(Income))
}

// ParseTransactionType accepts "income"/"expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", &ValidationError{Field: "transactionType", Message: fmt.Sprintf("unknown transaction type %q", s)}
}

// DateLayout is the calendar date wire format.
const DateLayout = "2006-01-02"

// Date is a calendar date. The service sometimes sends a time part; only the
// YYYY-MM-DD prefix is kept.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD, ignoring any trailing time component.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && (s[len(DateLayout)] == 'T' || s[len(DateLayout)] == ' ') {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Transaction is a row owned by the transaction service.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	Type        TransactionType `json:"transactionType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

// NewTransaction is the add-transaction payload.
type NewTransaction struct {
	UserID      string          `json:"userId"`
	Type        TransactionType `json:"transactionType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// Profile is the user profile as served by the user service.
type Profile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

// BirthDate returns the date part of DateOfBirth.
func (p Profile) BirthDate() string {
	if len(p.DateOfBirth) > len(DateLayout) {
		return p.DateOfBirth[:len(DateLayout)]
	}
	return p.DateOfBirth
}

// Registration is the register payload. The service names the password
// field passwordHash but expects the plain password.
type Registration struct {
	Username    string `json:"username"`
	Password    string `json:"passwordHash"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

// MonthlyTotal is one row of the pre-aggregated monthly summary.
type MonthlyTotal struct {
	Type        TransactionType `json:"transactionType"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
