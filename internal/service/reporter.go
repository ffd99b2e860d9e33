package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/domain"
)

const defaultTopN = 3

// ReporterService runs the two report flavours.
type ReporterService struct {
	Reports ReportAPI
	Session Identity
	TopN    int
}

type MonthlyReport struct {
	Year    int
	Month   time.Month
	Rows    []domain.MonthlyTotal
	Summary aggregate.MonthlySummary
}

// CustomReport holds the top categories of each side plus the full totals.
type CustomReport struct {
	Start        domain.Date
	End          domain.Date
	Transactions []domain.Transaction
	Income       aggregate.CategoryTotals
	Expense      aggregate.CategoryTotals
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
}

func (s *ReporterService) topN() int {
	if s.TopN <= 0 {
		return defaultTopN
	}
	return s.TopN
}

func (s *ReporterService) Monthly(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	userID, err := requireUserID(s.Session)
	if err != nil {
		return MonthlyReport{}, err
	}
	if month < time.January || month > time.December {
		return MonthlyReport{}, &domain.ValidationError{Field: "month", Message: "Month must be between 1 and 12."}
	}
	if year < 1 || year > 9999 {
		return MonthlyReport{}, &domain.ValidationError{Field: "year", Message: "Year is out of range."}
	}
	rows, err := s.Reports.Monthly(ctx, userID, year, month)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{Year: year, Month: month, Rows: rows, Summary: aggregate.SummarizeMonthly(rows)}, nil
}

func (s *ReporterService) Custom(ctx context.Context, start, end domain.Date) (CustomReport, error) {
	userID, err := requireUserID(s.Session)
	if err != nil {
		return CustomReport{}, err
	}
	if start.IsZero() || end.IsZero() {
		return CustomReport{}, &domain.ValidationError{Field: "range", Message: "Start and end dates are required."}
	}
	if end.Before(start.Time) {
		return CustomReport{}, &domain.ValidationError{Field: "range", Message: "Start date must not be after end date."}
	}
	txs, err := s.Reports.CustomRange(ctx, userID, start, end)
	if err != nil {
		return CustomReport{}, err
	}
	income, expense := aggregate.AggregateByCategory(txs)
	return CustomReport{
		Start:        start,
		End:          end,
		Transactions: txs,
		Income:       income.TopN(s.topN()),
		Expense:      expense.TopN(s.topN()),
		IncomeTotal:  income.Sum(),
		ExpenseTotal: expense.Sum(),
	}, nil
}
