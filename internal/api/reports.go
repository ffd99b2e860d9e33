package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jask/expensetracker/internal/domain"
)

// Reports is the report service client.
type Reports struct{ c *client }

func NewReports(ep Endpoint, opts Options) *Reports {
	return &Reports{c: newClient(ep, opts, "api.reports")}
}

// Monthly returns the service's per-type totals for one month.
func (r *Reports) Monthly(ctx context.Context, userID string, year int, month time.Month) ([]domain.MonthlyTotal, error) {
	var rows []domain.MonthlyTotal
	err := r.c.doJSON(ctx, request{
		op:     "monthly report",
		method: http.MethodGet,
		path:   "/Report/monthly-summary",
		query: url.Values{
			"userId": {userID},
			"year":   {strconv.Itoa(year)},
			"month":  {strconv.Itoa(int(month))},
		},
		auth: true,
	}, &rows)
	return rows, err
}

// CustomRange returns the raw transactions between start and end inclusive.
func (r *Reports) CustomRange(ctx context.Context, userID string, start, end domain.Date) ([]domain.Transaction, error) {
	var rows []domain.Transaction
	err := r.c.doJSON(ctx, request{
		op:     "custom report",
		method: http.MethodGet,
		path:   "/Report/custom-date-range",
		query: url.Values{
			"userId":    {userID},
			"startDate": {start.String()},
			"endDate":   {end.String()},
		},
		auth: true,
	}, &rows)
	return rows, err
}
