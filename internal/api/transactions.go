package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jask/expensetracker/internal/domain"
)

// Transactions is the transaction service client.
type Transactions struct{ c *client }

func NewTransactions(ep Endpoint, opts Options) *Transactions {
	return &Transactions{c: newClient(ep, opts, "api.transactions")}
}

// ListOptions are passed through as query parameters.
type ListOptions struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	if o.SortBy == "" {
		o.SortBy = "date"
	}
	if o.SortOrder == "" {
		o.SortOrder = "desc"
	}
	q.Set("page", strconv.Itoa(o.Page))
	q.Set("pageSize", strconv.Itoa(o.PageSize))
	q.Set("sortBy", o.SortBy)
	q.Set("sortOrder", o.SortOrder)
	return q
}

type listResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func (t *Transactions) List(ctx context.Context, userID string, opts ListOptions) ([]domain.Transaction, error) {
	var resp listResponse
	err := t.c.doJSON(ctx, request{
		op:     "list transactions",
		method: http.MethodGet,
		path:   "/Transactions/user/" + url.PathEscape(userID),
		query:  opts.query(),
		auth:   true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		return []domain.Transaction{}, nil
	}
	return resp.Transactions, nil
}

func (t *Transactions) Add(ctx context.Context, tx domain.NewTransaction) error {
	_, _, err := t.c.do(ctx, request{op: "add transaction", method: http.MethodPost, path: "/Transactions/add", body: tx, auth: true})
	return err
}

func (t *Transactions) Delete(ctx context.Context, id int64) error {
	_, _, err := t.c.do(ctx, request{
		op:     "delete transaction",
		method: http.MethodDelete,
		path:   "/Transactions/" + strconv.FormatInt(id, 10),
		auth:   true,
	})
	return err
}
