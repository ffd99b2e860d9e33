package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/expensetracker/internal/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, Options) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, Options{HTTPClient: srv.Client(), Tokens: staticToken("tok-123"), Logger: zerolog.Nop()}
}

func TestLoginSuccess(t *testing.T) {
	var got map[string]string
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Users/login", r.URL.Path)
		require.Equal(t, "user-key", r.Header.Get(SubscriptionKeyHeader))
		require.Empty(t, r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get(RequestIDHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"token":"abc.def.ghi"}`)
	})
	users := NewUsers(Endpoint{BaseURL: srv.URL + "/", SubscriptionKey: "user-key"}, opts)

	tok, err := users.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)
	require.Equal(t, map[string]string{"username": "alice", "password": "pw"}, got)
}

func TestLoginFailureMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json message", http.StatusUnauthorized, `{"message":"Account locked"}`, "Account locked"},
		{"json without message", http.StatusUnauthorized, `{"error":true}`, GenericLoginFailure},
		{"empty body", http.StatusUnauthorized, ``, GenericLoginFailure},
		{"plain text", http.StatusBadRequest, `bad things happened`, "bad things happened"},
		{"ok without token", http.StatusOK, `{}`, GenericLoginFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			users := NewUsers(Endpoint{BaseURL: srv.URL}, opts)

			_, err := users.Login(context.Background(), "alice", "pw")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tc.want, apiErr.Message)
			require.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	users := NewUsers(Endpoint{BaseURL: url}, Options{Logger: zerolog.Nop(), HTTPClient: &http.Client{Timeout: time.Second}})
	_, err := users.Login(context.Background(), "alice", "pw")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "login", te.Op)
}

func TestAuthenticatedCallWithoutToken(t *testing.T) {
	called := false
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	opts.Tokens = staticToken("")
	txs := NewTransactions(Endpoint{BaseURL: srv.URL}, opts)

	_, err := txs.List(context.Background(), "u1", ListOptions{})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.False(t, called)
}

func TestListTransactions(t *testing.T) {
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Transactions/user/u1", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.Equal(t, "tx-key", r.Header.Get(SubscriptionKeyHeader))
		q := r.URL.Query()
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "50", q.Get("pageSize"))
		require.Equal(t, "date", q.Get("sortBy"))
		require.Equal(t, "desc", q.Get("sortOrder"))
		_, _ = io.WriteString(w, `{"transactions":[
			{"id":7,"transactionType":"Expense","amount":12.5,"date":"2024-03-05T00:00:00","category":"Food","description":"lunch"},
			{"id":8,"transactionType":"income","amount":"1000","date":"2024-03-01","category":"Salary","description":""}
		]}`)
	})
	txs := NewTransactions(Endpoint{BaseURL: srv.URL, SubscriptionKey: "tx-key"}, opts)

	rows, err := txs.List(context.Background(), "u1", ListOptions{Page: 2, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(7), rows[0].ID)
	require.Equal(t, "2024-03-05", rows[0].Date.String())
	require.True(t, decimal.RequireFromString("12.5").Equal(rows[0].Amount))
	require.True(t, rows[1].Type.IsIncome())
}

func TestListTransactionsMissingArray(t *testing.T) {
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	rows, err := NewTransactions(Endpoint{BaseURL: srv.URL}, opts).List(context.Background(), "u1", ListOptions{})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestAddAndDeleteTransaction(t *testing.T) {
	var added domain.NewTransaction
	var deletedPath string
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.Equal(t, "/Transactions/add", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&added))
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	})
	txs := NewTransactions(Endpoint{BaseURL: srv.URL}, opts)

	err := txs.Add(context.Background(), domain.NewTransaction{
		UserID:   "u1",
		Type:     domain.Expense,
		Amount:   decimal.NewFromInt(40),
		Date:     domain.NewDate(2024, time.March, 2),
		Category: "Food",
	})
	require.NoError(t, err)
	require.Equal(t, "u1", added.UserID)
	require.Equal(t, "2024-03-02", added.Date.String())

	require.NoError(t, txs.Delete(context.Background(), 42))
	require.Equal(t, "/Transactions/42", deletedPath)
}

func TestDeleteNotFound(t *testing.T) {
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Transaction not found"}`)
	})
	err := NewTransactions(Endpoint{BaseURL: srv.URL}, opts).Delete(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Transaction not found", apiErr.Message)
}

func TestReports(t *testing.T) {
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/Report/monthly-summary":
			require.Equal(t, "u1", q.Get("userId"))
			require.Equal(t, "2024", q.Get("year"))
			require.Equal(t, "3", q.Get("month"))
			_, _ = io.WriteString(w, `[{"transactionType":"Income","totalAmount":1000},{"transactionType":"Expense","totalAmount":250.75}]`)
		case "/Report/custom-date-range":
			require.Equal(t, "2024-01-01", q.Get("startDate"))
			require.Equal(t, "2024-01-31", q.Get("endDate"))
			_, _ = io.WriteString(w, `[{"id":1,"transactionType":"Expense","amount":5,"date":"2024-01-03","category":"Food"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	reports := NewReports(Endpoint{BaseURL: srv.URL}, opts)

	totals, err := reports.Monthly(context.Background(), "u1", 2024, time.March)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.True(t, decimal.RequireFromString("250.75").Equal(totals[1].TotalAmount))

	rows, err := reports.CustomRange(context.Background(), "u1", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Food", rows[0].Category)
}

func TestProfileAndPasswordCalls(t *testing.T) {
	var changed map[string]string
	srv, opts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/profile":
			require.Equal(t, "alice", r.URL.Query().Get("username"))
			_, _ = io.WriteString(w, `{"username":"alice","email":"a@example.com","dateOfBirth":"1990-04-01T00:00:00"}`)
		case "/Users/change-password":
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&changed))
		case "/Users/request-password-reset":
			require.Empty(t, r.Header.Get("Authorization"))
		}
	})
	users := NewUsers(Endpoint{BaseURL: srv.URL}, opts)

	p, err := users.Profile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "1990-04-01", p.BirthDate())

	require.NoError(t, users.ChangePassword(context.Background(), "alice", "new-pw"))
	require.Equal(t, "new-pw", changed["newPassword"])

	require.NoError(t, users.RequestPasswordReset(context.Background(), "alice", "a@example.com"))
}

func TestMessageFromBody(t *testing.T) {
	require.Equal(t, "Not Found", messageFromBody(404, nil, ""))
	require.Equal(t, "quoted", messageFromBody(400, []byte(`"quoted"`), ""))
	require.Equal(t, `{"x":1}`, messageFromBody(400, []byte(`{"x":1}`), ""))
	require.Equal(t, "Bad", messageFromBody(400, []byte(`{"title":"Bad"}`), ""))
}
