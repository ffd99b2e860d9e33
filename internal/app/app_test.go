package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/expensetracker/internal/config"
	"github.com/jask/expensetracker/internal/secrets"
	"github.com/jask/expensetracker/internal/session"
	"github.com/jask/expensetracker/internal/token"
)

func mintToken(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		token.ClaimNameIdentifier: "u1",
		token.ClaimName:           "alice",
		"exp":                     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func testConfig(t *testing.T, base string) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.API.User = config.ServiceConfig{BaseURL: base, SubscriptionKey: "uk"}
	cfg.API.Transaction = config.ServiceConfig{BaseURL: base, SubscriptionKey: "tk"}
	cfg.API.Report = config.ServiceConfig{BaseURL: base, SubscriptionKey: "tk"}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.FetchPageSize = 100
	cfg.Session.Backend = secrets.BackendKeyring
	cfg.Session.KeyringService = "ExpenseTrackerApp"
	cfg.Session.KeyringKey = "jwt_token"
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")
	cfg.UI.TopN = 3
	return cfg
}

func TestBuildLoginRefreshLogout(t *testing.T) {
	t.Parallel()
	tok := mintToken(t)
	var lists atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/login":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": tok})
		case "/Transactions/user/u1":
			lists.Add(1)
			if r.Header.Get("Authorization") != "Bearer "+tok || r.Header.Get("Ocp-Apim-Subscription-Key") != "tk" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"transactions":[{"id":1,"transactionType":"Expense","amount":3,"date":"2024-01-02","category":"Food"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	store := secrets.NewKeyringStoreFrom(keyring.NewArrayKeyring(nil), "jwt_token")
	a, err := Build(context.Background(), testConfig(t, srv.URL), zerolog.Nop(), Overrides{Secrets: store, HTTPClient: srv.Client()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.Equal(t, session.LoggedOut, a.Session.State())

	ctx := context.Background()
	require.NoError(t, a.Session.Login(ctx, "alice", "pw"))

	rows, err := a.Ledger.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1, lists.Load())

	cached, err := a.Ledger.Cached(ctx)
	require.NoError(t, err)
	require.Len(t, cached.Transactions, 1)

	require.NoError(t, a.Logout(ctx))
	require.False(t, a.Session.IsLoggedIn())
	_, err = store.Get()
	require.ErrorIs(t, err, secrets.ErrNotFound)
}

func TestBuildRestoresSession(t *testing.T) {
	t.Parallel()
	store := secrets.NewKeyringStoreFrom(keyring.NewArrayKeyring(nil), "jwt_token")
	require.NoError(t, store.Set(mintToken(t)))

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Cache.Enabled = false
	a, err := Build(context.Background(), cfg, zerolog.Nop(), Overrides{Secrets: store})
	require.NoError(t, err)
	require.True(t, a.Session.IsLoggedIn())
	require.Equal(t, "alice", a.Session.UserName())
	require.NoError(t, a.Close())
}
