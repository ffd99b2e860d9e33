package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EXPENSETRACKER_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ExpenseTrackerApp", cfg.Session.KeyringService)
	require.Equal(t, "jwt_token", cfg.Session.KeyringKey)
	require.False(t, cfg.Session.ClearOnLoad)
	require.Equal(t, time.Minute, cfg.Session.WatchInterval)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.Equal(t, 10, cfg.UI.PageSize)
	require.Equal(t, 3, cfg.UI.TopN)
	require.Equal(t, filepath.Join(home, ".local", "share", "expensetracker", "cache.db"), cfg.Cache.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
timeout = "3s"

[api.transaction]
base_url = "https://tx.example.test/api"
subscription_key = "tx-key"

[session]
clear_on_load = true
`), 0o600))
	t.Setenv("EXPENSETRACKER_CONFIG", path)
	t.Setenv("EXPENSETRACKER_UI_TOP_N", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, "https://tx.example.test/api", cfg.API.Transaction.BaseURL)
	require.Equal(t, "tx-key", cfg.API.Report.SubscriptionKey, "report key falls back to the transaction key")
	require.True(t, cfg.Session.ClearOnLoad)
	require.Equal(t, 5, cfg.UI.TopN)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)
	t.Setenv("EXPENSETRACKER_CONFIG", filepath.Join(home, "nope.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.API.User.BaseURL = "not a url"
	cfg.Session.Backend = "vault"
	cfg.UI.PageSize = 0
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "api.user.base_url")
	require.Contains(t, err.Error(), "session.backend")
	require.Contains(t, err.Error(), "ui.page_size")
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "saved", "config.toml")
	t.Setenv("EXPENSETRACKER_CONFIG", path)

	cfg := Config{
		API: APIConfig{
			User:          ServiceConfig{BaseURL: "https://u.example.test/api", SubscriptionKey: "secret"},
			Transaction:   ServiceConfig{BaseURL: "https://t.example.test/api"},
			Report:        ServiceConfig{BaseURL: "https://r.example.test/api"},
			Timeout:       9 * time.Second,
			FetchPageSize: 250,
		},
		Session: SessionConfig{Backend: "file", KeyringService: "svc", KeyringKey: "key", WatchInterval: 30 * time.Second},
		Cache:   CacheConfig{Enabled: false, Path: "/tmp/x.db"},
		UI:      UIConfig{CurrencySymbol: "€", PageSize: 20, TopN: 4},
		Log:     LogConfig{Path: "/tmp/app.log", Level: "info"},
	}
	require.Equal(t, path, Path())
	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret")

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg.API.User.BaseURL, got.API.User.BaseURL)
	require.Equal(t, 9*time.Second, got.API.Timeout)
	require.Equal(t, 250, got.API.FetchPageSize)
	require.Equal(t, "file", got.Session.Backend)
	require.Equal(t, 30*time.Second, got.Session.WatchInterval)
	require.False(t, got.Cache.Enabled)
	require.Equal(t, "€", got.UI.CurrencySymbol)
	require.Equal(t, 4, got.UI.TopN)
}
