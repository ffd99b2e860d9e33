// Package app wires configuration into the session, API clients, cache and
// services shared by the TUI and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/api"
	"github.com/jask/expensetracker/internal/config"
	"github.com/jask/expensetracker/internal/database"
	"github.com/jask/expensetracker/internal/database/repository"
	"github.com/jask/expensetracker/internal/logger"
	"github.com/jask/expensetracker/internal/secrets"
	"github.com/jask/expensetracker/internal/service"
	"github.com/jask/expensetracker/internal/session"
)

// App is the assembled object graph.
type App struct {
	Config config.Config
	Log    zerolog.Logger

	Session   *session.Manager
	Ledger    *service.LedgerService
	Reporter  *service.ReporterService
	Accounts  *service.AccountService
	Dashboard *service.DashboardService

	db *sql.DB
}

// Overrides replace pieces of the graph, mainly for tests.
type Overrides struct {
	Secrets    secrets.Store
	HTTPClient *http.Client
}

// Build assembles the app and restores any persisted session. A broken
// cache is logged and disabled rather than failing startup.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger, ov Overrides) (*App, error) {
	store := ov.Secrets
	if store == nil {
		var err error
		store, err = secrets.Open(secrets.Options{
			Backend: cfg.Session.Backend,
			Service: cfg.Session.KeyringService,
			Key:     cfg.Session.KeyringKey,
			Logger:  logger.Component(log, "secrets"),
		})
		if err != nil {
			return nil, err
		}
	}

	hc := ov.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.API.Timeout}
	}

	a := &App{Config: cfg, Log: log}

	// the session authenticates through users, and every client reads its token from the session
	tokens := &lazyTokens{}
	opts := api.Options{HTTPClient: hc, Tokens: tokens, Logger: log}
	users := api.NewUsers(api.Endpoint{BaseURL: cfg.API.User.BaseURL, SubscriptionKey: cfg.API.User.SubscriptionKey}, opts)
	txs := api.NewTransactions(api.Endpoint{BaseURL: cfg.API.Transaction.BaseURL, SubscriptionKey: cfg.API.Transaction.SubscriptionKey}, opts)
	reports := api.NewReports(api.Endpoint{BaseURL: cfg.API.Report.BaseURL, SubscriptionKey: cfg.API.Report.SubscriptionKey}, opts)

	a.Session = session.NewManager(session.Options{
		Store:       store,
		Auth:        users,
		Logger:      log,
		ClearOnLoad: cfg.Session.ClearOnLoad,
	})
	tokens.src = a.Session

	var snaps service.SnapshotStore
	if cfg.Cache.Enabled {
		db, err := database.OpenMigrated(cfg.Cache.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("snapshot cache disabled")
		} else {
			a.db = db
			snaps = repository.NewSnapshotRepo(db)
		}
	}

	a.Ledger = &service.LedgerService{
		Transactions:  txs,
		Session:       a.Session,
		Snapshots:     snaps,
		FetchPageSize: cfg.API.FetchPageSize,
		Log:           logger.Component(log, "ledger"),
	}
	a.Reporter = &service.ReporterService{Reports: reports, Session: a.Session, TopN: cfg.UI.TopN}
	a.Accounts = &service.AccountService{Users: users, Session: a.Session, Log: logger.Component(log, "accounts")}
	a.Dashboard = &service.DashboardService{Ledger: a.Ledger, Accounts: a.Accounts, Log: log}

	if _, err := a.Session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restore session")
	}
	return a, nil
}

// Logout ends the session and drops the cached snapshot.
func (a *App) Logout(ctx context.Context) error {
	return errors.Join(a.Session.Logout(), a.Ledger.ClearCache(ctx))
}

// Close releases the cache.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

type lazyTokens struct{ src api.TokenSource }

func (l *lazyTokens) Token() string {
	if l.src == nil {
		return ""
	}
	return l.src.Token()
}
