// Package session owns the signed-in identity: the bearer token, the ids
// decoded from it, and its persisted copy in the secret store.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/domain"
	"github.com/jask/expensetracker/internal/logger"
	"github.com/jask/expensetracker/internal/secrets"
	"github.com/jask/expensetracker/internal/token"
)

// State is LoggedOut or LoggedIn.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// ErrIdentityMissing means the token decoded but carries no user id or name.
var ErrIdentityMissing = errors.New("session: token has no identity claims")

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Snapshot is a consistent copy of the session fields.
type Snapshot struct {
	State     State
	UserID    string
	UserName  string
	ExpiresAt time.Time
}

type Options struct {
	Store       secrets.Store
	Auth        Authenticator
	Logger      zerolog.Logger
	ClearOnLoad bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager is safe for concurrent use.
type Manager struct {
	store       secrets.Store
	auth        Authenticator
	log         zerolog.Logger
	clearOnLoad bool
	now         func() time.Time

	mu       sync.RWMutex
	state    State
	token    string
	userID   string
	userName string
	expires  time.Time
}

func NewManager(opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:       opts.Store,
		auth:        opts.Auth,
		log:         logger.Component(opts.Logger, "session"),
		clearOnLoad: opts.ClearOnLoad,
		now:         now,
	}
}

type identity struct {
	userID   string
	userName string
	expires  time.Time
}

func decodeIdentity(raw string) (identity, error) {
	claims, err := token.Decode(raw)
	if err != nil {
		return identity{}, err
	}
	id := identity{userID: claims.UserID(), userName: claims.UserName()}
	if id.userID == "" || id.userName == "" {
		return identity{}, ErrIdentityMissing
	}
	id.expires, _ = claims.ExpiresAt()
	return id, nil
}

// Restore adopts a persisted token if it is still valid. Anything unusable
// is removed from the store. A missing token is not an error.
func (m *Manager) Restore(_ context.Context) (State, error) {
	raw, err := m.store.Get()
	if errors.Is(err, secrets.ErrNotFound) {
		return m.State(), nil
	}
	if err != nil {
		return m.State(), fmt.Errorf("restore session: %w", err)
	}

	if m.clearOnLoad {
		m.log.Info().Msg("clearing stored token on startup")
		return m.State(), m.deleteStored()
	}

	if !token.IsValid(raw, m.now()) {
		m.log.Info().Msg("stored token expired or unreadable")
		return m.State(), m.deleteStored()
	}
	id, err := decodeIdentity(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("stored token unusable")
		return m.State(), m.deleteStored()
	}

	m.adopt(raw, id)
	m.log.Info().Str("user_id", id.userID).Msg("session restored")
	return LoggedIn, nil
}

// Login validates the credentials, authenticates, and persists the token.
// Errors from the Authenticator are returned unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if err := domain.ValidateCredentials(username, password); err != nil {
		return err
	}
	raw, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	id, err := decodeIdentity(raw)
	if err != nil {
		return err
	}
	if err := m.store.Set(raw); err != nil {
		m.log.Error().Err(err).Msg("persist token")
	}
	m.adopt(raw, id)
	m.log.Info().Str("user_id", id.userID).Msg("logged in")
	return nil
}

// SaveToken persists and adopts raw. Tokens that do not decode are rejected
// and the session is left as it was.
func (m *Manager) SaveToken(raw string) error {
	id, err := decodeIdentity(raw)
	if err != nil {
		return err
	}
	if err := m.store.Set(raw); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	m.adopt(raw, id)
	return nil
}

// Logout is local only; the server is not told.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.state = LoggedOut
	m.token, m.userID, m.userName = "", "", ""
	m.expires = time.Time{}
	m.mu.Unlock()
	m.log.Info().Msg("logged out")
	return m.deleteStored()
}

// CheckExpiry logs out if the current token has expired. It reports whether
// that happened.
func (m *Manager) CheckExpiry() (bool, error) {
	m.mu.RLock()
	raw, state := m.token, m.state
	m.mu.RUnlock()
	if state != LoggedIn || token.IsValid(raw, m.now()) {
		return false, nil
	}
	m.mu.Lock()
	if m.token != raw {
		// a new login replaced the expired token meanwhile
		m.mu.Unlock()
		return false, nil
	}
	m.state = LoggedOut
	m.token, m.userID, m.userName = "", "", ""
	m.expires = time.Time{}
	m.mu.Unlock()
	m.log.Info().Msg("session expired")
	return true, m.deleteStored()
}

func (m *Manager) adopt(raw string, id identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = LoggedIn
	m.token = raw
	m.userID = id.userID
	m.userName = id.userName
	m.expires = id.expires
}

func (m *Manager) deleteStored() error {
	if err := m.store.Delete(); err != nil {
		return fmt.Errorf("delete stored token: %w", err)
	}
	return nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, UserID: m.userID, UserName: m.userName, ExpiresAt: m.expires}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsLoggedIn() bool { return m.State() == LoggedIn }

// Token returns the bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

func (m *Manager) UserName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userName
}
