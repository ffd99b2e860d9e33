// Package service sequences validation, API calls, aggregation and the
// snapshot cache for the views. Views never call the API clients directly.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jask/expensetracker/internal/api"
	"github.com/jask/expensetracker/internal/database/repository"
	"github.com/jask/expensetracker/internal/domain"
)

// ErrNotLoggedIn is returned when an operation needs a user id and there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// Identity is the read side of the session.
type Identity interface {
	UserID() string
	UserName() string
}

type TransactionAPI interface {
	List(ctx context.Context, userID string, opts api.ListOptions) ([]domain.Transaction, error)
	Add(ctx context.Context, tx domain.NewTransaction) error
	Delete(ctx context.Context, id int64) error
}

type ReportAPI interface {
	Monthly(ctx context.Context, userID string, year int, month time.Month) ([]domain.MonthlyTotal, error)
	CustomRange(ctx context.Context, userID string, start, end domain.Date) ([]domain.Transaction, error)
}

type UserAPI interface {
	Register(ctx context.Context, reg domain.Registration) error
	Profile(ctx context.Context, username string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, p domain.Profile) error
	ChangePassword(ctx context.Context, username, newPassword string) error
	RequestPasswordReset(ctx context.Context, username, email string) error
}

// SnapshotStore caches the last fetched transaction list.
type SnapshotStore interface {
	Replace(ctx context.Context, userID string, txs []domain.Transaction, fetchedAt time.Time) error
	List(ctx context.Context, userID string) (repository.Snapshot, error)
	Clear(ctx context.Context) error
}

func requireUserID(id Identity) (string, error) {
	if id == nil || id.UserID() == "" {
		return "", ErrNotLoggedIn
	}
	return id.UserID(), nil
}

func requireUserName(id Identity) (string, error) {
	if id == nil || id.UserName() == "" {
		return "", ErrNotLoggedIn
	}
	return id.UserName(), nil
}
