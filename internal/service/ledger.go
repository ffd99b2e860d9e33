package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/api"
	"github.com/jask/expensetracker/internal/database"
	"github.com/jask/expensetracker/internal/database/repository"
	"github.com/jask/expensetracker/internal/domain"
)

const defaultFetchPageSize = 1000

// LedgerService owns the transaction list. Mutations are always followed by
// a full refetch; the list is never patched locally.
type LedgerService struct {
	Transactions TransactionAPI
	Session      Identity
	// Snapshots is optional.
	Snapshots     SnapshotStore
	FetchPageSize int
	Log           zerolog.Logger
	// Now stamps snapshots; it defaults to database.Now.
	Now func() time.Time
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return database.Now()
}

// Refresh fetches the whole list for the current user, newest first, and
// replaces the cached snapshot.
func (s *LedgerService) Refresh(ctx context.Context) ([]domain.Transaction, error) {
	userID, err := requireUserID(s.Session)
	if err != nil {
		return nil, err
	}
	size := s.FetchPageSize
	if size <= 0 {
		size = defaultFetchPageSize
	}
	txs, err := s.Transactions.List(ctx, userID, api.ListOptions{Page: 1, PageSize: size, SortBy: "date", SortOrder: "desc"})
	if err != nil {
		return nil, err
	}
	if s.Snapshots != nil {
		if err := s.Snapshots.Replace(ctx, userID, txs, s.now()); err != nil {
			s.Log.Warn().Err(err).Msg("cache snapshot")
		}
	}
	return txs, nil
}

// Cached returns the last snapshot without touching the network.
func (s *LedgerService) Cached(ctx context.Context) (repository.Snapshot, error) {
	userID, err := requireUserID(s.Session)
	if err != nil {
		return repository.Snapshot{}, err
	}
	if s.Snapshots == nil {
		return repository.Snapshot{}, repository.ErrNoSnapshot
	}
	return s.Snapshots.List(ctx, userID)
}

// Add validates tx, stamps the current user on it, posts it and refetches.
func (s *LedgerService) Add(ctx context.Context, tx domain.NewTransaction) ([]domain.Transaction, error) {
	userID, err := requireUserID(s.Session)
	if err != nil {
		return nil, err
	}
	tx.UserID = userID
	if err := domain.ValidateNewTransaction(&tx); err != nil {
		return nil, err
	}
	if err := s.Transactions.Add(ctx, tx); err != nil {
		return nil, err
	}
	s.Log.Info().Str("category", tx.Category).Msg("transaction added")
	return s.Refresh(ctx)
}

// Delete removes id and refetches.
func (s *LedgerService) Delete(ctx context.Context, id int64) ([]domain.Transaction, error) {
	if _, err := requireUserID(s.Session); err != nil {
		return nil, err
	}
	if err := s.Transactions.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.Log.Info().Int64("id", id).Msg("transaction deleted")
	return s.Refresh(ctx)
}

// ClearCache drops every cached snapshot; used on logout.
func (s *LedgerService) ClearCache(ctx context.Context) error {
	if s.Snapshots == nil {
		return nil
	}
	return s.Snapshots.Clear(ctx)
}
