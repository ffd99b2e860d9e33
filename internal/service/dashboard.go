package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/domain"
)

// DashboardService loads everything the dashboard shows in one round.
type DashboardService struct {
	Ledger   *LedgerService
	Accounts *AccountService
	Log      zerolog.Logger
}

type DashboardData struct {
	Transactions []domain.Transaction
	Groups       aggregate.MonthGroups
	// Profile is nil when ProfileErr is set.
	Profile    *domain.Profile
	ProfileErr error
}

// Load fetches transactions and the profile concurrently. Only the
// transaction fetch can fail the load.
func (s *DashboardService) Load(ctx context.Context) (DashboardData, error) {
	var (
		data    DashboardData
		profile domain.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.Ledger.Refresh(gctx)
		if err != nil {
			return err
		}
		data.Transactions = txs
		return nil
	})
	if s.Accounts != nil {
		g.Go(func() error {
			p, err := s.Accounts.Profile(gctx)
			if err != nil {
				s.Log.Warn().Err(err).Msg("dashboard profile")
				data.ProfileErr = err
				return nil
			}
			profile = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardData{}, err
	}
	if data.ProfileErr == nil && s.Accounts != nil {
		data.Profile = &profile
	}
	data.Groups = aggregate.GroupByMonth(data.Transactions)
	return data, nil
}
