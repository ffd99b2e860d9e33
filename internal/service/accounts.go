package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/domain"
)

// AccountService covers registration, profile and password flows.
type AccountService struct {
	Users   UserAPI
	Session Identity
	Log     zerolog.Logger
}

func (s *AccountService) Register(ctx context.Context, reg domain.Registration) error {
	if err := domain.ValidateRegistration(reg); err != nil {
		return err
	}
	if err := s.Users.Register(ctx, reg); err != nil {
		return err
	}
	s.Log.Info().Str("username", reg.Username).Msg("registered")
	return nil
}

func (s *AccountService) Profile(ctx context.Context) (domain.Profile, error) {
	name, err := requireUserName(s.Session)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.Users.Profile(ctx, name)
}

// UpdateProfile always updates the signed-in user's profile.
func (s *AccountService) UpdateProfile(ctx context.Context, p domain.Profile) error {
	name, err := requireUserName(s.Session)
	if err != nil {
		return err
	}
	p.Username = name
	p.DateOfBirth = p.BirthDate()
	if err := domain.ValidateProfile(p); err != nil {
		return err
	}
	return s.Users.UpdateProfile(ctx, p)
}

func (s *AccountService) ChangePassword(ctx context.Context, newPassword, confirm string) error {
	name, err := requireUserName(s.Session)
	if err != nil {
		return err
	}
	if err := domain.ValidatePasswordChange(newPassword, confirm); err != nil {
		return err
	}
	return s.Users.ChangePassword(ctx, name, newPassword)
}

func (s *AccountService) RequestPasswordReset(ctx context.Context, username, email string) error {
	if err := domain.ValidatePasswordReset(username, email); err != nil {
		return err
	}
	return s.Users.RequestPasswordReset(ctx, username, email)
}
