package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/domain"
)

func newLogin(e *env, notice string) *formScreen {
	s := newForm(e, "Log in", "logging in", []formField{
		{key: "username", label: "Username"},
		{key: "password", label: "Password", secret: true},
	})
	if notice != "" {
		s.err = notice
	}
	s.help = "ctrl+r: register  ctrl+f: forgot password"
	s.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		return nil, e.deps.Session.Login(ctx, vals["username"], vals["password"])
	}
	s.done = func(any) (Screen, tea.Cmd) {
		d := newDashboard(e)
		return d, tea.Batch(d.Init(), statusCmd("Login successful."))
	}
	s.keys = func(key string) (Screen, tea.Cmd, bool) {
		switch key {
		case "ctrl+r":
			r := newRegister(e)
			return r, r.Init(), true
		case "ctrl+f":
			f := newForgot(e)
			return f, f.Init(), true
		}
		return nil, nil, false
	}
	return s
}

func backToLogin(e *env, note string) func() (Screen, tea.Cmd) {
	return func() (Screen, tea.Cmd) {
		l := newLogin(e, "")
		l.note = note
		return l, l.Init()
	}
}

func newRegister(e *env) *formScreen {
	s := newForm(e, "Register", "registering", []formField{
		{key: "username", label: "Username"},
		{key: "password", label: "Password", secret: true},
		{key: "email", label: "Email", placeholder: "you@example.com"},
		{key: "firstName", label: "First name"},
		{key: "lastName", label: "Last name"},
		{key: "phoneNumber", label: "Phone", placeholder: "10 digits"},
		{key: "dateOfBirth", label: "Date of birth", placeholder: "YYYY-MM-DD"},
	})
	s.back = backToLogin(e, "")
	s.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		return nil, e.deps.Accounts.Register(ctx, domain.Registration{
			Username:    vals["username"],
			Password:    vals["password"],
			Email:       vals["email"],
			FirstName:   vals["firstName"],
			LastName:    vals["lastName"],
			PhoneNumber: vals["phoneNumber"],
			DateOfBirth: vals["dateOfBirth"],
		})
	}
	s.done = func(any) (Screen, tea.Cmd) {
		return backToLogin(e, "Registration successful. Please log in.")()
	}
	return s
}

func newForgot(e *env) *formScreen {
	s := newForm(e, "Forgot password", "requesting reset", []formField{
		{key: "username", label: "Username"},
		{key: "email", label: "Email"},
	})
	s.back = backToLogin(e, "")
	s.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		return nil, e.deps.Accounts.RequestPasswordReset(ctx, vals["username"], vals["email"])
	}
	s.done = func(any) (Screen, tea.Cmd) {
		return backToLogin(e, "Password reset requested. Check your email.")()
	}
	return s
}
