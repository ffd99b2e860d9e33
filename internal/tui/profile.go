package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/domain"
)

const profileLabel = "loading profile"

type profileScreen struct {
	env     *env
	parent  *dashboardScreen
	profile *domain.Profile
	err     string
}

func newProfile(e *env, parent *dashboardScreen) *profileScreen {
	return &profileScreen{env: e, parent: parent, profile: parent.profile}
}

func (s *profileScreen) Init() tea.Cmd {
	return s.env.run(profileLabel, func(ctx context.Context) (any, error) {
		return s.env.deps.Accounts.Profile(ctx)
	})
}

func (s *profileScreen) Title() string { return "Profile" }

func (s *profileScreen) Help() string { return "e: edit  c: change password  esc: back" }

func (s *profileScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.label != profileLabel {
			s.parent.Update(msg)
			return s, nil
		}
		if msg.err != nil {
			s.err = errorText(msg.err)
			return s, nil
		}
		p := msg.value.(domain.Profile)
		s.profile, s.err = &p, ""
		s.parent.profile = &p
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			s.env.tracker.CancelLabel(profileLabel)
			return s.parent, nil
		case "e":
			if s.profile == nil || s.env.busy() {
				return s, nil
			}
			f := s.editForm()
			return f, f.Init()
		case "c":
			if s.env.busy() {
				return s, nil
			}
			f := s.passwordForm()
			return f, f.Init()
		}
	}
	return s, nil
}

func (s *profileScreen) editForm() *formScreen {
	p := *s.profile
	f := newForm(s.env, "Edit profile", "saving profile", []formField{
		{key: "firstName", label: "First name", value: p.FirstName},
		{key: "lastName", label: "Last name", value: p.LastName},
		{key: "email", label: "Email", value: p.Email},
		{key: "phoneNumber", label: "Phone", value: p.PhoneNumber},
		{key: "dateOfBirth", label: "Date of birth", value: p.BirthDate(), placeholder: "YYYY-MM-DD"},
	})
	f.parent = s.parent
	f.back = func() (Screen, tea.Cmd) { return s, nil }
	f.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		updated := domain.Profile{
			Username:    p.Username,
			Email:       vals["email"],
			FirstName:   vals["firstName"],
			LastName:    vals["lastName"],
			PhoneNumber: vals["phoneNumber"],
			DateOfBirth: vals["dateOfBirth"],
		}
		if err := s.env.deps.Accounts.UpdateProfile(ctx, updated); err != nil {
			return nil, err
		}
		return s.env.deps.Accounts.Profile(ctx)
	}
	f.done = func(v any) (Screen, tea.Cmd) {
		p := v.(domain.Profile)
		s.profile = &p
		s.parent.profile = &p
		return s, statusCmd("Profile updated.")
	}
	return f
}

func (s *profileScreen) passwordForm() *formScreen {
	f := newForm(s.env, "Change password", "changing password", []formField{
		{key: "new", label: "New password", secret: true},
		{key: "confirm", label: "Confirm", secret: true},
	})
	f.parent = s.parent
	f.back = func() (Screen, tea.Cmd) { return s, nil }
	f.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		return nil, s.env.deps.Accounts.ChangePassword(ctx, vals["new"], vals["confirm"])
	}
	f.done = func(any) (Screen, tea.Cmd) {
		return s, statusCmd("Password changed.")
	}
	return f
}

func (s *profileScreen) View(width, height int) string {
	if s.profile == nil {
		if s.err != "" {
			return errorStyle.Render(s.err)
		}
		return mutedStyle.Render("Loading profile...")
	}
	p := s.profile
	rows := [][2]string{
		{"Username", p.Username},
		{"Name", strings.TrimSpace(p.FirstName + " " + p.LastName)},
		{"Email", p.Email},
		{"Phone", p.PhoneNumber},
		{"Born", p.BirthDate()},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(fmt.Sprintf("%-10s", r[0]))+" "+r[1])
	}
	out := boxStyle.Render(strings.Join(lines, "\n"))
	if s.err != "" {
		out += "\n\n" + errorStyle.Render(s.err)
	}
	return out
}
