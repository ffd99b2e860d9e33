package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/config"
	"github.com/jask/expensetracker/internal/service"
	"github.com/jask/expensetracker/internal/session"
	"github.com/jask/expensetracker/internal/task"
)

// Screen is one page of the UI. Update may return a different screen to navigate.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
	Help() string
}

// Deps are the services the screens drive.
type Deps struct {
	Session   *session.Manager
	Ledger    *service.LedgerService
	Reporter  *service.ReporterService
	Accounts  *service.AccountService
	Dashboard *service.DashboardService
	UI        config.UIConfig
	Log       zerolog.Logger
	// Logout ends the session; it defaults to Session.Logout.
	Logout func(ctx context.Context) error
}

// env is shared by every screen.
type env struct {
	ctx     context.Context
	deps    Deps
	tracker *task.Tracker
}

// run starts fn as the tracked task, cancelling whatever was in flight.
func (e *env) run(label string, fn func(ctx context.Context) (any, error)) tea.Cmd {
	ctx, ticket := e.tracker.Start(e.ctx, label)
	return func() tea.Msg {
		v, err := fn(ctx)
		return resultMsg{ticket: ticket, label: label, value: v, err: err}
	}
}

func (e *env) busy() bool { return e.tracker.Busy() }

func (e *env) currency() string {
	if e.deps.UI.CurrencySymbol == "" {
		return "$"
	}
	return e.deps.UI.CurrencySymbol
}

func (e *env) pageSize() int {
	if e.deps.UI.PageSize <= 0 {
		return 10
	}
	return e.deps.UI.PageSize
}

func (e *env) logout(ctx context.Context) error {
	if e.deps.Logout != nil {
		return e.deps.Logout(ctx)
	}
	return e.deps.Session.Logout()
}

// App is the root bubbletea model.
type App struct {
	env       *env
	screen    Screen
	spinner   spinner.Model
	status    string
	statusErr bool
	width     int
	height    int
}

func New(ctx context.Context, deps Deps) *App {
	e := &env{ctx: ctx, deps: deps, tracker: &task.Tracker{}}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headerStyle

	a := &App{env: e, spinner: sp}
	if deps.Session.IsLoggedIn() {
		a.screen = newDashboard(e)
	} else {
		a.screen = newLogin(e, "")
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.screen.Init(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			a.env.tracker.Cancel()
			return a, tea.Quit
		case "enter":
			if a.env.busy() {
				return a, nil
			}
		}
		a.status = ""
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case statusMsg:
		a.status, a.statusErr = m.text, m.isErr
		return a, nil
	case sessionExpiredMsg:
		a.env.tracker.Cancel()
		a.screen = newLogin(a.env, "Your session has expired. Please log in again.")
		return a, a.screen.Init()
	case resultMsg:
		if !a.env.tracker.Finish(m.ticket, m.err) {
			a.env.deps.Log.Debug().Str("task", m.label).Msg("stale result dropped")
			return a, nil
		}
		if m.err != nil {
			a.env.deps.Log.Warn().Err(m.err).Str("task", m.label).Msg("task failed")
		}
	}

	next, cmd := a.screen.Update(msg)
	if next == nil {
		return a, tea.Quit
	}
	a.screen = next
	return a, cmd
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Expense Tracker"))
	if name := a.env.deps.Session.UserName(); name != "" {
		b.WriteString(mutedStyle.Render("  signed in as " + name))
	}
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(a.screen.Title()))
	b.WriteString("\n\n")
	b.WriteString(a.screen.View(a.width, a.height))
	b.WriteString("\n\n")

	switch {
	case a.env.busy():
		b.WriteString(a.spinner.View() + " " + mutedStyle.Render(a.env.tracker.Label()+"..."))
	case a.status != "" && a.statusErr:
		b.WriteString(errorStyle.Render(a.status))
	case a.status != "":
		b.WriteString(successStyle.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(a.screen.Help() + "  ctrl+c: quit"))
	return b.String()
}

// Run starts the program and the session expiry watcher.
func Run(ctx context.Context, deps Deps, watch *session.Watcher) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if watch != nil {
		watch.OnExpired(func() { p.Send(sessionExpiredMsg{}) })
		watch.Start()
		defer watch.Stop()
	}
	_, err := p.Run()
	return err
}
