package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/database/repository"
	"github.com/jask/expensetracker/internal/domain"
	"github.com/jask/expensetracker/internal/service"
)

const loadLabel = "loading transactions"

// cachedMsg is the local snapshot, shown until the first fetch lands.
type cachedMsg struct {
	snap repository.Snapshot
}

type dashboardScreen struct {
	env      *env
	txs      []domain.Transaction
	groups   aggregate.MonthGroups
	keys     []string
	keyIdx   int
	page     int
	cursor   int
	profile  *domain.Profile
	cachedAt time.Time
	loaded   bool
	err      string
}

func newDashboard(e *env) *dashboardScreen {
	d := &dashboardScreen{env: e, page: 1}
	d.setTransactions(nil)
	return d
}

func (d *dashboardScreen) Init() tea.Cmd {
	return tea.Batch(d.loadCached(), d.refresh())
}

func (d *dashboardScreen) loadCached() tea.Cmd {
	ledger, ctx := d.env.deps.Ledger, d.env.ctx
	return func() tea.Msg {
		snap, err := ledger.Cached(ctx)
		if err != nil {
			return nil
		}
		return cachedMsg{snap: snap}
	}
}

func (d *dashboardScreen) refresh() tea.Cmd {
	return d.env.run(loadLabel, func(ctx context.Context) (any, error) {
		return d.env.deps.Dashboard.Load(ctx)
	})
}

func (d *dashboardScreen) Title() string {
	if d.profile != nil && d.profile.FirstName != "" {
		return "Welcome, " + d.profile.FirstName
	}
	return "Transactions"
}

func (d *dashboardScreen) Help() string {
	return "j/k: move  tab: month  n/b: page  enter: details  a: add  r: report  p: profile  g: refresh  l: logout  q: quit"
}

// setTransactions regroups and keeps the selected month when it still exists.
func (d *dashboardScreen) setTransactions(txs []domain.Transaction) {
	current := aggregate.AllKey
	if d.keys != nil {
		current = d.keys[d.keyIdx]
	}
	d.txs = txs
	d.groups = aggregate.GroupByMonth(txs)
	d.keys = d.groups.Keys()
	d.keyIdx = 0
	for i, k := range d.keys {
		if k == current {
			d.keyIdx = i
		}
	}
	d.clampPage()
}

func (d *dashboardScreen) group() []domain.Transaction {
	return d.groups.Get(d.keys[d.keyIdx])
}

func (d *dashboardScreen) current() aggregate.Page {
	return aggregate.PageOf(d.group(), d.page, d.env.pageSize())
}

func (d *dashboardScreen) clampPage() {
	p := d.current()
	if d.page > p.PageCount() {
		d.page = p.PageCount()
	}
	if d.page < 1 {
		d.page = 1
	}
	items := d.current().Items
	if d.cursor >= len(items) {
		d.cursor = len(items) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

func (d *dashboardScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cachedMsg:
		if !d.loaded {
			d.cachedAt = msg.snap.FetchedAt
			d.setTransactions(msg.snap.Transactions)
		}
		return d, nil
	case resultMsg:
		switch msg.label {
		case loadLabel:
			if msg.err != nil {
				d.err = errorText(msg.err)
				return d, nil
			}
			data := msg.value.(service.DashboardData)
			d.loaded, d.err, d.cachedAt = true, "", time.Time{}
			d.profile = data.Profile
			d.setTransactions(data.Transactions)
		case logoutLabel:
			l := newLogin(d.env, "")
			if msg.err != nil {
				l.err = errorText(msg.err)
			} else {
				l.note = "Logged out."
			}
			return l, l.Init()
		}
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg.String())
	}
	return d, nil
}

const logoutLabel = "logging out"

func (d *dashboardScreen) handleKey(key string) (Screen, tea.Cmd) {
	items := d.current().Items
	switch key {
	case "q":
		return nil, nil
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(items)-1 {
			d.cursor++
		}
	case "tab", "right":
		d.keyIdx = (d.keyIdx + 1) % len(d.keys)
		d.page, d.cursor = 1, 0
	case "shift+tab", "left":
		d.keyIdx = (d.keyIdx - 1 + len(d.keys)) % len(d.keys)
		d.page, d.cursor = 1, 0
	case "n", "pgdown":
		if d.current().HasNext() {
			d.page++
			d.cursor = 0
		}
	case "b", "pgup":
		if d.current().HasPrev() {
			d.page--
			d.cursor = 0
		}
	case "enter":
		if len(items) > 0 {
			s := newDetail(d.env, d, items[d.cursor])
			return s, s.Init()
		}
	case "a":
		s := newAddTransaction(d.env, d)
		return s, s.Init()
	case "r":
		s := newReport(d.env, d)
		return s, s.Init()
	case "p":
		s := newProfile(d.env, d)
		return s, s.Init()
	case "g":
		if !d.env.busy() {
			return d, d.refresh()
		}
	case "l":
		return d, d.env.run(logoutLabel, func(ctx context.Context) (any, error) {
			return nil, d.env.logout(ctx)
		})
	}
	return d, nil
}

func (d *dashboardScreen) View(width, height int) string {
	var b strings.Builder

	tabs := make([]string, len(d.keys))
	for i, k := range d.keys {
		if i == d.keyIdx {
			tabs[i] = selectedStyle.Render(" " + k + " ")
		} else {
			tabs[i] = mutedStyle.Render(" " + k + " ")
		}
	}
	b.WriteString(strings.Join(tabs, ""))
	b.WriteString("\n\n")

	page := d.current()
	if len(page.Items) == 0 {
		b.WriteString(mutedStyle.Render("No transactions."))
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-10s  %-8s  %-16s  %14s  %s", "Date", "Type", "Category", "Amount", "Description")))
		b.WriteString("\n")
		for i, tx := range page.Items {
			b.WriteString(d.renderRow(tx, i == d.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d of %d  (%d transactions)", page.Number, page.PageCount(), page.Total)))
	if !d.cachedAt.IsZero() {
		b.WriteString(mutedStyle.Render("  cached " + d.cachedAt.Local().Format("Jan 2 15:04")))
	}
	if d.err != "" {
		b.WriteString("\n" + errorStyle.Render(d.err))
	}
	return b.String()
}

func (d *dashboardScreen) renderRow(tx domain.Transaction, selected bool) string {
	amount := domain.FormatSigned(d.env.currency(), tx.Type, tx.Amount)
	style := expenseStyle
	if tx.Type.IsIncome() {
		style = incomeStyle
	}
	line := fmt.Sprintf("  %-10s  %-8s  %-16s  %14s  %s",
		tx.Date.String(), string(tx.Type), truncate(tx.Category, 16), amount, truncate(tx.Description, 40))
	if selected {
		return selectedStyle.Render(">" + line[1:])
	}
	return style.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
