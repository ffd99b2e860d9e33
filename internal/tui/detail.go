package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/domain"
)

const deleteLabel = "deleting transaction"

type detailScreen struct {
	env        *env
	parent     *dashboardScreen
	tx         domain.Transaction
	confirming bool
	err        string
}

func newDetail(e *env, parent *dashboardScreen, tx domain.Transaction) *detailScreen {
	return &detailScreen{env: e, parent: parent, tx: tx}
}

func (s *detailScreen) Init() tea.Cmd { return nil }

func (s *detailScreen) Title() string { return "Transaction details" }

func (s *detailScreen) Help() string {
	if s.confirming {
		return "y: delete  n: keep"
	}
	return "d: delete  esc: back"
}

func (s *detailScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.label != deleteLabel {
			s.parent.Update(msg)
			return s, nil
		}
		if msg.err != nil {
			s.confirming = false
			s.err = errorText(msg.err)
			return s, nil
		}
		s.parent.setTransactions(msg.value.([]domain.Transaction))
		return s.parent, statusCmd("Transaction deleted.")
	case tea.KeyMsg:
		if s.env.busy() {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			if s.confirming {
				s.confirming = false
				return s, nil
			}
			return s.parent, nil
		case "d":
			s.confirming = true
			s.err = ""
		case "n":
			s.confirming = false
		case "y":
			if !s.confirming {
				return s, nil
			}
			id := s.tx.ID
			return s, s.env.run(deleteLabel, func(ctx context.Context) (any, error) {
				return s.env.deps.Ledger.Delete(ctx, id)
			})
		}
	}
	return s, nil
}

func (s *detailScreen) View(width, height int) string {
	tx := s.tx
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", tx.ID)},
		{"Date", tx.Date.String()},
		{"Type", string(tx.Type)},
		{"Category", tx.Category},
		{"Amount", domain.FormatAmount(s.env.currency(), tx.Amount)},
		{"Description", tx.Description},
	}
	if tx.CreatedAt != "" {
		rows = append(rows, [2]string{"Created", tx.CreatedAt})
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(fmt.Sprintf("%-12s", r[0]))+" "+r[1])
	}
	out := boxStyle.Render(strings.Join(lines, "\n"))
	if s.confirming {
		out += "\n\n" + errorStyle.Render("Delete this transaction? [y/n]")
	}
	if s.err != "" {
		out += "\n\n" + errorStyle.Render(s.err)
	}
	return out
}
