package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/api"
	"github.com/jask/expensetracker/internal/domain"
	"github.com/jask/expensetracker/internal/task"
)

// resultMsg carries the outcome of a tracked task back to the screen that started it.
type resultMsg struct {
	ticket task.Ticket
	label  string
	value  any
	err    error
}

type statusMsg struct {
	text  string
	isErr bool
}

// sessionExpiredMsg is sent by the expiry watcher.
type sessionExpiredMsg struct{}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// errorText is what the user sees for err.
func errorText(err error) string {
	var (
		ve *domain.ValidationError
		ae *api.APIError
		te *api.TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &te):
		return "Could not reach the server: " + te.Err.Error()
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return err.Error()
}
