package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	key         string
	label       string
	value       string
	placeholder string
	secret      bool
}

// formScreen is a column of text inputs submitted as one tracked task.
type formScreen struct {
	env    *env
	title  string
	label  string
	fields []formField
	inputs []textinput.Model
	focus  int
	err    string
	note   string

	submit func(ctx context.Context, vals map[string]string) (any, error)
	// done runs on success and picks the next screen.
	done func(value any) (Screen, tea.Cmd)
	// back runs on esc; nil means esc does nothing.
	back func() (Screen, tea.Cmd)
	// keys handles extra shortcuts before the inputs see them.
	keys func(key string) (Screen, tea.Cmd, bool)
	// hint renders extra text under the inputs from the current values.
	hint func(vals map[string]string) string
	help string
	// parent receives results of tasks this form did not start.
	parent Screen
}

func newForm(e *env, title, label string, fields []formField) *formScreen {
	inputs := make([]textinput.Model, 0, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = f.label + ": "
		in.Placeholder = f.placeholder
		in.SetValue(f.value)
		in.CharLimit = 128
		if f.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		if i == 0 {
			in.Focus()
		}
		inputs = append(inputs, in)
	}
	return &formScreen{env: e, title: title, label: label, fields: fields, inputs: inputs}
}

func (s *formScreen) Init() tea.Cmd { return textinput.Blink }

func (s *formScreen) Title() string { return s.title }

func (s *formScreen) Help() string {
	h := "enter: submit  tab: next field"
	if s.back != nil {
		h += "  esc: back"
	}
	if s.help != "" {
		h += "  " + s.help
	}
	return h
}

func (s *formScreen) values() map[string]string {
	vals := make(map[string]string, len(s.fields))
	for i, f := range s.fields {
		v := s.inputs[i].Value()
		if !f.secret {
			v = strings.TrimSpace(v)
		}
		vals[f.key] = v
	}
	return vals
}

func (s *formScreen) setFocus(i int) {
	s.inputs[s.focus].Blur()
	s.focus = (i + len(s.inputs)) % len(s.inputs)
	s.inputs[s.focus].Focus()
}

func (s *formScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.label != s.label {
			if s.parent != nil {
				s.parent.Update(msg)
			}
			return s, nil
		}
		if msg.err != nil {
			s.err = errorText(msg.err)
			return s, nil
		}
		s.err = ""
		if s.done != nil {
			return s.done(msg.value)
		}
		return s, nil
	case tea.KeyMsg:
		key := msg.String()
		if s.keys != nil {
			if next, cmd, ok := s.keys(key); ok {
				return next, cmd
			}
		}
		switch key {
		case "esc":
			if s.back != nil {
				s.env.tracker.CancelLabel(s.label)
				return s.back()
			}
			return s, nil
		case "tab", "down":
			s.setFocus(s.focus + 1)
			return s, nil
		case "shift+tab", "up":
			s.setFocus(s.focus - 1)
			return s, nil
		case "enter":
			if s.env.busy() || s.submit == nil {
				return s, nil
			}
			vals := s.values()
			s.err = ""
			return s, s.env.run(s.label, func(ctx context.Context) (any, error) {
				return s.submit(ctx, vals)
			})
		}
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *formScreen) View(width, height int) string {
	lines := make([]string, 0, len(s.inputs)+4)
	for _, in := range s.inputs {
		lines = append(lines, in.View())
	}
	if s.hint != nil {
		if h := s.hint(s.values()); h != "" {
			lines = append(lines, "", mutedStyle.Render(h))
		}
	}
	if s.note != "" {
		lines = append(lines, "", successStyle.Render(s.note))
	}
	if s.err != "" {
		lines = append(lines, "", errorStyle.Render(s.err))
	}
	return strings.Join(lines, "\n")
}
