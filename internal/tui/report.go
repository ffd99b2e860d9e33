package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/expensetracker/internal/domain"
	"github.com/jask/expensetracker/internal/service"
)

const (
	monthlyLabel = "loading monthly report"
	customLabel  = "loading custom report"
)

type reportMode int

const (
	modeMonthly reportMode = iota
	modeCustom
)

// reportScreen switches between the monthly summary and the custom range
// report; each has its own inputs and keeps its last result.
type reportScreen struct {
	env     *env
	parent  *dashboardScreen
	mode    reportMode
	monthly *formScreen
	custom  *formScreen

	monthlyResult *service.MonthlyReport
	customResult  *service.CustomReport
}

func newReport(e *env, parent *dashboardScreen) *reportScreen {
	now := time.Now()
	s := &reportScreen{env: e, parent: parent}

	s.monthly = newForm(e, "Monthly report", monthlyLabel, []formField{
		{key: "year", label: "Year", value: strconv.Itoa(now.Year())},
		{key: "month", label: "Month", value: strconv.Itoa(int(now.Month())), placeholder: "1-12"},
	})
	s.monthly.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		year, err := strconv.Atoi(vals["year"])
		if err != nil {
			return nil, &domain.ValidationError{Field: "year", Message: "Year must be a number."}
		}
		month, err := strconv.Atoi(vals["month"])
		if err != nil {
			return nil, &domain.ValidationError{Field: "month", Message: "Month must be a number."}
		}
		return e.deps.Reporter.Monthly(ctx, year, time.Month(month))
	}
	s.monthly.done = func(v any) (Screen, tea.Cmd) {
		r := v.(service.MonthlyReport)
		s.monthlyResult = &r
		return s, nil
	}

	first := domain.NewDate(now.Year(), now.Month(), 1)
	s.custom = newForm(e, "Custom report", customLabel, []formField{
		{key: "start", label: "Start date", value: first.String(), placeholder: "YYYY-MM-DD"},
		{key: "end", label: "End date", value: domain.Date{Time: now}.String(), placeholder: "YYYY-MM-DD"},
	})
	s.custom.submit = func(ctx context.Context, vals map[string]string) (any, error) {
		if err := domain.ValidateDate("start", vals["start"]); err != nil {
			return nil, err
		}
		if err := domain.ValidateDate("end", vals["end"]); err != nil {
			return nil, err
		}
		start, _ := domain.ParseDate(vals["start"])
		end, _ := domain.ParseDate(vals["end"])
		return e.deps.Reporter.Custom(ctx, start, end)
	}
	s.custom.done = func(v any) (Screen, tea.Cmd) {
		r := v.(service.CustomReport)
		s.customResult = &r
		return s, nil
	}
	for _, f := range []*formScreen{s.monthly, s.custom} {
		f.parent = parent
	}
	return s
}

func (s *reportScreen) active() *formScreen {
	if s.mode == modeCustom {
		return s.custom
	}
	return s.monthly
}

func (s *reportScreen) Init() tea.Cmd { return s.active().Init() }

func (s *reportScreen) Title() string {
	if s.mode == modeCustom {
		return "Report: custom range"
	}
	return "Report: monthly"
}

func (s *reportScreen) Help() string {
	return "enter: run  tab: next field  ctrl+t: switch report  esc: back"
}

func (s *reportScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			s.env.tracker.CancelLabel(monthlyLabel, customLabel)
			return s.parent, nil
		case "ctrl+t":
			s.env.tracker.CancelLabel(monthlyLabel, customLabel)
			if s.mode == modeMonthly {
				s.mode = modeCustom
			} else {
				s.mode = modeMonthly
			}
			return s, s.active().Init()
		}
	}
	if r, ok := msg.(resultMsg); ok {
		switch r.label {
		case monthlyLabel:
			_, cmd := s.monthly.Update(msg)
			return s, cmd
		case customLabel:
			_, cmd := s.custom.Update(msg)
			return s, cmd
		}
	}
	_, cmd := s.active().Update(msg)
	return s, cmd
}

func (s *reportScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.active().View(width, height))
	b.WriteString("\n\n")
	if s.mode == modeMonthly {
		b.WriteString(s.renderMonthly())
	} else {
		b.WriteString(s.renderCustom(width))
	}
	return b.String()
}

func (s *reportScreen) renderMonthly() string {
	r := s.monthlyResult
	if r == nil {
		return mutedStyle.Render("Enter a year and month and press enter.")
	}
	sym := s.env.currency()
	diffStyle := incomeStyle
	if r.Summary.Difference.IsNegative() {
		diffStyle = expenseStyle
	}
	lines := []string{
		headerStyle.Render(fmt.Sprintf("%s %d", r.Month, r.Year)),
		fmt.Sprintf("%-12s %s", "Income", incomeStyle.Render(domain.FormatAmount(sym, r.Summary.Income))),
		fmt.Sprintf("%-12s %s", "Expense", expenseStyle.Render(domain.FormatAmount(sym, r.Summary.Expense))),
		fmt.Sprintf("%-12s %s", "Difference", diffStyle.Render(domain.FormatAmount(sym, r.Summary.Difference))),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (s *reportScreen) renderCustom(width int) string {
	r := s.customResult
	if r == nil {
		return mutedStyle.Render("Enter a date range and press enter.")
	}
	sym := s.env.currency()
	head := headerStyle.Render(fmt.Sprintf("%s to %s  (%d transactions)", r.Start, r.End, len(r.Transactions)))
	totals := fmt.Sprintf("Income %s   Expense %s",
		incomeStyle.Render(domain.FormatAmount(sym, r.IncomeTotal)),
		expenseStyle.Render(domain.FormatAmount(sym, r.ExpenseTotal)))
	income := barChart{Title: "Top income categories", Data: r.Income, Symbol: sym, Style: incomeStyle}
	expense := barChart{Title: "Top expense categories", Data: r.Expense, Symbol: sym, Style: expenseStyle}
	return strings.Join([]string{head, totals, "", income.Render(width), "", expense.Render(width)}, "\n")
}
