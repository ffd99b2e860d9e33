package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/domain"
)

// barChart draws one horizontal bar per category, scaled to the largest.
type barChart struct {
	Title  string
	Data   aggregate.CategoryTotals
	Symbol string
	Style  lipgloss.Style
}

func (c barChart) Render(width int) string {
	if width <= 0 {
		width = 60
	}
	if len(c.Data) == 0 {
		return c.Title + "\n" + mutedStyle.Render("(no data)")
	}
	maxV := decimal.Zero
	labelW := 8
	for _, p := range c.Data {
		if p.Total.GreaterThan(maxV) {
			maxV = p.Total
		}
		if n := len([]rune(p.Category)); n > labelW {
			labelW = n
		}
	}
	if !maxV.IsPositive() {
		maxV = decimal.NewFromInt(1)
	}
	barSpace := max(1, width-labelW-18)

	lines := []string{c.Title}
	for _, p := range c.Data {
		w := int(p.Total.Div(maxV).Mul(decimal.NewFromInt(int64(barSpace))).IntPart())
		if w < 1 {
			w = 1
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelW, p.Category, c.Style.Render(strings.Repeat("█", w)), domain.FormatAmount(c.Symbol, p.Total)))
	}
	return strings.Join(lines, "\n")
}
