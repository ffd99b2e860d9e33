package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount rounds to whole currency units and groups thousands: 1234.5 -> "$1,235".
func FormatAmount(symbol string, amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return "-" + symbol + printer.Sprintf("%d", -whole)
	}
	return symbol + printer.Sprintf("%d", whole)
}

// FormatSigned prefixes expenses with a minus sign.
func FormatSigned(symbol string, t TransactionType, amount decimal.Decimal) string {
	if t.IsIncome() {
		return FormatAmount(symbol, amount)
	}
	return "-" + FormatAmount(symbol, amount.Abs())
}
