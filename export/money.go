package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale = "en-IN"
	DefaultSymbol = "₹"
)

// Money formats amounts with a currency symbol and locale digit grouping.
type Money struct {
	printer *message.Printer
	symbol  string
}

func NewMoney(locale, symbol string) (*Money, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Money{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}, nil
}

// Units formats a whole amount, e.g. "₹ 10,621".
func (m *Money) Units(v int64) string {
	return m.withSymbol(m.printer.Sprintf("%d", v))
}

// Cents formats an amount with two decimals.
func (m *Money) Cents(v float64) string {
	return m.withSymbol(m.printer.Sprintf("%.2f", v))
}

func (m *Money) Symbol() string {
	return m.symbol
}

func (m *Money) withSymbol(s string) string {
	if m.symbol == "" {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-" + m.symbol + " " + s[1:]
	}
	return m.symbol + " " + s
}
