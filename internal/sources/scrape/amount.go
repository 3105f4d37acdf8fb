package scrape

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseDollars turns the listing's amount cell ("$1,250,000", "($20,000)",
// "-") into a decimal. Parenthesized amounts are reductions and come back
// negative. Returns ok=false for placeholder cells.
func parseDollars(text string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	if s == "" || s == "-" || s == "—" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
