package http

import (
	"html/template"
	"strings"
	"time"

	"giftguardian/internal/core"
	"giftguardian/internal/services"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// priceFormatter renders amounts with grouping and the configured currency
// symbol, e.g. "€1,234.50".
type priceFormatter struct {
	printer *message.Printer
	symbol  string
}

func newPriceFormatter(symbol string) priceFormatter {
	return priceFormatter{printer: message.NewPrinter(language.English), symbol: symbol}
}

func (f priceFormatter) amount(d decimal.Decimal) string {
	return f.printer.Sprintf("%s%.2f", f.symbol, d.InexactFloat64())
}

// price renders an optional price; a missing one shows as a dash.
func (f priceFormatter) price(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return f.amount(*d)
}

// dateFields prefills the month/day/year inputs of a form.
type dateFields struct {
	Month int
	Day   int
	Year  *int
}

func templateFuncs(currency string) template.FuncMap {
	f := newPriceFormatter(currency)
	return template.FuncMap{
		"price":  f.price,
		"amount": f.amount,
		"date": func(t time.Time) string {
			return t.Format("Mon, Jan 2 2006")
		},
		"monthName": func(m int) string {
			if m < 1 || m > 12 {
				return ""
			}
			return time.Month(m).String()
		},
		"dateOf": func(month, day int, year *int) dateFields {
			return dateFields{Month: month, Day: day, Year: year}
		},
		"giftForm": func(people []core.Person, occasions []core.Occasion, statuses []core.GiftStatus) services.GiftForm {
			return services.GiftForm{People: people, Occasions: occasions, Statuses: statuses}
		},
		"emptyDate": func() dateFields {
			return dateFields{}
		},
		"months": func() []int {
			return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
		},
		"days": func() []int {
			out := make([]int, 31)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"intv": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
		"idv": func(v *int64) int64 {
			if v == nil {
				return 0
			}
			return *v
		},
		"decimalv": func(d *decimal.Decimal) string {
			if d == nil {
				return ""
			}
			return d.StringFixed(2)
		},
		"hasID": func(ids []int64, id int64) bool {
			for _, v := range ids {
				if v == id {
					return true
				}
			}
			return false
		},
		"statusClass": func(s core.GiftStatus) string {
			return "status-" + strings.ToLower(s.String())
		},
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
