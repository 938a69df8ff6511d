package ledger

import (
	"strings"
	"time"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// CurrencyPrefix is printed before every formatted amount.
const CurrencyPrefix = "₹"

// FormatCurrency rounds to whole rupees and groups digits the Indian way
// (12,34,567).
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + CurrencyPrefix + groupIndian(rounded.StringFixed(0))
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatDate renders a stored date as DD/MM/YYYY. Unparseable input is
// returned unchanged.
func FormatDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// ParseDate parses a YYYY-MM-DD date. Timestamps carrying a time part are
// accepted and truncated to their date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, dateKey(date))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// dateKey normalises a stored date to its YYYY-MM-DD prefix so that
// lexical order is chronological order.
func dateKey(date string) string {
	date = strings.TrimSpace(date)
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
