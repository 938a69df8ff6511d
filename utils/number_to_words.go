package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// indianScales are the place values words are grouped by, largest first.
var indianScales = []struct {
	value int
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells num using the Indian system (lakh, crore). Zero and
// negative numbers give an empty string.
func NumberToWords(num int) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	}
	for _, scale := range indianScales {
		if num < scale.value {
			continue
		}
		words := NumberToWords(num/scale.value) + " " + scale.name
		if rest := num % scale.value; rest > 0 {
			words += " " + NumberToWords(rest)
		}
		return words
	}
	return ""
}

// NumberToCurrencyWords spells an amount in Indian rupees and paise, the
// way totals are printed on bills and memos.
func NumberToCurrencyWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	rupees := amount.Floor()
	paise := int(amount.Sub(rupees).Mul(decimal.NewFromInt(100)).IntPart())

	var parts []string
	if r := int(rupees.IntPart()); r > 0 {
		parts = append(parts, fmt.Sprintf("%s Rupees", NumberToWords(r)))
	}
	if paise > 0 {
		parts = append(parts, fmt.Sprintf("%s Paise", NumberToWords(paise)))
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
