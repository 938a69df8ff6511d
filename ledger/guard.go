package ledger

import (
	"fmt"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// BalanceCheck is the verdict of the balance sanity guard. When IsValid is
// false the caller must store CorrectedBalance instead of the current value.
type BalanceCheck struct {
	IsValid          bool             `json:"is_valid"`
	CorrectedBalance *decimal.Decimal `json:"corrected_balance,omitempty"`
	Warning          string           `json:"warning,omitempty"`
}

// ValidateBillBalance flags a stored bill balance above the bill's gross
// amount or below zero.
func ValidateBillBalance(b models.Bill) BalanceCheck {
	return checkBalance("bill "+b.BillNo, b.Balance, TotalBillAmount(b))
}

// ValidateMemoBalance flags a stored memo balance above the memo's net
// payable amount or below zero.
func ValidateMemoBalance(m models.Memo) BalanceCheck {
	return checkBalance("memo "+m.MemoNo, m.Balance, MemoNetAmount(m))
}

func checkBalance(label string, balance, maxPossible decimal.Decimal) BalanceCheck {
	maxPossible = clampZero(maxPossible)
	switch {
	case balance.GreaterThan(maxPossible):
		return BalanceCheck{
			CorrectedBalance: &maxPossible,
			Warning: fmt.Sprintf("%s balance %s exceeds maximum possible amount %s, corrected",
				label, FormatCurrency(balance), FormatCurrency(maxPossible)),
		}
	case balance.IsNegative():
		zero := decimal.Zero
		return BalanceCheck{
			CorrectedBalance: &zero,
			Warning:          fmt.Sprintf("%s balance %s is negative, corrected to zero", label, FormatCurrency(balance)),
		}
	}
	return BalanceCheck{IsValid: true}
}
