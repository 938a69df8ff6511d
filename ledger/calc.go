package ledger

import (
	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the commission percentage charged on memo freight.
const DefaultCommissionRate = 6

var hundred = decimal.NewFromInt(100)

// Commission returns round(freight * rate / 100).
func Commission(freight, rate decimal.Decimal) decimal.Decimal {
	return freight.Mul(rate).Div(hundred).Round(0)
}

// DefaultCommission applies DefaultCommissionRate.
func DefaultCommission(freight decimal.Decimal) decimal.Decimal {
	return Commission(freight, decimal.NewFromInt(DefaultCommissionRate))
}

// BillFreight is the sum of trip freights, or the stored total freight for
// bills recorded without trips.
func BillFreight(b models.Bill) decimal.Decimal {
	if len(b.Trips) == 0 {
		return b.TotalFreight
	}
	total := decimal.Zero
	for _, t := range b.Trips {
		total = total.Add(t.Freight)
	}
	return total
}

// TotalBillAmount is the gross receivable of a bill before advances and
// payments: freight + detention + rto + extra charges - mamul.
func TotalBillAmount(b models.Bill) decimal.Decimal {
	return BillFreight(b).
		Add(b.Detention).
		Add(b.RTOAmount).
		Add(b.ExtraCharges).
		Sub(b.Mamul)
}

// BillSettled is what has been settled against a bill through payments:
// received amounts plus the deductions accepted with them.
func BillSettled(b models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.ReceivedAmount).Add(p.TotalDeductions())
	}
	return total
}

// TotalMemoAmount is the memo document total printed on the voucher:
// freight + commission + detention - mamul.
func TotalMemoAmount(m models.Memo) decimal.Decimal {
	return m.Freight.Add(m.Commission).Add(m.Detention).Sub(m.Mamul)
}

// MemoNetAmount is what is payable to the supplier before advances and
// payments: freight - commission - mamul + detention + rto + extra charge.
func MemoNetAmount(m models.Memo) decimal.Decimal {
	return m.Freight.
		Sub(m.Commission).
		Sub(m.Mamul).
		Add(m.Detention).
		Add(m.RTOAmount).
		Add(m.ExtraCharge)
}

// MemoPaid sums the memo's payment installments. Memos recorded before
// installments were tracked only carry PaidAmount.
func MemoPaid(m models.Memo) decimal.Decimal {
	if len(m.Payments) == 0 {
		return m.PaidAmount
	}
	total := decimal.Zero
	for _, p := range m.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
