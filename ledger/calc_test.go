package ledger_test

import (
	"testing"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCommission(t *testing.T) {
	assertAmount(t, 1200, ledger.DefaultCommission(amt(20000)))
	assertAmount(t, 741, ledger.DefaultCommission(amt(12345)), "740.7 rounds up")
	assertAmount(t, 1000, ledger.Commission(amt(20000), amt(5)))
	assertAmount(t, 0, ledger.DefaultCommission(decimal.Zero))
}

func TestTotalBillAmount_IncludesRTOAndExtraCharges(t *testing.T) {
	// Regression guard for the canonical bill formula:
	// freight + detention + rto + extra - mamul.
	b := models.Bill{
		Trips:        []models.BillTrip{{Freight: amt(30000)}, {Freight: amt(20000)}},
		TotalFreight: amt(1), // ignored when trips are present
		Detention:    amt(2000),
		RTOAmount:    amt(750),
		ExtraCharges: amt(250),
		Mamul:        amt(500),
	}

	assertAmount(t, 50000, ledger.BillFreight(b))
	assertAmount(t, 52500, ledger.TotalBillAmount(b))
}

func TestTotalBillAmount_WithoutTripsUsesStoredFreight(t *testing.T) {
	b := models.Bill{TotalFreight: amt(40000), Mamul: amt(400)}
	assertAmount(t, 39600, ledger.TotalBillAmount(b))
}

func TestTotalBillAmount_NegativeInputsPassThrough(t *testing.T) {
	b := models.Bill{TotalFreight: amt(100), Mamul: amt(300)}
	assertAmount(t, -200, ledger.TotalBillAmount(b))
}

func TestMemoAmounts(t *testing.T) {
	m := scenarioMemo()
	m.Detention = amt(1000)
	m.RTOAmount = amt(200)
	m.ExtraCharge = amt(100)

	// document total printed on the voucher
	assertAmount(t, 21900, ledger.TotalMemoAmount(m))
	// payable to the supplier
	assertAmount(t, 19800, ledger.MemoNetAmount(m))
}

func TestMemoPaid_FallsBackToPaidAmount(t *testing.T) {
	m := models.Memo{PaidAmount: amt(5000)}
	assertAmount(t, 5000, ledger.MemoPaid(m))

	m.Payments = []models.MemoPayment{{Amount: amt(1000)}, {Amount: amt(2000)}}
	assertAmount(t, 3000, ledger.MemoPaid(m))
}

func TestFormatCurrency(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"₹0":           decimal.Zero,
		"₹999":         amt(999),
		"₹41,500":      amt(41500),
		"₹1,23,456":    amt(123456),
		"₹12,34,567":   amt(1234567),
		"₹1,00,00,000": amt(10000000),
		"-₹1,500":      amt(-1500),
		"₹1,001":       decimal.RequireFromString("1000.5"),
	}
	for want, in := range cases {
		assert.Equal(t, want, ledger.FormatCurrency(in), "input %s", in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/01/2024", ledger.FormatDate("2024-01-05"))
	assert.Equal(t, "05/01/2024", ledger.FormatDate("2024-01-05T10:30:00Z"))
	assert.Equal(t, "not a date", ledger.FormatDate("not a date"))
}
