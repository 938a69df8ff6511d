package ledger_test

import (
	"testing"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledBill(t *testing.T) models.Bill {
	t.Helper()
	res, err := ledger.ApplyBillPayment(secondBill(), models.PaymentForm{
		PaymentDate:    "2024-01-25",
		ReceivedAmount: amt(30000),
	}, seqIDs("pay"), paidAt)
	require.NoError(t, err)
	require.Equal(t, models.BillFullyPaid, res.UpdatedBill.Status)
	return res.UpdatedBill
}

func TestRecalculateBill_IgnoresStoredBalance(t *testing.T) {
	b := scenarioBill()
	b.Balance = amt(999999)

	assertAmount(t, 41500, ledger.RecalculateBill(b))
}

func TestFixBill_RevertsTerminalStatusWhenMoneyIsOwed(t *testing.T) {
	b := scenarioBill()
	b.Status = models.BillFullyPaid
	b.Balance = amt(0)

	fixed := ledger.FixBill(b)

	assert.Equal(t, models.BillPending, fixed.Status)
	assertAmount(t, 41500, fixed.Balance)
	assert.Equal(t, models.BillFullyPaid, b.Status, "input is untouched")
}

func TestFixBill_TotalFreightFollowsTrips(t *testing.T) {
	b := scenarioBill()
	b.TotalFreight = amt(1)
	b.Trips = append(b.Trips, models.BillTrip{ID: "trip-x", Freight: amt(5000)})

	fixed := ledger.FixBill(b)

	assertAmount(t, 55000, fixed.TotalFreight)
	assertAmount(t, 46500, fixed.Balance)
}

func TestFixBill_SettlesWhenNothingIsOwed(t *testing.T) {
	b := scenarioBill()
	b.Advances = append(b.Advances, models.Advance{ID: "adv-2", Amount: amt(41500), Date: "2024-01-08"})

	fixed := ledger.FixBill(b)

	assertAmount(t, 0, fixed.Balance)
	assert.Equal(t, models.BillFullyPaid, fixed.Status)
}

func TestFixAllBalances(t *testing.T) {
	// GIVEN: bill-1 with a corrupted balance and bill-2 fully paid
	// WHEN: balances are fixed
	// THEN: the party balance counts only pending bills, and a second run
	//       changes nothing

	broken := scenarioBill()
	broken.Balance = amt(12)
	party := sharma()

	res := ledger.FixAllBalances([]models.Bill{broken, settledBill(t)}, []models.Party{party}, nil)

	assert.Equal(t, []string{"bill-1"}, res.ChangedBills)
	assert.Equal(t, []string{"party-1"}, res.ChangedParties)
	assertAmount(t, 41500, res.Bills[0].Balance)
	assertAmount(t, 41500, res.Parties[0].Balance)
	assert.Equal(t, 1, res.Parties[0].ActiveTrips)

	again := ledger.FixAllBalances(res.Bills, res.Parties, nil)
	assert.Empty(t, again.ChangedBills)
	assert.Empty(t, again.ChangedParties)
}

func TestSynchronizePartyBalance_IgnoresOtherParties(t *testing.T) {
	other := secondBill()
	other.PartyID = "party-2"

	balance := ledger.SynchronizePartyBalance(sharma(), []models.Bill{scenarioBill(), other}, nil)

	assertAmount(t, 41500, balance)
}

func TestFixMemo(t *testing.T) {
	t.Run("advance and payment settle the memo", func(t *testing.T) {
		m := scenarioMemo()
		m.Advances = []models.Advance{{ID: "a-1", Amount: amt(8500), Date: "2024-02-01"}}
		m.Payments = []models.MemoPayment{{ID: "p-1", Date: "2024-02-05", Amount: amt(10000)}}

		fixed := ledger.FixMemo(m)

		assertAmount(t, 0, fixed.Balance)
		assertAmount(t, 10000, fixed.PaidAmount)
		assert.Equal(t, models.MemoPaid, fixed.Status)
	})

	t.Run("outstanding memo is pending", func(t *testing.T) {
		m := scenarioMemo()
		m.Status = models.MemoPaid

		fixed := ledger.FixMemo(m)

		assertAmount(t, 18500, fixed.Balance)
		assert.Equal(t, models.MemoPending, fixed.Status)
	})

	t.Run("extra charges are payable", func(t *testing.T) {
		m := scenarioMemo()
		m.Detention = amt(1000)
		m.RTOAmount = amt(250)
		m.ExtraCharge = amt(250)

		assertAmount(t, 20000, ledger.FixMemo(m).Balance)
	})
}

func TestFixAllMemoBalances(t *testing.T) {
	open := scenarioMemo()
	open.Balance = amt(0)
	paid := scenarioMemo()
	paid.ID, paid.MemoNo = "memo-2", "M-8"
	paid.Payments = []models.MemoPayment{{ID: "p-1", Date: "2024-02-05", Amount: amt(18500)}}

	res := ledger.FixAllMemoBalances([]models.Memo{open, paid}, []models.Supplier{patil()}, nil)

	assert.Equal(t, []string{"memo-1", "memo-2"}, res.ChangedMemos)
	assertAmount(t, 18500, res.Suppliers[0].Balance)
	assert.Equal(t, 1, res.Suppliers[0].ActiveTrips)

	again := ledger.FixAllMemoBalances(res.Memos, res.Suppliers, nil)
	assert.Empty(t, again.ChangedMemos)
	assert.Empty(t, again.ChangedSuppliers)
}

func TestFixAllBalances_CountsLinkedBankEntries(t *testing.T) {
	// GIVEN: a bank credit linked to bill-1 by id, and a bank copy of the
	//        advance already saved on the bill
	// THEN: the bill, the party and the ledger agree on what is owed

	bills := []models.Bill{scenarioBill()}
	bank := []models.BankEntry{
		{ID: "bank-1", Date: "2024-01-15", Type: models.BankCredit, Amount: amt(10000), Category: models.CategoryBill, RelatedID: strPtr("bill-1")},
		{ID: "bank-2", Date: "2024-01-06", Type: models.BankCredit, Amount: amt(10000), Category: models.CategoryAdvance, RelatedID: strPtr("bill-1")},
	}

	res := ledger.FixAllBalances(bills, []models.Party{sharma()}, bank)

	assert.Equal(t, []string{"bill-1"}, res.ChangedBills)
	assertAmount(t, 31500, res.Bills[0].Balance)
	assert.Equal(t, models.BillPending, res.Bills[0].Status)
	assertAmount(t, 31500, res.Parties[0].Balance)
	assertAmount(t, 31500, ledger.SynchronizePartyBalance(sharma(), bills, bank))

	l := ledger.BuildPartyLedger(sharma(), res.Bills, bank)
	assert.Equal(t, res.Parties[0].Balance.String(), l.OutstandingBalance.String())

	again := ledger.FixAllBalances(res.Bills, res.Parties, bank)
	assert.Empty(t, again.ChangedBills)
	assert.Empty(t, again.ChangedParties)
}

func TestFixAllBalances_BankPaymentSettlesBill(t *testing.T) {
	bank := []models.BankEntry{
		{ID: "bank-1", Date: "2024-01-20", Type: models.BankCredit, Amount: amt(41500), Category: models.CategoryBill, RelatedName: strPtr(" 101 ")},
	}

	res := ledger.FixAllBalances([]models.Bill{scenarioBill()}, []models.Party{sharma()}, bank)

	assertAmount(t, 0, res.Bills[0].Balance)
	assert.Equal(t, models.BillFullyPaid, res.Bills[0].Status)
	assertAmount(t, 0, res.Parties[0].Balance)
	assert.Equal(t, 0, res.Parties[0].ActiveTrips)
	assertAmount(t, 0, ledger.BuildPartyLedger(sharma(), res.Bills, bank).OutstandingBalance)
}

func TestFixAllMemoBalances_CountsLinkedBankEntries(t *testing.T) {
	bank := []models.BankEntry{
		{ID: "bank-1", Date: "2024-02-03", Type: models.BankDebit, Amount: amt(8500), Category: models.CategoryMemo, RelatedID: strPtr("memo-1")},
		{ID: "bank-2", Date: "2024-02-03", Type: models.BankCredit, Amount: amt(8500), Category: models.CategoryMemo, RelatedID: strPtr("memo-1")},
	}

	res := ledger.FixAllMemoBalances([]models.Memo{scenarioMemo()}, []models.Supplier{patil()}, bank)

	assertAmount(t, 10000, res.Memos[0].Balance)
	assertAmount(t, 0, res.Memos[0].PaidAmount)
	assertAmount(t, 10000, res.Suppliers[0].Balance)
	assertAmount(t, 10000, ledger.SynchronizeSupplierBalance(patil(), []models.Memo{scenarioMemo()}, bank))
	l := ledger.BuildSupplierLedger(patil(), res.Memos, bank)
	assert.Equal(t, res.Suppliers[0].Balance.String(), l.OutstandingBalance.String())
}
