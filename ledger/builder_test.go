package ledger_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ORDERING
// =============================================================================

func TestBuildPartyLedger_OrdersByBillDateRegardlessOfInputOrder(t *testing.T) {
	// GIVEN: bills dated Jan 5 and Jan 10, the first with an advance on Jan 6
	// WHEN: the ledger is rebuilt from input given in reverse order
	// THEN: bill-1 credit, bill-1 advance, bill-2 credit

	bills := []models.Bill{secondBill(), scenarioBill()}

	l := ledger.BuildPartyLedger(sharma(), bills, nil)

	assert.Equal(t, []string{"bill-1:credit", "bill-1:adv:adv-1", "bill-2:credit"}, entryIDs(l))
	assertAmount(t, 51500, l.Entries[0].RunningBalance)
	assertAmount(t, 41500, l.Entries[1].RunningBalance)
	assertAmount(t, 71500, l.Entries[2].RunningBalance)
	assertAmount(t, 71500, l.OutstandingBalance)
	assertAmount(t, 81500, l.TotalBillAmount)
	assert.Equal(t, 1, l.PartiallyPaidBills)
	assert.Equal(t, 1, l.PendingBills)
	assert.Equal(t, 0, l.PaidBills)
}

func TestBuildPartyLedger_SubOrderWithinBill(t *testing.T) {
	// GIVEN: a payment dated before an advance on the same bill
	// THEN: the advance still precedes the payment, and deductions follow
	//       the payment they belong to

	bill := scenarioBill()
	res, err := ledger.ApplyBillPayment(bill, models.PaymentForm{
		PaymentDate:    "2024-01-05",
		ReceivedAmount: amt(20000),
		TDSDeduction:   amt(500),
	}, seqIDs("pay"), paidAt)
	require.NoError(t, err)

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{res.UpdatedBill}, nil)

	types := make([]models.LedgerEntryType, len(l.Entries))
	for i, e := range l.Entries {
		types[i] = e.Type
	}
	assert.Equal(t, []models.LedgerEntryType{
		models.EntryBillCredit,
		models.EntryAdvanceDebit,
		models.EntryPaymentDebit,
		models.EntryDeductionDebit,
	}, types)
	assert.Empty(t, ledger.ValidateLedger(l))
}

func TestBuildPartyLedger_SameDateBillsUseCreationTime(t *testing.T) {
	a := secondBill()
	a.ID, a.BillNo, a.BillDate = "bill-a", "200", "2024-03-01"
	a.CreatedAt = createdAt.Add(2 * time.Hour)
	b := secondBill()
	b.ID, b.BillNo, b.BillDate = "bill-b", "300", "2024-03-01"
	b.CreatedAt = createdAt

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{a, b}, nil)

	assert.Equal(t, []string{"bill-b:credit", "bill-a:credit"}, entryIDs(l))
}

func TestBuildPartyLedger_AdvancesSortedByOwnDate(t *testing.T) {
	bill := scenarioBill()
	bill.Advances = []models.Advance{
		{ID: "late", Amount: amt(1000), Date: "2024-01-09"},
		{ID: "early", Amount: amt(2000), Date: "2024-01-05"},
		{ID: "zero", Amount: amt(0), Date: "2024-01-06"},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{bill}, nil)

	assert.Equal(t, []string{"bill-1:credit", "bill-1:adv:early", "bill-1:adv:late"}, entryIDs(l),
		"zero advances are never emitted")
}

// =============================================================================
// PROPERTIES
// =============================================================================

func richHistory(t *testing.T) ([]models.Bill, []models.BankEntry) {
	t.Helper()
	first, err := ledger.ApplyBillPayment(scenarioBill(), models.PaymentForm{
		PaymentDate:    "2024-01-20",
		ReceivedAmount: amt(40000),
		TDSDeduction:   amt(1500),
	}, seqIDs("pay"), paidAt)
	require.NoError(t, err)

	second := secondBill()
	bank := []models.BankEntry{
		{ID: "bank-1", Date: "2024-01-15", Type: models.BankCredit, Amount: amt(5000), Category: models.CategoryBill, RelatedID: strPtr("bill-2")},
		{ID: "bank-2", Date: "2024-01-16", Type: models.BankCredit, Amount: amt(7000), Category: models.CategoryAdvance, RelatedName: strPtr("102")},
		{ID: "bank-3", Date: "2024-01-17", Type: models.BankCredit, Amount: amt(900), Category: models.CategoryBill, RelatedID: strPtr("no-such-bill")},
	}
	return []models.Bill{second, first.UpdatedBill}, bank
}

func TestBuildPartyLedger_Idempotent(t *testing.T) {
	bills, bank := richHistory(t)

	first := ledger.BuildPartyLedger(sharma(), bills, bank)
	second := ledger.BuildPartyLedger(sharma(), bills, bank)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuildPartyLedger_BalanceConservation(t *testing.T) {
	bills, bank := richHistory(t)

	l := ledger.BuildPartyLedger(sharma(), bills, bank)

	credits, debits := decimal.Zero, decimal.Zero
	for _, e := range l.Entries {
		credits = credits.Add(e.CreditAmount)
		debits = debits.Add(e.DebitAmount)
	}
	assert.Equal(t, credits.Sub(debits).String(), l.OutstandingBalance.String())
	assert.Equal(t, l.Entries[len(l.Entries)-1].RunningBalance.String(), l.OutstandingBalance.String())
	assert.Empty(t, ledger.ValidateLedger(l))
}

func TestBuildPartyLedger_CreditPrecedesEveryEntryOfItsBill(t *testing.T) {
	bills, bank := richHistory(t)

	l := ledger.BuildPartyLedger(sharma(), bills, bank)

	creditAt := map[string]int{}
	for i, e := range l.Entries {
		if e.Type == models.EntryBillCredit {
			creditAt[e.RelatedID] = i
		}
	}
	for i, e := range l.Entries {
		pos, ok := creditAt[e.RelatedID]
		require.True(t, ok, "entry %s has a credit", e.ID)
		assert.LessOrEqual(t, pos, i, "entry %s", e.ID)
	}
}

func TestBuildPartyLedger_BankEntries(t *testing.T) {
	// GIVEN: a bank payment linked by id, a bank advance linked by bill
	//        number, and a bank entry pointing at no bill
	// THEN: the first two are debits on bill-2, the dangling one is ignored

	bills, bank := richHistory(t)

	l := ledger.BuildPartyLedger(sharma(), bills, bank)

	assert.Equal(t, []string{
		"bill-1:credit",
		"bill-1:adv:adv-1",
		"bill-1:pay:pay-1",
		"bill-1:pay:pay-1:ded:pay-2",
		"bill-2:credit",
		"bill-2:bank:bank-2",
		"bill-2:bank:bank-1",
	}, entryIDs(l))
	assert.Equal(t, models.EntryAdvanceDebit, l.Entries[5].Type)
	assert.Equal(t, models.EntryPaymentDebit, l.Entries[6].Type)
	assertAmount(t, 18000, l.OutstandingBalance)
	assertAmount(t, 45000, l.TotalPaid)
	assertAmount(t, 1500, l.TotalDeductions)
	assert.Equal(t, 1, l.PaidBills)
	assert.Equal(t, 1, l.PendingBills, "bank-only receipts do not change the bill's own bucket")
}

func TestBuildPartyLedger_BankAdvanceRecordedTwiceCountsOnce(t *testing.T) {
	// GIVEN: an advance embedded on the bill and the same advance recorded
	//        as a bank entry (same amount and date)
	// THEN: only the embedded advance is emitted

	bill := scenarioBill()
	bank := []models.BankEntry{
		{ID: "b-1", Date: "2024-01-06", Type: models.BankCredit, Amount: amt(10000), Category: models.CategoryAdvance, RelatedID: strPtr("bill-1")},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{bill}, bank)

	assert.Equal(t, []string{"bill-1:credit", "bill-1:adv:adv-1"}, entryIDs(l))
	assertAmount(t, 41500, l.OutstandingBalance)
}

func TestBuildPartyLedger_ExplicitBankLinkWinsOverHeuristic(t *testing.T) {
	bill := scenarioBill()
	bill.Advances = []models.Advance{
		{ID: ledger.BankAdvancePrefix + "b-2", Amount: amt(10000), Date: "2024-01-07"},
	}
	bank := []models.BankEntry{
		{ID: "b-1", Date: "2024-01-07", Type: models.BankCredit, Amount: amt(10000), Category: models.CategoryAdvance, RelatedID: strPtr("bill-1")},
		{ID: "b-2", Date: "2024-01-08", Type: models.BankCredit, Amount: amt(10000), Category: models.CategoryAdvance, RelatedID: strPtr("bill-1")},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{bill}, bank)

	assert.Equal(t, []string{"bill-1:credit", "bill-1:adv:bank_b-2", "bill-1:bank:b-1"}, entryIDs(l))
}

func TestBuildPartyLedger_BankPaymentMatchingBillPaymentCountsOnce(t *testing.T) {
	res, err := ledger.ApplyBillPayment(scenarioBill(), models.PaymentForm{
		PaymentDate:    "2024-01-20",
		ReceivedAmount: amt(41500),
		Reference:      "bank-9",
	}, seqIDs("pay"), paidAt)
	require.NoError(t, err)
	bank := []models.BankEntry{
		{ID: "bank-9", Date: "2024-01-21", Type: models.BankCredit, Amount: amt(41500), Category: models.CategoryBill, RelatedID: strPtr("bill-1")},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{res.UpdatedBill}, bank)

	assertAmount(t, 0, l.OutstandingBalance)
	assert.Len(t, l.Entries, 3)
}

func TestBuildPartyLedger_IgnoresOtherPartiesAndWrongDirection(t *testing.T) {
	other := secondBill()
	other.PartyID, other.PartyName = "party-2", "Kale Logistics"
	bank := []models.BankEntry{
		{ID: "b-1", Date: "2024-01-15", Type: models.BankDebit, Amount: amt(500), Category: models.CategoryBill, RelatedID: strPtr("bill-1")},
		{ID: "b-2", Date: "2024-01-15", Type: models.BankCredit, Amount: amt(500), Category: models.CategoryExpense, RelatedID: strPtr("bill-1")},
		{ID: "b-3", Date: "2024-01-15", Type: models.BankCredit, Amount: amt(500), Category: models.CategoryBill, RelatedID: strPtr("bill-2")},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{scenarioBill(), other}, bank)

	assert.Equal(t, []string{"bill-1:credit", "bill-1:adv:adv-1"}, entryIDs(l))
}

func TestBuildPartyLedger_AmbiguousNumberMatchIsIgnored(t *testing.T) {
	a := scenarioBill()
	b := secondBill()
	b.BillNo = a.BillNo
	bank := []models.BankEntry{
		{ID: "b-1", Date: "2024-01-15", Type: models.BankCredit, Amount: amt(500), Category: models.CategoryBill, RelatedName: strPtr(a.BillNo)},
	}

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{a, b}, bank)

	for _, e := range l.Entries {
		assert.NotContains(t, e.ID, "bank")
	}
}

func TestBuildPartyLedger_NameFallbackForLegacyBills(t *testing.T) {
	bill := scenarioBill()
	bill.PartyID = ""
	bill.PartyName = "  sharma traders "

	l := ledger.BuildPartyLedger(sharma(), []models.Bill{bill}, nil)

	assert.Len(t, l.Entries, 2)
}

func TestBuildPartyLedger_NoBills(t *testing.T) {
	l := ledger.BuildPartyLedger(sharma(), nil, nil)

	assert.Empty(t, l.Entries)
	assertAmount(t, 0, l.OutstandingBalance)
	assert.Equal(t, "party:party-1", l.ID)
	assert.Empty(t, ledger.ValidateLedger(l))
}

// =============================================================================
// SUPPLIER LEDGER
// =============================================================================

func TestBuildSupplierLedger(t *testing.T) {
	// GIVEN: memo freight 20000, commission 1200, mamul 300, no advances
	// THEN: memo credit of 18500

	m := scenarioMemo()
	assertAmount(t, 18500, m.Balance)

	l := ledger.BuildSupplierLedger(patil(), []models.Memo{m}, nil)

	require.Len(t, l.Entries, 1)
	assert.Equal(t, models.EntryMemoCredit, l.Entries[0].Type)
	assertAmount(t, 18500, l.OutstandingBalance)
	assert.Equal(t, 1, l.PendingBills)
}

func TestBuildSupplierLedger_AdvancesPaymentsAndBank(t *testing.T) {
	m := scenarioMemo()
	m.Advances = []models.Advance{{ID: "a-1", Amount: amt(5000), Date: "2024-02-01"}}
	m.Payments = []models.MemoPayment{{ID: "p-1", Date: "2024-02-10", Amount: amt(10000)}}
	m = ledger.FixMemo(m)
	bank := []models.BankEntry{
		// duplicate of the embedded payment
		{ID: "d-1", Date: "2024-02-10", Type: models.BankDebit, Amount: amt(10000), Category: models.CategoryMemo, RelatedName: strPtr("M-7")},
		// extra payment made from the bank only
		{ID: "d-2", Date: "2024-02-12", Type: models.BankDebit, Amount: amt(3500), Category: models.CategoryMemo, RelatedID: strPtr("memo-1")},
		// credits never settle a memo
		{ID: "d-3", Date: "2024-02-12", Type: models.BankCredit, Amount: amt(100), Category: models.CategoryMemo, RelatedID: strPtr("memo-1")},
	}

	l := ledger.BuildSupplierLedger(patil(), []models.Memo{m}, bank)

	assert.Equal(t, []string{"memo-1:credit", "memo-1:adv:a-1", "memo-1:pay:p-1", "memo-1:bank:d-2"}, entryIDs(l))
	assertAmount(t, 0, l.OutstandingBalance)
	assertAmount(t, 13500, l.TotalPaid)
	assert.Equal(t, 1, l.PartiallyPaidBills)
	assert.Empty(t, ledger.ValidateLedger(l))
}

func TestBuildSupplierLedger_LegacyPaidAmount(t *testing.T) {
	m := scenarioMemo()
	m.PaidAmount = amt(18500)
	m.PaidDate = strPtr("2024-02-15")
	m = ledger.FixMemo(m)

	l := ledger.BuildSupplierLedger(patil(), []models.Memo{m}, nil)

	assert.Equal(t, []string{"memo-1:credit", "memo-1:pay:paid"}, entryIDs(l))
	assert.Equal(t, "2024-02-15", l.Entries[1].Date)
	assertAmount(t, 0, l.OutstandingBalance)
	assert.Equal(t, 1, l.PaidBills)
}

func TestLinkedDocument(t *testing.T) {
	bills := []models.Bill{scenarioBill(), secondBill()}
	memos := []models.Memo{scenarioMemo()}

	tests := []struct {
		name     string
		entry    models.BankEntry
		wantKind models.OwnerKind
		wantDoc  string
		wantOK   bool
	}{
		{
			name:     "credit by bill id",
			entry:    models.BankEntry{Type: models.BankCredit, Category: models.CategoryBill, Amount: amt(100), RelatedID: strPtr("bill-2")},
			wantKind: models.OwnerParty, wantDoc: "bill-2", wantOK: true,
		},
		{
			name:     "credit by bill number",
			entry:    models.BankEntry{Type: models.BankCredit, Category: models.CategoryAdvance, Amount: amt(100), RelatedName: strPtr(" 101 ")},
			wantKind: models.OwnerParty, wantDoc: "bill-1", wantOK: true,
		},
		{
			name:     "debit by memo number",
			entry:    models.BankEntry{Type: models.BankDebit, Category: models.CategoryMemo, Amount: amt(100), RelatedName: strPtr("m-7")},
			wantKind: models.OwnerSupplier, wantDoc: "memo-1", wantOK: true,
		},
		{
			name:   "debit never resolves to a bill",
			entry:  models.BankEntry{Type: models.BankDebit, Category: models.CategoryMemo, Amount: amt(100), RelatedID: strPtr("bill-1")},
			wantOK: false,
		},
		{
			name:   "expense is ignored",
			entry:  models.BankEntry{Type: models.BankDebit, Category: models.CategoryExpense, Amount: amt(100), RelatedID: strPtr("memo-1")},
			wantOK: false,
		},
		{
			name:   "zero amount is ignored",
			entry:  models.BankEntry{Type: models.BankCredit, Category: models.CategoryBill, Amount: amt(0), RelatedID: strPtr("bill-1")},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, doc, ok := ledger.LinkedDocument(tt.entry, bills, memos)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantDoc, doc)
		})
	}
}
