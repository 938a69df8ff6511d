package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, amt(want).String(), got.String(), msgAndArgs...)
}

func seqIDs(prefix string) ledger.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var createdAt = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func sharma() models.Party {
	return models.Party{ID: "party-1", Name: "Sharma Traders", CreatedAt: createdAt}
}

// scenarioBill is the bill of the first worked example: freight 50000,
// detention 2000, mamul 500 and an advance of 10000 taken on creation.
func scenarioBill() models.Bill {
	b := models.Bill{
		ID:        "bill-1",
		BillNo:    "101",
		BillDate:  "2024-01-05",
		PartyID:   "party-1",
		PartyName: "Sharma Traders",
		Trips: []models.BillTrip{
			{ID: "trip-1", CNNo: "CN-11", LoadingDate: "2024-01-04", From: "Pune", To: "Mumbai", Vehicle: "MH12 AB 1234", Freight: amt(50000)},
		},
		TotalFreight: amt(50000),
		Detention:    amt(2000),
		Mamul:        amt(500),
		Advances: []models.Advance{
			{ID: "adv-1", Amount: amt(10000), Date: "2024-01-06"},
		},
		Status:    models.BillPending,
		CreatedAt: createdAt,
	}
	b.Balance = ledger.RecalculateBill(b)
	return b
}

func secondBill() models.Bill {
	b := models.Bill{
		ID:           "bill-2",
		BillNo:       "102",
		BillDate:     "2024-01-10",
		PartyID:      "party-1",
		PartyName:    "Sharma Traders",
		Trips:        []models.BillTrip{{ID: "trip-2", Freight: amt(30000)}},
		TotalFreight: amt(30000),
		Status:       models.BillPending,
		CreatedAt:    createdAt.Add(time.Hour),
	}
	b.Balance = ledger.RecalculateBill(b)
	return b
}

func scenarioMemo() models.Memo {
	m := models.Memo{
		ID:           "memo-1",
		MemoNo:       "M-7",
		LoadingDate:  "2024-02-01",
		SupplierID:   "sup-1",
		SupplierName: "Patil Roadlines",
		Vehicle:      "MH12 XY 9876",
		Freight:      amt(20000),
		Commission:   ledger.DefaultCommission(amt(20000)),
		Mamul:        amt(300),
		Status:       models.MemoPending,
		CreatedAt:    createdAt,
	}
	m.Balance = ledger.RecalculateMemo(m)
	return m
}

func patil() models.Supplier {
	return models.Supplier{ID: "sup-1", Name: "Patil Roadlines", CreatedAt: createdAt}
}

func strPtr(s string) *string { return &s }

func entryIDs(l models.Ledger) []string {
	ids := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		ids[i] = e.ID
	}
	return ids
}
