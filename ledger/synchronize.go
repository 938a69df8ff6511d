package ledger

import (
	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// RecalculateBill recomputes a bill's balance from its trips, charges,
// advances and payments, ignoring the stored balance.
func RecalculateBill(b models.Bill) decimal.Decimal {
	return recalculateBill(b, decimal.Zero)
}

func recalculateBill(b models.Bill, banked decimal.Decimal) decimal.Decimal {
	return clampZero(TotalBillAmount(b).
		Sub(models.SumAdvances(b.Advances)).
		Sub(BillSettled(b)).
		Sub(banked))
}

// RecalculateMemo recomputes a memo's balance, ignoring the stored balance.
func RecalculateMemo(m models.Memo) decimal.Decimal {
	return recalculateMemo(m, decimal.Zero)
}

func recalculateMemo(m models.Memo, banked decimal.Decimal) decimal.Decimal {
	return clampZero(MemoNetAmount(m).
		Sub(models.SumAdvances(m.Advances)).
		Sub(MemoPaid(m)).
		Sub(banked))
}

// FixBill returns the bill with total freight, balance and status derived
// from its source fields.
func FixBill(b models.Bill) models.Bill {
	return FixBankedBill(b, decimal.Zero)
}

// FixBankedBill is FixBill for a bill that has also received banked money
// through bank entries linked to it (see BankedBills).
func FixBankedBill(b models.Bill, banked decimal.Decimal) models.Bill {
	out := b.Clone()
	out.TotalFreight = BillFreight(b)
	out.Balance = recalculateBill(b, banked)
	out.Status = resolveBillStatus(b, out.Balance, banked)
	return out
}

func resolveBillStatus(b models.Bill, balance, banked decimal.Decimal) models.BillStatus {
	if balance.IsPositive() {
		return models.BillPending
	}
	if b.Status.Terminal() {
		return b.Status
	}
	deductions := decimal.Zero
	for _, p := range b.Payments {
		deductions = deductions.Add(p.TotalDeductions())
	}
	switch {
	case deductions.IsPositive():
		return models.BillSettledWithDeductions
	case len(b.Payments) > 0 || models.SumAdvances(b.Advances).IsPositive() || banked.IsPositive():
		return models.BillFullyPaid
	}
	if b.Status == "" {
		return models.BillPending
	}
	return b.Status
}

// FixMemo returns the memo with paid amount, balance and status derived from
// its source fields.
func FixMemo(m models.Memo) models.Memo {
	return FixBankedMemo(m, decimal.Zero)
}

// FixBankedMemo is FixMemo for a memo also paid through linked bank entries
// (see BankedMemos). PaidAmount only counts installments saved on the memo.
func FixBankedMemo(m models.Memo, banked decimal.Decimal) models.Memo {
	out := m.Clone()
	out.PaidAmount = MemoPaid(m)
	out.Balance = recalculateMemo(out, banked)
	switch {
	case out.Balance.IsPositive():
		out.Status = models.MemoPending
	case out.PaidAmount.IsPositive() || models.SumAdvances(m.Advances).IsPositive() || banked.IsPositive():
		out.Status = models.MemoPaid
	case out.Status == "":
		out.Status = models.MemoPending
	}
	return out
}

// SynchronizePartyBalance is the sum of recalculated balances of the party's
// pending bills. Bank entries linked to a bill count as received against it.
func SynchronizePartyBalance(p models.Party, bills []models.Bill, bankEntries []models.BankEntry) decimal.Decimal {
	banked := BankedBills(bills, bankEntries)
	fixed := make([]models.Bill, len(bills))
	for i, b := range bills {
		fixed[i] = FixBankedBill(b, banked.Of(b.ID))
	}
	balance, _ := partyTotals(p, fixed)
	return balance
}

// partyTotals sums bills that are already fixed.
func partyTotals(p models.Party, bills []models.Bill) (decimal.Decimal, int) {
	balance := decimal.Zero
	trips := 0
	for _, b := range bills {
		if !BillBelongsTo(b, p) || b.Status != models.BillPending {
			continue
		}
		balance = balance.Add(b.Balance)
		trips += len(b.Trips)
	}
	return balance, trips
}

// SynchronizeSupplierBalance is the sum of recalculated balances of the
// supplier's pending memos.
func SynchronizeSupplierBalance(s models.Supplier, memos []models.Memo, bankEntries []models.BankEntry) decimal.Decimal {
	banked := BankedMemos(memos, bankEntries)
	fixed := make([]models.Memo, len(memos))
	for i, m := range memos {
		fixed[i] = FixBankedMemo(m, banked.Of(m.ID))
	}
	balance, _ := supplierTotals(s, fixed)
	return balance
}

func supplierTotals(s models.Supplier, memos []models.Memo) (decimal.Decimal, int) {
	balance := decimal.Zero
	trips := 0
	for _, m := range memos {
		if !MemoBelongsTo(m, s) || m.Status != models.MemoPending {
			continue
		}
		balance = balance.Add(m.Balance)
		trips++
	}
	return balance, trips
}

// SyncResult holds corrected bills and parties plus the ids that changed.
type SyncResult struct {
	Bills          []models.Bill
	Parties        []models.Party
	ChangedBills   []string
	ChangedParties []string
}

// FixAllBalances recomputes every bill, counting linked bank entries, and
// every party aggregate. Running it on its own output changes nothing.
func FixAllBalances(bills []models.Bill, parties []models.Party, bankEntries []models.BankEntry) SyncResult {
	res := SyncResult{
		Bills:   make([]models.Bill, len(bills)),
		Parties: make([]models.Party, len(parties)),
	}
	banked := BankedBills(bills, bankEntries)
	for i, b := range bills {
		fixed := FixBankedBill(b, banked.Of(b.ID))
		if billChanged(b, fixed) {
			res.ChangedBills = append(res.ChangedBills, b.ID)
		}
		res.Bills[i] = fixed
	}
	for i, p := range parties {
		balance, trips := partyTotals(p, res.Bills)
		fixed := p
		fixed.Balance = balance
		fixed.ActiveTrips = trips
		if !p.Balance.Equal(balance) || p.ActiveTrips != trips {
			res.ChangedParties = append(res.ChangedParties, p.ID)
		}
		res.Parties[i] = fixed
	}
	return res
}

func billChanged(before, after models.Bill) bool {
	return !before.Balance.Equal(after.Balance) ||
		!before.TotalFreight.Equal(after.TotalFreight) ||
		before.Status != after.Status
}

// MemoSyncResult holds corrected memos and suppliers plus the ids that changed.
type MemoSyncResult struct {
	Memos            []models.Memo
	Suppliers        []models.Supplier
	ChangedMemos     []string
	ChangedSuppliers []string
}

// FixAllMemoBalances is the memo and supplier counterpart of FixAllBalances.
func FixAllMemoBalances(memos []models.Memo, suppliers []models.Supplier, bankEntries []models.BankEntry) MemoSyncResult {
	res := MemoSyncResult{
		Memos:     make([]models.Memo, len(memos)),
		Suppliers: make([]models.Supplier, len(suppliers)),
	}
	banked := BankedMemos(memos, bankEntries)
	for i, m := range memos {
		fixed := FixBankedMemo(m, banked.Of(m.ID))
		if !m.Balance.Equal(fixed.Balance) || !m.PaidAmount.Equal(fixed.PaidAmount) || m.Status != fixed.Status {
			res.ChangedMemos = append(res.ChangedMemos, m.ID)
		}
		res.Memos[i] = fixed
	}
	for i, s := range suppliers {
		balance, trips := supplierTotals(s, res.Memos)
		fixed := s
		fixed.Balance = balance
		fixed.ActiveTrips = trips
		if !s.Balance.Equal(balance) || s.ActiveTrips != trips {
			res.ChangedSuppliers = append(res.ChangedSuppliers, s.ID)
		}
		res.Suppliers[i] = fixed
	}
	return res
}
