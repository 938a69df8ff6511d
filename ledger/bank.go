package ledger

import (
	"strings"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// BankAdvancePrefix marks an embedded advance that was copied from a bank
// entry: its id is BankAdvancePrefix + the bank entry id.
const BankAdvancePrefix = "bank_"

// bankResolver links bank entries to bills or memos. An entry whose related
// id names a document belongs to it; otherwise the related id and name are
// matched against document numbers, and only an unambiguous match counts.
type bankResolver struct {
	ids map[string]bool
	nos map[string][]string
}

func newBankResolver() *bankResolver {
	return &bankResolver{ids: map[string]bool{}, nos: map[string][]string{}}
}

func (r *bankResolver) add(id, no string) {
	r.ids[id] = true
	if key := NormalizeNo(no); key != "" {
		r.nos[key] = append(r.nos[key], id)
	}
}

func (r *bankResolver) resolve(e models.BankEntry) (string, bool) {
	if e.RelatedID != nil && r.ids[*e.RelatedID] {
		return *e.RelatedID, true
	}

	matches := map[string]bool{}
	for _, candidate := range []*string{e.RelatedID, e.RelatedName} {
		if candidate == nil {
			continue
		}
		for _, id := range r.nos[NormalizeNo(*candidate)] {
			matches[id] = true
		}
	}
	if len(matches) != 1 {
		return "", false
	}
	for id := range matches {
		return id, true
	}
	return "", false
}

// link groups accepted, positive bank entries by the document they resolve to.
func (r *bankResolver) link(entries []models.BankEntry, accept func(models.BankEntry) bool) map[string][]models.BankEntry {
	out := map[string][]models.BankEntry{}
	for _, e := range entries {
		if !e.Amount.IsPositive() || !accept(e) {
			continue
		}
		if id, ok := r.resolve(e); ok {
			out[id] = append(out[id], e)
		}
	}
	return out
}

// partyBankEntry accepts money received against a bill.
func partyBankEntry(e models.BankEntry) bool {
	return e.Type == models.BankCredit &&
		(e.Category == models.CategoryBill || e.Category == models.CategoryAdvance)
}

// supplierBankEntry accepts money paid against a memo.
func supplierBankEntry(e models.BankEntry) bool {
	return e.Type == models.BankDebit &&
		(e.Category == models.CategoryMemo || e.Category == models.CategoryAdvance)
}

// LinkedDocument resolves a bank entry to the bill or memo whose ledger
// shows it. Credits resolve against bills and debits against memos; ok is
// false for entries no ledger shows.
func LinkedDocument(e models.BankEntry, bills []models.Bill, memos []models.Memo) (kind models.OwnerKind, docID string, ok bool) {
	if !e.Amount.IsPositive() {
		return "", "", false
	}
	resolver := newBankResolver()
	switch {
	case partyBankEntry(e):
		kind = models.OwnerParty
		for _, b := range bills {
			resolver.add(b.ID, b.BillNo)
		}
	case supplierBankEntry(e):
		kind = models.OwnerSupplier
		for _, m := range memos {
			resolver.add(m.ID, m.MemoNo)
		}
	default:
		return "", "", false
	}
	docID, ok = resolver.resolve(e)
	if !ok {
		return "", "", false
	}
	return kind, docID, true
}

// NormalizeNo is the key bill and memo numbers are matched on: upper case
// with all whitespace removed.
func NormalizeNo(no string) string {
	return strings.ToUpper(strings.Join(strings.Fields(no), ""))
}

// embeddedRef is an advance or payment recorded on the document itself.
type embeddedRef struct {
	id     string
	date   string
	amount decimal.Decimal
	link   string // bank entry id the record references, if any
}

// unmatchedBankEntries drops bank entries that duplicate an embedded record
// and returns the rest. Explicit links win over the amount+date heuristic,
// and each embedded record absorbs at most one bank entry.
func unmatchedBankEntries(bank []models.BankEntry, refs []embeddedRef) []models.BankEntry {
	if len(bank) == 0 {
		return nil
	}
	claimed := make([]bool, len(refs))
	matched := make([]bool, len(bank))

	for bi, e := range bank {
		for ri, ref := range refs {
			if claimed[ri] {
				continue
			}
			if ref.id == BankAdvancePrefix+e.ID || (ref.link != "" && ref.link == e.ID) {
				claimed[ri], matched[bi] = true, true
				break
			}
		}
	}
	for bi, e := range bank {
		if matched[bi] {
			continue
		}
		for ri, ref := range refs {
			if claimed[ri] {
				continue
			}
			if ref.date == dateKey(e.Date) && ref.amount.Equal(e.Amount) {
				claimed[ri], matched[bi] = true, true
				break
			}
		}
	}

	var out []models.BankEntry
	for bi, e := range bank {
		if !matched[bi] {
			out = append(out, e)
		}
	}
	return out
}

func advanceRefs(d document) []embeddedRef {
	var refs []embeddedRef
	for _, a := range d.advances {
		if a.Amount.IsPositive() {
			refs = append(refs, embeddedRef{id: a.ID, date: dateKey(a.Date), amount: a.Amount})
		}
	}
	return refs
}

func paymentRefs(d document) []embeddedRef {
	refs := make([]embeddedRef, 0, len(d.payments))
	for _, g := range d.payments {
		refs = append(refs, embeddedRef{id: g.id, date: g.date, amount: g.amount, link: g.link})
	}
	return refs
}

// extraBank splits the bank entries linked to a document into advances and
// payments, keeping only those the document does not already record.
func extraBank(d document, linked []models.BankEntry) (advances, payments []models.BankEntry) {
	var adv, pay []models.BankEntry
	for _, e := range linked {
		if e.Category == models.CategoryAdvance {
			adv = append(adv, e)
		} else {
			pay = append(pay, e)
		}
	}
	return unmatchedBankEntries(adv, advanceRefs(d)), unmatchedBankEntries(pay, paymentRefs(d))
}

// Banked maps a bill or memo id to the bank money its ledger debits on top
// of the advances and payments saved on the document.
type Banked map[string]decimal.Decimal

// Of returns the banked amount of one document, zero when none.
func (b Banked) Of(id string) decimal.Decimal {
	if v, ok := b[id]; ok {
		return v
	}
	return decimal.Zero
}

// BankedBills resolves bank credits against every bill the way the party
// ledger does and sums what each bill has received through the bank.
func BankedBills(bills []models.Bill, bankEntries []models.BankEntry) Banked {
	resolver := newBankResolver()
	for _, b := range bills {
		resolver.add(b.ID, b.BillNo)
	}
	linked := resolver.link(bankEntries, partyBankEntry)
	out := Banked{}
	for _, b := range bills {
		if len(linked[b.ID]) == 0 {
			continue
		}
		if total := bankTotal(extraBank(billDocument(b), linked[b.ID])); total.IsPositive() {
			out[b.ID] = total
		}
	}
	return out
}

// BankedMemos is the memo counterpart of BankedBills.
func BankedMemos(memos []models.Memo, bankEntries []models.BankEntry) Banked {
	resolver := newBankResolver()
	for _, m := range memos {
		resolver.add(m.ID, m.MemoNo)
	}
	linked := resolver.link(bankEntries, supplierBankEntry)
	out := Banked{}
	for _, m := range memos {
		if len(linked[m.ID]) == 0 {
			continue
		}
		if total := bankTotal(extraBank(memoDocument(m), linked[m.ID])); total.IsPositive() {
			out[m.ID] = total
		}
	}
	return out
}

func bankTotal(groups ...[]models.BankEntry) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		for _, e := range g {
			total = total.Add(e.Amount)
		}
	}
	return total
}
