package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

type bucket int

const (
	bucketPending bucket = iota
	bucketPartial
	bucketPaid
)

type paymentGroup struct {
	id      string
	date    string
	link    string
	amount  decimal.Decimal
	entries []models.LedgerEntry
}

// document is a bill or memo reduced to what the ledger walk needs.
type document struct {
	id        string
	no        string
	date      string
	createdAt time.Time
	credit    models.LedgerEntry
	advances  []models.Advance
	payments  []paymentGroup
	bucket    bucket
}

// BuildPartyLedger derives a party's running account from its bills and the
// bank entries linked to them. Bills of other parties are ignored, as are
// bank entries that resolve to no bill of this party.
func BuildPartyLedger(party models.Party, bills []models.Bill, bankEntries []models.BankEntry) models.Ledger {
	resolver := newBankResolver()
	var docs []document
	for _, b := range bills {
		resolver.add(b.ID, b.BillNo)
		if !BillBelongsTo(b, party) {
			continue
		}
		docs = append(docs, billDocument(b))
	}

	linked := resolver.link(bankEntries, partyBankEntry)
	return assemble(models.OwnerParty, party.ID, party.Name, docs, linked)
}

// BuildSupplierLedger derives a supplier's running account from its memos
// and the bank entries linked to them.
func BuildSupplierLedger(supplier models.Supplier, memos []models.Memo, bankEntries []models.BankEntry) models.Ledger {
	resolver := newBankResolver()
	var docs []document
	for _, m := range memos {
		resolver.add(m.ID, m.MemoNo)
		if !MemoBelongsTo(m, supplier) {
			continue
		}
		docs = append(docs, memoDocument(m))
	}

	linked := resolver.link(bankEntries, supplierBankEntry)
	return assemble(models.OwnerSupplier, supplier.ID, supplier.Name, docs, linked)
}

// BillBelongsTo matches on party id. Bills saved before the party had an id
// fall back to a case-insensitive name match.
func BillBelongsTo(b models.Bill, p models.Party) bool {
	if b.PartyID != "" {
		return b.PartyID == p.ID
	}
	return sameName(b.PartyName, p.Name)
}

// MemoBelongsTo matches on supplier id, falling back to the supplier name.
func MemoBelongsTo(m models.Memo, s models.Supplier) bool {
	if m.SupplierID != "" {
		return m.SupplierID == s.ID
	}
	return sameName(m.SupplierName, s.Name)
}

func sameName(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func billDocument(b models.Bill) document {
	d := document{
		id:        b.ID,
		no:        b.BillNo,
		date:      dateKey(b.BillDate),
		createdAt: b.CreatedAt,
		advances:  b.Advances,
		credit: models.LedgerEntry{
			ID:           b.ID + ":credit",
			Type:         models.EntryBillCredit,
			EntryType:    models.SideCredit,
			Date:         dateKey(b.BillDate),
			RefNo:        b.BillNo,
			RefDate:      dateKey(b.BillDate),
			Particulars:  billParticulars(b),
			CreditAmount: TotalBillAmount(b),
			DebitAmount:  decimal.Zero,
			RelatedID:    b.ID,
			Status:       string(b.Status),
		},
	}
	for _, p := range b.Payments {
		d.payments = append(d.payments, paymentGroup{
			id:      p.ID,
			date:    dateKey(p.PaymentDate),
			link:    p.Reference,
			amount:  p.ReceivedAmount,
			entries: paymentEntries(b, p),
		})
	}

	switch {
	case b.Status.Terminal():
		d.bucket = bucketPaid
	case models.SumAdvances(b.Advances).IsPositive() || len(b.Payments) > 0:
		d.bucket = bucketPartial
	}
	return d
}

func billParticulars(b models.Bill) string {
	switch len(b.Trips) {
	case 0:
		return "Bill No. " + b.BillNo
	case 1:
		t := b.Trips[0]
		if t.From != "" || t.To != "" {
			return fmt.Sprintf("Bill No. %s (%s to %s)", b.BillNo, t.From, t.To)
		}
		return fmt.Sprintf("Bill No. %s (1 trip)", b.BillNo)
	default:
		return fmt.Sprintf("Bill No. %s (%d trips)", b.BillNo, len(b.Trips))
	}
}

func memoDocument(m models.Memo) document {
	particulars := "Memo No. " + m.MemoNo
	if m.Vehicle != "" {
		particulars += " (" + m.Vehicle + ")"
	}
	d := document{
		id:        m.ID,
		no:        m.MemoNo,
		date:      dateKey(m.LoadingDate),
		createdAt: m.CreatedAt,
		advances:  m.Advances,
		credit: models.LedgerEntry{
			ID:           m.ID + ":credit",
			Type:         models.EntryMemoCredit,
			EntryType:    models.SideCredit,
			Date:         dateKey(m.LoadingDate),
			RefNo:        m.MemoNo,
			RefDate:      dateKey(m.LoadingDate),
			Particulars:  particulars,
			CreditAmount: MemoNetAmount(m),
			DebitAmount:  decimal.Zero,
			RelatedID:    m.ID,
			Status:       string(m.Status),
		},
	}
	payments := m.Payments
	if len(payments) == 0 && m.PaidAmount.IsPositive() {
		date := m.LoadingDate
		if m.PaidDate != nil {
			date = *m.PaidDate
		}
		payments = []models.MemoPayment{{ID: "paid", Date: date, Amount: m.PaidAmount}}
	}
	for _, p := range payments {
		if !p.Amount.IsPositive() {
			continue
		}
		particulars := "Payment made"
		if p.Reference != "" {
			particulars += " (" + p.Reference + ")"
		}
		d.payments = append(d.payments, paymentGroup{
			id:     p.ID,
			date:   dateKey(p.Date),
			link:   p.Reference,
			amount: p.Amount,
			entries: []models.LedgerEntry{{
				ID:               m.ID + ":pay:" + p.ID,
				Type:             models.EntryPaymentDebit,
				EntryType:        models.SideDebit,
				Date:             dateKey(p.Date),
				RefNo:            m.MemoNo,
				RefDate:          dateKey(m.LoadingDate),
				Particulars:      particulars,
				CreditAmount:     decimal.Zero,
				DebitAmount:      p.Amount,
				RelatedID:        m.ID,
				RelatedPaymentID: p.ID,
			}},
		})
	}

	switch {
	case m.Status == models.MemoPaid:
		d.bucket = bucketPaid
	case models.SumAdvances(m.Advances).IsPositive() || MemoPaid(m).IsPositive():
		d.bucket = bucketPartial
	}
	return d
}

func sortDocuments(docs []document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.date != b.date {
			return a.date < b.date
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		if a.no != b.no {
			return a.no < b.no
		}
		return a.id < b.id
	})
}

func assemble(kind models.OwnerKind, ownerID, name string, docs []document, linked map[string][]models.BankEntry) models.Ledger {
	sortDocuments(docs)

	entries := make([]models.LedgerEntry, 0, len(docs)*2)
	l := models.Ledger{
		ID:              models.LedgerID(kind, ownerID),
		OwnerKind:       kind,
		OwnerID:         ownerID,
		Name:            name,
		TotalBillAmount: decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	for _, d := range docs {
		entries = append(entries, d.credit)

		bankAdvances, bankPayments := extraBank(d, linked[d.id])
		entries = append(entries, advanceEntries(d, bankAdvances)...)
		entries = append(entries, paymentGroupEntries(d, bankPayments)...)

		switch d.bucket {
		case bucketPaid:
			l.PaidBills++
		case bucketPartial:
			l.PartiallyPaidBills++
		default:
			l.PendingBills++
		}
	}

	running := decimal.Zero
	for i := range entries {
		e := &entries[i]
		running = running.Add(e.CreditAmount).Sub(e.DebitAmount)
		e.RunningBalance = running
		switch e.Type {
		case models.EntryBillCredit, models.EntryMemoCredit:
			l.TotalBillAmount = l.TotalBillAmount.Add(e.CreditAmount)
		case models.EntryPaymentDebit:
			l.TotalPaid = l.TotalPaid.Add(e.DebitAmount)
		case models.EntryDeductionDebit:
			l.TotalDeductions = l.TotalDeductions.Add(e.DebitAmount)
		}
	}
	l.Entries = entries
	l.OutstandingBalance = running
	return l
}

type datedEntry struct {
	date    string
	entries []models.LedgerEntry
}

func sortDated(items []datedEntry) []models.LedgerEntry {
	sort.SliceStable(items, func(i, j int) bool { return items[i].date < items[j].date })
	var out []models.LedgerEntry
	for _, it := range items {
		out = append(out, it.entries...)
	}
	return out
}

// advanceEntries lists the document's advances and the bank advances it
// does not already record, by date.
func advanceEntries(d document, bank []models.BankEntry) []models.LedgerEntry {
	var items []datedEntry
	for i, a := range d.advances {
		if !a.Amount.IsPositive() {
			continue
		}
		id := a.ID
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}
		particulars := "Advance"
		if a.Narration != "" {
			particulars += " - " + a.Narration
		}
		items = append(items, datedEntry{date: dateKey(a.Date), entries: []models.LedgerEntry{
			debitEntry(d, d.id+":adv:"+id, models.EntryAdvanceDebit, a.Date, particulars, a.Amount, ""),
		}})
	}
	for _, e := range bank {
		items = append(items, datedEntry{date: dateKey(e.Date), entries: []models.LedgerEntry{
			debitEntry(d, d.id+":bank:"+e.ID, models.EntryAdvanceDebit, e.Date, bankParticulars("Advance", e), e.Amount, ""),
		}})
	}
	return sortDated(items)
}

func paymentGroupEntries(d document, bank []models.BankEntry) []models.LedgerEntry {
	var items []datedEntry
	for _, g := range d.payments {
		if len(g.entries) > 0 {
			items = append(items, datedEntry{date: g.date, entries: g.entries})
		}
	}
	for _, e := range bank {
		items = append(items, datedEntry{date: dateKey(e.Date), entries: []models.LedgerEntry{
			debitEntry(d, d.id+":bank:"+e.ID, models.EntryPaymentDebit, e.Date, bankParticulars("Payment", e), e.Amount, e.ID),
		}})
	}
	return sortDated(items)
}

func debitEntry(d document, id string, typ models.LedgerEntryType, date, particulars string, amount decimal.Decimal, paymentID string) models.LedgerEntry {
	return models.LedgerEntry{
		ID:               id,
		Type:             typ,
		EntryType:        models.SideDebit,
		Date:             dateKey(date),
		RefNo:            d.no,
		RefDate:          d.date,
		Particulars:      particulars,
		CreditAmount:     decimal.Zero,
		DebitAmount:      amount,
		RelatedID:        d.id,
		RelatedPaymentID: paymentID,
	}
}

func bankParticulars(prefix string, e models.BankEntry) string {
	if e.Narration != "" {
		return prefix + " (bank) - " + e.Narration
	}
	return prefix + " (bank)"
}
