package models

import "github.com/shopspring/decimal"

type OwnerKind string

const (
	OwnerParty    OwnerKind = "party"
	OwnerSupplier OwnerKind = "supplier"
)

type LedgerEntryType string

const (
	EntryBillCredit     LedgerEntryType = "bill_credit"
	EntryMemoCredit     LedgerEntryType = "memo_credit"
	EntryAdvanceDebit   LedgerEntryType = "advance_debit"
	EntryPaymentDebit   LedgerEntryType = "payment_debit"
	EntryDeductionDebit LedgerEntryType = "deduction_debit"
)

// Priority orders entry types belonging to the same bill or memo.
func (t LedgerEntryType) Priority() int {
	switch t {
	case EntryBillCredit, EntryMemoCredit:
		return 0
	case EntryAdvanceDebit:
		return 1
	case EntryPaymentDebit:
		return 2
	case EntryDeductionDebit:
		return 3
	}
	return 4
}

type EntrySide string

const (
	SideCredit EntrySide = "credit"
	SideDebit  EntrySide = "debit"
)

// LedgerEntry is one row of a party or supplier running account. RefNo and
// RefDate carry the bill (or memo) number and date the row belongs to.
type LedgerEntry struct {
	ID               string          `json:"id" bson:"id"`
	Type             LedgerEntryType `json:"type" bson:"type"`
	EntryType        EntrySide       `json:"entry_type" bson:"entry_type"`
	Date             string          `json:"date" bson:"date"`
	RefNo            string          `json:"ref_no" bson:"ref_no"`
	RefDate          string          `json:"ref_date" bson:"ref_date"`
	Particulars      string          `json:"particulars" bson:"particulars"`
	CreditAmount     decimal.Decimal `json:"credit_amount" bson:"credit_amount"`
	DebitAmount      decimal.Decimal `json:"debit_amount" bson:"debit_amount"`
	RunningBalance   decimal.Decimal `json:"running_balance" bson:"running_balance"`
	RelatedID        string          `json:"related_id" bson:"related_id"`
	RelatedPaymentID string          `json:"related_payment_id,omitempty" bson:"related_payment_id,omitempty"`
	Status           string          `json:"status,omitempty" bson:"status,omitempty"`
}

// Ledger is the running account of a party (bills) or supplier (memos).
type Ledger struct {
	ID                 string          `json:"id" bson:"_id"`
	OwnerKind          OwnerKind       `json:"owner_kind" bson:"owner_kind"`
	OwnerID            string          `json:"owner_id" bson:"owner_id"`
	Name               string          `json:"name" bson:"name"`
	Entries            []LedgerEntry   `json:"entries" bson:"entries"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" bson:"outstanding_balance"`
	TotalBillAmount    decimal.Decimal `json:"total_bill_amount" bson:"total_bill_amount"`
	TotalPaid          decimal.Decimal `json:"total_paid" bson:"total_paid"`
	TotalDeductions    decimal.Decimal `json:"total_deductions" bson:"total_deductions"`
	PaidBills          int             `json:"paid_bills" bson:"paid_bills"`
	PendingBills       int             `json:"pending_bills" bson:"pending_bills"`
	PartiallyPaidBills int             `json:"partially_paid_bills" bson:"partially_paid_bills"`
}

func (l *Ledger) EntityID() string      { return l.ID }
func (l *Ledger) SetEntityID(id string) { l.ID = id }

// LedgerID is the storage key of an owner's ledger.
func LedgerID(kind OwnerKind, ownerID string) string {
	return string(kind) + ":" + ownerID
}

func (l Ledger) Clone() Ledger {
	out := l
	out.Entries = append([]LedgerEntry(nil), l.Entries...)
	return out
}
