package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// IntegrityIssue describes one broken invariant in a ledger.
type IntegrityIssue struct {
	EntryID  string          `json:"entry_id,omitempty"`
	Index    int             `json:"index"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Message  string          `json:"message"`
}

// ValidateLedger checks running balances, the outstanding balance and the
// per-document entry order. An empty result means the ledger is sound.
func ValidateLedger(l models.Ledger) []IntegrityIssue {
	var issues []IntegrityIssue

	running := decimal.Zero
	credits, debits := decimal.Zero, decimal.Zero
	for i, e := range l.Entries {
		running = running.Add(e.CreditAmount).Sub(e.DebitAmount)
		credits = credits.Add(e.CreditAmount)
		debits = debits.Add(e.DebitAmount)
		if !running.Equal(e.RunningBalance) {
			issues = append(issues, IntegrityIssue{
				EntryID:  e.ID,
				Index:    i,
				Expected: running,
				Actual:   e.RunningBalance,
				Message:  "running balance does not follow from the previous entry",
			})
		}
	}

	net := credits.Sub(debits)
	if !l.OutstandingBalance.Equal(net) {
		issues = append(issues, IntegrityIssue{
			Index:    len(l.Entries),
			Expected: net,
			Actual:   l.OutstandingBalance,
			Message:  "outstanding balance differs from credits minus debits",
		})
	}
	if n := len(l.Entries); n > 0 && !l.OutstandingBalance.Equal(l.Entries[n-1].RunningBalance) {
		issues = append(issues, IntegrityIssue{
			EntryID:  l.Entries[n-1].ID,
			Index:    n - 1,
			Expected: l.Entries[n-1].RunningBalance,
			Actual:   l.OutstandingBalance,
			Message:  "outstanding balance differs from the last running balance",
		})
	}

	return append(issues, orderIssues(l)...)
}

// orderIssues reports entries that appear before their document's credit or
// after an entry type of higher priority for the same document.
func orderIssues(l models.Ledger) []IntegrityIssue {
	var issues []IntegrityIssue
	lastPriority := map[string]int{}
	for i, e := range l.Entries {
		p := e.Type.Priority()
		prev, seen := lastPriority[e.RelatedID]
		switch {
		case !seen && p != 0:
			issues = append(issues, IntegrityIssue{
				EntryID: e.ID,
				Index:   i,
				Message: fmt.Sprintf("%s entry precedes the credit of %s", e.Type, e.RefNo),
			})
		case seen && p < prev:
			issues = append(issues, IntegrityIssue{
				EntryID: e.ID,
				Index:   i,
				Message: fmt.Sprintf("%s entry out of order for %s", e.Type, e.RefNo),
			})
		}
		if p > prev || !seen {
			lastPriority[e.RelatedID] = p
		}
	}
	return issues
}

// MigrationReport describes how a stored ledger relates to one rebuilt from
// the source collections.
type MigrationReport struct {
	OwnerKind models.OwnerKind `json:"owner_kind"`
	OwnerID   string           `json:"owner_id"`
	// Migrated lists bill or memo ids whose credit entry was missing from
	// the stored ledger.
	Migrated []string `json:"migrated"`
	// AlreadyMigrated lists ids already present; they are left as they are.
	AlreadyMigrated []string `json:"already_migrated"`
	// Removed lists entry ids present in the stored ledger only.
	Removed []string `json:"removed"`
	// Changed is false when the stored ledger already equals the rebuild,
	// in which case nothing needs to be written.
	Changed bool             `json:"changed"`
	Issues  []IntegrityIssue `json:"issues,omitempty"`
}

// Reconcile compares a stored ledger (nil when none was persisted) with a
// fresh rebuild. The rebuild is always the ledger to keep.
func Reconcile(stored *models.Ledger, rebuilt models.Ledger) MigrationReport {
	report := MigrationReport{OwnerKind: rebuilt.OwnerKind, OwnerID: rebuilt.OwnerID}

	present := map[string]bool{}
	if stored != nil {
		for _, e := range stored.Entries {
			present[e.ID] = true
			if e.Type.Priority() == 0 {
				present[string(e.Type)+"|"+e.RelatedID] = true
			}
		}
		report.Issues = ValidateLedger(*stored)
	}

	rebuiltIDs := map[string]bool{}
	for _, e := range rebuilt.Entries {
		rebuiltIDs[e.ID] = true
		if e.Type.Priority() != 0 {
			continue
		}
		if present[e.ID] || present[string(e.Type)+"|"+e.RelatedID] {
			report.AlreadyMigrated = append(report.AlreadyMigrated, e.RelatedID)
		} else {
			report.Migrated = append(report.Migrated, e.RelatedID)
		}
	}
	if stored != nil {
		for _, e := range stored.Entries {
			if !rebuiltIDs[e.ID] {
				report.Removed = append(report.Removed, e.ID)
			}
		}
	}

	report.Changed = stored == nil || !SameLedger(*stored, rebuilt)
	return report
}

// SameLedger compares two ledgers by their canonical JSON encoding.
func SameLedger(a, b models.Ledger) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}
