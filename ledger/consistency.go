package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hariomtransport/books/models"
)

type IssueKind string

const (
	IssueSlipWithoutMemo   IssueKind = "slip_without_memo"
	IssueMissingMemo       IssueKind = "missing_memo"
	IssueMissingSlip       IssueKind = "missing_slip"
	IssueCountMismatch     IssueKind = "count_mismatch"
	IssueMissingRemote     IssueKind = "missing_remote"
	IssueUndefinedParty    IssueKind = "undefined_party"
	IssueUndefinedSupplier IssueKind = "undefined_supplier"
	IssueDanglingBankEntry IssueKind = "dangling_bank_entry"
)

type ActionType string

const (
	ActionCreateCounterpart ActionType = "create_counterpart"
	ActionPushLocal         ActionType = "push_local"
	ActionLinkRecords       ActionType = "link_records"
	ActionUnlink            ActionType = "unlink"
	ActionReview            ActionType = "review"
)

// Action is the suggested remediation for an issue. Collection names the
// collection the action writes to; TargetID is the record to link to.
type Action struct {
	Type       ActionType `json:"type"`
	Collection string     `json:"collection"`
	TargetID   string     `json:"target_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type Issue struct {
	Kind       IssueKind `json:"kind"`
	Collection string    `json:"collection"`
	RecordID   string    `json:"record_id,omitempty"`
	Message    string    `json:"message"`
	Action     Action    `json:"action"`
}

// Snapshot is the set of collections audited by CheckConsistency.
type Snapshot struct {
	Bills        []models.Bill
	Memos        []models.Memo
	BankEntries  []models.BankEntry
	Parties      []models.Party
	Suppliers    []models.Supplier
	LoadingSlips []models.LoadingSlip
}

// CheckConsistency audits cross-collection links. It is heuristic: slips
// without a memo are matched to memos by vehicle and date.
func CheckConsistency(s Snapshot) []Issue {
	var issues []Issue
	issues = append(issues, slipIssues(s)...)
	issues = append(issues, counterpartIssues(s)...)
	issues = append(issues, bankIssues(s)...)
	sortIssues(issues)
	return issues
}

func slipIssues(s Snapshot) []Issue {
	var issues []Issue
	memos := map[string]models.Memo{}
	linked := map[string]bool{}
	for _, m := range s.Memos {
		memos[m.ID] = m
	}
	slips := map[string]bool{}
	for _, sl := range s.LoadingSlips {
		slips[sl.ID] = true
		if sl.MemoID != nil {
			linked[*sl.MemoID] = true
		}
	}

	for _, sl := range s.LoadingSlips {
		if sl.MemoID != nil {
			if _, ok := memos[*sl.MemoID]; !ok {
				issues = append(issues, Issue{
					Kind:       IssueMissingMemo,
					Collection: "loading_slips",
					RecordID:   sl.ID,
					Message:    fmt.Sprintf("loading slip %s links to memo %s which does not exist", sl.SlipNo, *sl.MemoID),
					Action:     Action{Type: ActionCreateCounterpart, Collection: "memos", Name: sl.SupplierName},
				})
			}
			continue
		}

		if m, ok := matchMemo(sl, s.Memos, linked); ok {
			linked[m.ID] = true
			issues = append(issues, Issue{
				Kind:       IssueSlipWithoutMemo,
				Collection: "loading_slips",
				RecordID:   sl.ID,
				Message:    fmt.Sprintf("loading slip %s matches memo %s by vehicle and date", sl.SlipNo, m.MemoNo),
				Action:     Action{Type: ActionLinkRecords, Collection: "loading_slips", TargetID: m.ID},
			})
			continue
		}
		issues = append(issues, Issue{
			Kind:       IssueSlipWithoutMemo,
			Collection: "loading_slips",
			RecordID:   sl.ID,
			Message:    fmt.Sprintf("loading slip %s has no memo", sl.SlipNo),
			Action:     Action{Type: ActionCreateCounterpart, Collection: "memos", Name: sl.SupplierName},
		})
	}

	for _, m := range s.Memos {
		if m.LoadingSlipID != nil && !slips[*m.LoadingSlipID] {
			issues = append(issues, Issue{
				Kind:       IssueMissingSlip,
				Collection: "memos",
				RecordID:   m.ID,
				Message:    fmt.Sprintf("memo %s links to loading slip %s which does not exist", m.MemoNo, *m.LoadingSlipID),
				Action:     Action{Type: ActionUnlink, Collection: "memos"},
			})
		}
	}
	return issues
}

func matchMemo(sl models.LoadingSlip, memos []models.Memo, linked map[string]bool) (models.Memo, bool) {
	vehicle := NormalizeNo(sl.Vehicle)
	if vehicle == "" {
		return models.Memo{}, false
	}
	for _, m := range memos {
		if linked[m.ID] || m.LoadingSlipID != nil {
			continue
		}
		if NormalizeNo(m.Vehicle) == vehicle && dateKey(m.LoadingDate) == dateKey(sl.Date) {
			return m, true
		}
	}
	return models.Memo{}, false
}

func counterpartIssues(s Snapshot) []Issue {
	var issues []Issue

	partyIDs, partyNames := map[string]bool{}, map[string]bool{}
	for _, p := range s.Parties {
		partyIDs[p.ID] = true
		partyNames[nameKey(p.Name)] = true
	}
	reported := map[string]bool{}
	for _, b := range s.Bills {
		if partyIDs[b.PartyID] || partyNames[nameKey(b.PartyName)] {
			continue
		}
		key := nameKey(b.PartyName)
		if key == "" || reported[key] {
			continue
		}
		reported[key] = true
		issues = append(issues, Issue{
			Kind:       IssueUndefinedParty,
			Collection: "bills",
			RecordID:   b.ID,
			Message:    fmt.Sprintf("bill %s references undefined party %q", b.BillNo, b.PartyName),
			Action:     Action{Type: ActionCreateCounterpart, Collection: "parties", Name: strings.TrimSpace(b.PartyName)},
		})
	}

	supplierIDs, supplierNames := map[string]bool{}, map[string]bool{}
	for _, sp := range s.Suppliers {
		supplierIDs[sp.ID] = true
		supplierNames[nameKey(sp.Name)] = true
	}
	reported = map[string]bool{}
	check := func(collection, recordID, label, supplierID, name string) {
		if supplierIDs[supplierID] || supplierNames[nameKey(name)] {
			return
		}
		key := nameKey(name)
		if key == "" || reported[key] {
			return
		}
		reported[key] = true
		issues = append(issues, Issue{
			Kind:       IssueUndefinedSupplier,
			Collection: collection,
			RecordID:   recordID,
			Message:    fmt.Sprintf("%s references undefined supplier %q", label, name),
			Action:     Action{Type: ActionCreateCounterpart, Collection: "suppliers", Name: strings.TrimSpace(name)},
		})
	}
	for _, m := range s.Memos {
		check("memos", m.ID, "memo "+m.MemoNo, m.SupplierID, m.SupplierName)
	}
	for _, sl := range s.LoadingSlips {
		check("loading_slips", sl.ID, "loading slip "+sl.SlipNo, sl.SupplierID, sl.SupplierName)
	}
	return issues
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func bankIssues(s Snapshot) []Issue {
	resolver := newBankResolver()
	for _, b := range s.Bills {
		resolver.add(b.ID, b.BillNo)
	}
	for _, m := range s.Memos {
		resolver.add(m.ID, m.MemoNo)
	}

	var issues []Issue
	for _, e := range s.BankEntries {
		switch e.Category {
		case models.CategoryBill, models.CategoryMemo, models.CategoryAdvance:
		default:
			continue
		}
		if e.RelatedID == nil && e.RelatedName == nil {
			continue
		}
		if _, ok := resolver.resolve(e); ok {
			continue
		}
		ref := ""
		if e.RelatedID != nil {
			ref = *e.RelatedID
		} else {
			ref = *e.RelatedName
		}
		issues = append(issues, Issue{
			Kind:       IssueDanglingBankEntry,
			Collection: "bank_entries",
			RecordID:   e.ID,
			Message:    fmt.Sprintf("bank entry of %s on %s references %q which matches no bill or memo", FormatCurrency(e.Amount), FormatDate(e.Date), ref),
			Action:     Action{Type: ActionReview, Collection: "bank_entries"},
		})
	}
	return issues
}

// CompareCollections compares two copies of one collection (for example a
// device cache and the store of record) by record id. Records only present
// locally are reported with a push action.
func CompareCollections(collection string, local, remote []string) []Issue {
	var issues []Issue
	if len(local) != len(remote) {
		issues = append(issues, Issue{
			Kind:       IssueCountMismatch,
			Collection: collection,
			Message:    fmt.Sprintf("%s has %d local and %d remote records", collection, len(local), len(remote)),
			Action:     Action{Type: ActionPushLocal, Collection: collection},
		})
	}
	inRemote := map[string]bool{}
	for _, id := range remote {
		inRemote[id] = true
	}
	for _, id := range local {
		if inRemote[id] {
			continue
		}
		issues = append(issues, Issue{
			Kind:       IssueMissingRemote,
			Collection: collection,
			RecordID:   id,
			Message:    fmt.Sprintf("%s record %s is missing remotely", collection, id),
			Action:     Action{Type: ActionPushLocal, Collection: collection},
		})
	}
	sortIssues(issues)
	return issues
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Kind != issues[j].Kind {
			return issues[i].Kind < issues[j].Kind
		}
		if issues[i].Collection != issues[j].Collection {
			return issues[i].Collection < issues[j].Collection
		}
		return issues[i].RecordID < issues[j].RecordID
	})
}
