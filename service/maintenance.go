package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/repository"
	"github.com/shopspring/decimal"
)

// FixReport lists the records FixAllBalances rewrote.
type FixReport struct {
	ChangedBills     []string `json:"changed_bills"`
	ChangedParties   []string `json:"changed_parties"`
	ChangedMemos     []string `json:"changed_memos"`
	ChangedSuppliers []string `json:"changed_suppliers"`
}

// BalanceCorrection is one stored balance replaced by the sanity guard.
type BalanceCorrection struct {
	Collection string          `json:"collection"`
	RecordID   string          `json:"record_id"`
	Number     string          `json:"number"`
	Previous   decimal.Decimal `json:"previous"`
	Corrected  decimal.Decimal `json:"corrected"`
	Warning    string          `json:"warning"`
}

// RepairResult is the outcome of one attempted consistency repair.
type RepairResult struct {
	Issue   ledger.Issue `json:"issue"`
	Applied bool         `json:"applied"`
	Error   string       `json:"error,omitempty"`
}

func (s *BookService) allOwners(ctx context.Context) ([]owner, []models.Party, []models.Supplier, error) {
	parties, err := s.store.Parties.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	suppliers, err := s.store.Suppliers.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	owners := make([]owner, 0, len(parties)+len(suppliers))
	for _, p := range parties {
		owners = append(owners, owner{kind: models.OwnerParty, id: p.ID})
	}
	for _, sp := range suppliers {
		owners = append(owners, owner{kind: models.OwnerSupplier, id: sp.ID})
	}
	return owners, parties, suppliers, nil
}

func idSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// FixAllBalances recomputes every bill and memo balance and status and
// every party and supplier aggregate, writes what changed and rebuilds all
// ledgers. Running it twice changes nothing the second time.
func (s *BookService) FixAllBalances(ctx context.Context) (FixReport, error) {
	owners, parties, suppliers, err := s.allOwners(ctx)
	if err != nil {
		return FixReport{}, err
	}

	var report FixReport
	err = s.withOwners(ctx, owners, func() error {
		bank, err := s.store.BankEntries.GetAll(ctx)
		if err != nil {
			return err
		}
		bills, err := s.store.Bills.GetAll(ctx)
		if err != nil {
			return err
		}
		res := ledger.FixAllBalances(bills, parties, bank)
		changed := idSet(res.ChangedBills)
		for _, b := range res.Bills {
			if !changed[b.ID] {
				continue
			}
			b.UpdatedAt = s.nowPtr()
			if err := s.store.Bills.Update(ctx, &b); err != nil {
				return fmt.Errorf("fix bill %s: %w", b.BillNo, err)
			}
		}
		changed = idSet(res.ChangedParties)
		for _, p := range res.Parties {
			if !changed[p.ID] {
				continue
			}
			if err := s.store.Parties.Update(ctx, &p); err != nil {
				return fmt.Errorf("fix party %s: %w", p.Name, err)
			}
		}

		memos, err := s.store.Memos.GetAll(ctx)
		if err != nil {
			return err
		}
		mres := ledger.FixAllMemoBalances(memos, suppliers, bank)
		changed = idSet(mres.ChangedMemos)
		for _, m := range mres.Memos {
			if !changed[m.ID] {
				continue
			}
			m.UpdatedAt = s.nowPtr()
			if err := s.store.Memos.Update(ctx, &m); err != nil {
				return fmt.Errorf("fix memo %s: %w", m.MemoNo, err)
			}
		}
		changed = idSet(mres.ChangedSuppliers)
		for _, sp := range mres.Suppliers {
			if !changed[sp.ID] {
				continue
			}
			if err := s.store.Suppliers.Update(ctx, &sp); err != nil {
				return fmt.Errorf("fix supplier %s: %w", sp.Name, err)
			}
		}

		report = FixReport{
			ChangedBills:     res.ChangedBills,
			ChangedParties:   res.ChangedParties,
			ChangedMemos:     mres.ChangedMemos,
			ChangedSuppliers: mres.ChangedSuppliers,
		}
		for _, o := range owners {
			if _, err := s.rebuild(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return FixReport{}, err
	}
	s.logger.WithField("module", moduleName).
		WithField("bills", len(report.ChangedBills)).
		WithField("memos", len(report.ChangedMemos)).
		Info("balances fixed")
	return report, nil
}

// ValidateBalances runs the balance sanity guard over every bill and memo
// and stores the corrected balance wherever the guard rejects the stored
// one.
func (s *BookService) ValidateBalances(ctx context.Context) ([]BalanceCorrection, error) {
	owners, _, _, err := s.allOwners(ctx)
	if err != nil {
		return nil, err
	}

	var corrections []BalanceCorrection
	err = s.withOwners(ctx, owners, func() error {
		var affected []owner
		bills, err := s.store.Bills.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, b := range bills {
			check := ledger.ValidateBillBalance(b)
			if check.IsValid {
				continue
			}
			corrections = append(corrections, BalanceCorrection{
				Collection: billsCollection,
				RecordID:   b.ID,
				Number:     b.BillNo,
				Previous:   b.Balance,
				Corrected:  *check.CorrectedBalance,
				Warning:    check.Warning,
			})
			b.Balance = *check.CorrectedBalance
			b.UpdatedAt = s.nowPtr()
			if err := s.store.Bills.Update(ctx, &b); err != nil {
				return fmt.Errorf("correct bill %s: %w", b.BillNo, err)
			}
			o, err := s.billOwner(ctx, b)
			if err != nil {
				return err
			}
			affected = append(affected, o)
		}

		memos, err := s.store.Memos.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, m := range memos {
			check := ledger.ValidateMemoBalance(m)
			if check.IsValid {
				continue
			}
			corrections = append(corrections, BalanceCorrection{
				Collection: memosCollection,
				RecordID:   m.ID,
				Number:     m.MemoNo,
				Previous:   m.Balance,
				Corrected:  *check.CorrectedBalance,
				Warning:    check.Warning,
			})
			m.Balance = *check.CorrectedBalance
			m.UpdatedAt = s.nowPtr()
			if err := s.store.Memos.Update(ctx, &m); err != nil {
				return fmt.Errorf("correct memo %s: %w", m.MemoNo, err)
			}
			o, err := s.memoOwner(ctx, m)
			if err != nil {
				return err
			}
			affected = append(affected, o)
		}

		for _, o := range affected {
			if o.id == "" {
				continue
			}
			if _, err := s.rebuild(ctx, o); err != nil && !errors.Is(err, ErrPartyNotFound) && !errors.Is(err, ErrSupplierNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, c := range corrections {
		s.logger.WithField("module", moduleName).WithField("recordID", c.RecordID).Warn(c.Warning)
	}
	return corrections, nil
}

// ReconcileLedgers rebuilds every party and supplier ledger and reports,
// per owner, which documents were missing from the stored ledger.
func (s *BookService) ReconcileLedgers(ctx context.Context) ([]ledger.MigrationReport, error) {
	owners, _, _, err := s.allOwners(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]ledger.MigrationReport, 0, len(owners))
	for _, o := range owners {
		_, report, err := s.rebuildLocked(ctx, o)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *BookService) snapshot(ctx context.Context, store *repository.Store) (ledger.Snapshot, error) {
	var (
		snap ledger.Snapshot
		err  error
	)
	if snap.Bills, err = store.Bills.GetAll(ctx); err != nil {
		return snap, err
	}
	if snap.Memos, err = store.Memos.GetAll(ctx); err != nil {
		return snap, err
	}
	if snap.BankEntries, err = store.BankEntries.GetAll(ctx); err != nil {
		return snap, err
	}
	if snap.Parties, err = store.Parties.GetAll(ctx); err != nil {
		return snap, err
	}
	if snap.Suppliers, err = store.Suppliers.GetAll(ctx); err != nil {
		return snap, err
	}
	if snap.LoadingSlips, err = store.LoadingSlips.GetAll(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// CheckConsistency audits cross links between collections and, when a
// mirror is configured, compares each collection with its mirrored copy.
func (s *BookService) CheckConsistency(ctx context.Context) ([]ledger.Issue, error) {
	snap, err := s.snapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}
	issues := ledger.CheckConsistency(snap)
	if s.mirror == nil {
		return issues, nil
	}
	remote, err := s.snapshot(ctx, s.mirror)
	if err != nil {
		return nil, fmt.Errorf("read mirror: %w", err)
	}
	issues = append(issues, ledger.CompareCollections(billsCollection, idsOf(snap.Bills), idsOf(remote.Bills))...)
	issues = append(issues, ledger.CompareCollections(memosCollection, idsOf(snap.Memos), idsOf(remote.Memos))...)
	issues = append(issues, ledger.CompareCollections(bankCollection, idsOf(snap.BankEntries), idsOf(remote.BankEntries))...)
	issues = append(issues, ledger.CompareCollections(partiesCollection, idsOf(snap.Parties), idsOf(remote.Parties))...)
	issues = append(issues, ledger.CompareCollections(suppliersCollection, idsOf(snap.Suppliers), idsOf(remote.Suppliers))...)
	issues = append(issues, ledger.CompareCollections(slipsCollection, idsOf(snap.LoadingSlips), idsOf(remote.LoadingSlips))...)
	return issues, nil
}

type record[T any] interface {
	*T
	models.Entity
}

func idsOf[T any, P record[T]](items []T) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = P(&items[i]).EntityID()
	}
	return ids
}

// RepairConsistency applies the remediation of every issue it can:
// missing parties and suppliers are created first, then slips are linked
// to or given memos, dangling links are cleared and records missing from
// the mirror are pushed. Issues that need a person are reported unapplied.
func (s *BookService) RepairConsistency(ctx context.Context) ([]RepairResult, error) {
	issues, err := s.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}
	first := func(i ledger.Issue) bool {
		return i.Kind == ledger.IssueUndefinedParty || i.Kind == ledger.IssueUndefinedSupplier
	}

	results := make([]RepairResult, 0, len(issues))
	for _, pass := range []bool{true, false} {
		for _, issue := range issues {
			if first(issue) != pass {
				continue
			}
			applied, err := s.repair(ctx, issue)
			res := RepairResult{Issue: issue, Applied: applied}
			if err != nil {
				res.Error = err.Error()
				config.LogError(s.logger, moduleName, "RepairConsistency", string(issue.Kind), issue.RecordID, err)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (s *BookService) repair(ctx context.Context, issue ledger.Issue) (bool, error) {
	switch issue.Action.Type {
	case ledger.ActionCreateCounterpart:
		switch issue.Action.Collection {
		case partiesCollection:
			_, err := s.CreateParty(ctx, models.Party{Name: issue.Action.Name})
			if errors.Is(err, ErrDuplicate) {
				return true, nil
			}
			return err == nil, err
		case suppliersCollection:
			_, err := s.CreateSupplier(ctx, models.Supplier{Name: issue.Action.Name})
			if errors.Is(err, ErrDuplicate) {
				return true, nil
			}
			return err == nil, err
		case memosCollection:
			return s.memoForSlip(ctx, issue.RecordID)
		}
	case ledger.ActionLinkRecords:
		sl, err := s.GetLoadingSlip(ctx, issue.RecordID)
		if err != nil {
			return false, err
		}
		if err := s.linkMemo(ctx, issue.Action.TargetID, sl.ID); err != nil {
			return false, err
		}
		target := issue.Action.TargetID
		sl.MemoID = &target
		err = s.store.LoadingSlips.Update(ctx, sl)
		return err == nil, err
	case ledger.ActionUnlink:
		m, err := s.GetMemo(ctx, issue.RecordID)
		if err != nil {
			return false, err
		}
		m.LoadingSlipID = nil
		err = s.store.Memos.Update(ctx, m)
		return err == nil, err
	case ledger.ActionPushLocal:
		if s.mirror == nil || issue.RecordID == "" {
			return false, nil
		}
		err := s.push(ctx, issue.Collection, issue.RecordID)
		return err == nil, err
	}
	return false, nil
}

// memoForSlip creates the memo a loading slip is missing and links the two.
func (s *BookService) memoForSlip(ctx context.Context, slipID string) (bool, error) {
	sl, err := s.GetLoadingSlip(ctx, slipID)
	if err != nil {
		return false, err
	}
	m := models.Memo{
		MemoNo:       sl.SlipNo,
		LoadingDate:  sl.Date,
		SupplierID:   sl.SupplierID,
		SupplierName: sl.SupplierName,
		Vehicle:      sl.Vehicle,
		From:         sl.From,
		To:           sl.To,
		Freight:      sl.Freight,
	}
	if sl.Advance.IsPositive() {
		m.Advances = []models.Advance{{
			Amount:    sl.Advance,
			Date:      sl.Date,
			Narration: "Advance on loading slip " + sl.SlipNo,
		}}
	}
	created, err := s.CreateMemo(ctx, m)
	if err != nil {
		return false, err
	}
	if err := s.linkMemo(ctx, created.ID, sl.ID); err != nil {
		return false, err
	}
	sl.MemoID = &created.ID
	err = s.store.LoadingSlips.Update(ctx, sl)
	return err == nil, err
}

func (s *BookService) push(ctx context.Context, collection, id string) error {
	switch collection {
	case billsCollection:
		return pushRecord[models.Bill](ctx, s.store.Bills, s.mirror.Bills, id)
	case memosCollection:
		return pushRecord[models.Memo](ctx, s.store.Memos, s.mirror.Memos, id)
	case bankCollection:
		return pushRecord[models.BankEntry](ctx, s.store.BankEntries, s.mirror.BankEntries, id)
	case partiesCollection:
		return pushRecord[models.Party](ctx, s.store.Parties, s.mirror.Parties, id)
	case suppliersCollection:
		return pushRecord[models.Supplier](ctx, s.store.Suppliers, s.mirror.Suppliers, id)
	case slipsCollection:
		return pushRecord[models.LoadingSlip](ctx, s.store.LoadingSlips, s.mirror.LoadingSlips, id)
	}
	return fmt.Errorf("unknown collection %q", collection)
}

func pushRecord[T any](ctx context.Context, from, to repository.Collection[T], id string) error {
	item, err := from.Get(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	err = to.Create(ctx, item)
	if errors.Is(err, ErrDuplicate) {
		return to.Update(ctx, item)
	}
	return err
}
