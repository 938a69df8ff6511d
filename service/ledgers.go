package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/sirupsen/logrus"
)

// PartyLedger rebuilds the party's ledger from its bills and bank entries
// and returns it. The stored copy is refreshed when it differs.
func (s *BookService) PartyLedger(ctx context.Context, partyID string) (models.Ledger, error) {
	l, _, err := s.RebuildPartyLedger(ctx, partyID)
	return l, err
}

func (s *BookService) SupplierLedger(ctx context.Context, supplierID string) (models.Ledger, error) {
	l, _, err := s.RebuildSupplierLedger(ctx, supplierID)
	return l, err
}

// RebuildPartyLedger rebuilds the party's ledger and reports how the stored
// copy differed from it.
func (s *BookService) RebuildPartyLedger(ctx context.Context, partyID string) (models.Ledger, ledger.MigrationReport, error) {
	return s.rebuildLocked(ctx, owner{kind: models.OwnerParty, id: partyID})
}

func (s *BookService) RebuildSupplierLedger(ctx context.Context, supplierID string) (models.Ledger, ledger.MigrationReport, error) {
	return s.rebuildLocked(ctx, owner{kind: models.OwnerSupplier, id: supplierID})
}

func (s *BookService) rebuildLocked(ctx context.Context, o owner) (models.Ledger, ledger.MigrationReport, error) {
	var (
		l      models.Ledger
		report ledger.MigrationReport
	)
	err := s.withOwners(ctx, []owner{o}, func() error {
		var err error
		l, report, err = s.reconcile(ctx, o)
		return err
	})
	return l, report, err
}

func (s *BookService) rebuild(ctx context.Context, o owner) (models.Ledger, error) {
	l, _, err := s.reconcile(ctx, o)
	return l, err
}

// reconcile builds the owner's ledger from the source collections, stores
// it when the stored copy differs and refreshes the owner's cached balance
// and the balances of its bills or memos.
// The caller holds the owner's lock.
func (s *BookService) reconcile(ctx context.Context, o owner) (models.Ledger, ledger.MigrationReport, error) {
	var built models.Ledger
	switch o.kind {
	case models.OwnerParty:
		l, err := s.buildPartyLedger(ctx, o.id)
		if err != nil {
			return models.Ledger{}, ledger.MigrationReport{}, err
		}
		built = l
	case models.OwnerSupplier:
		l, err := s.buildSupplierLedger(ctx, o.id)
		if err != nil {
			return models.Ledger{}, ledger.MigrationReport{}, err
		}
		built = l
	default:
		return models.Ledger{}, ledger.MigrationReport{}, fmt.Errorf("unknown owner kind %q", o.kind)
	}

	stored, err := s.store.Ledgers.Get(ctx, built.ID)
	if err != nil {
		return models.Ledger{}, ledger.MigrationReport{}, fmt.Errorf("load stored ledger: %w", err)
	}
	report := ledger.Reconcile(stored, built)
	for _, issue := range report.Issues {
		s.logger.WithFields(logrus.Fields{
			"module":  moduleName,
			"ledger":  built.ID,
			"entryID": issue.EntryID,
		}).Warn(issue.Message)
	}
	if report.Changed {
		if stored == nil {
			err = s.store.Ledgers.Create(ctx, &built)
		} else {
			err = s.store.Ledgers.Update(ctx, &built)
		}
		if err != nil {
			return models.Ledger{}, report, fmt.Errorf("store ledger %s: %w", built.ID, err)
		}
	}
	return built, report, nil
}

func (s *BookService) buildPartyLedger(ctx context.Context, partyID string) (models.Ledger, error) {
	party, err := s.store.Parties.Get(ctx, partyID)
	if err != nil {
		return models.Ledger{}, err
	}
	if party == nil {
		return models.Ledger{}, fmt.Errorf("%s: %w", partyID, ErrPartyNotFound)
	}
	// Every bill is passed so bank entries naming a bill number resolve
	// against the whole book, not only this party's bills.
	bills, err := s.store.Bills.GetAll(ctx)
	if err != nil {
		return models.Ledger{}, err
	}
	bank, err := s.store.BankEntries.GetAll(ctx)
	if err != nil {
		return models.Ledger{}, err
	}

	res := ledger.FixAllBalances(bills, []models.Party{*party}, bank)
	changed := idSet(res.ChangedBills)
	for _, b := range res.Bills {
		if !changed[b.ID] || !ledger.BillBelongsTo(b, *party) {
			continue
		}
		if err := s.store.Bills.Update(ctx, &b); err != nil {
			return models.Ledger{}, fmt.Errorf("refresh bill %s: %w", b.BillNo, err)
		}
	}
	if len(res.ChangedParties) > 0 {
		fixed := res.Parties[0]
		if err := s.store.Parties.Update(ctx, &fixed); err != nil {
			config.LogError(s.logger, moduleName, "buildPartyLedger", "refresh party balance", party.ID, err)
		}
	}
	return ledger.BuildPartyLedger(*party, res.Bills, bank), nil
}

func (s *BookService) buildSupplierLedger(ctx context.Context, supplierID string) (models.Ledger, error) {
	supplier, err := s.store.Suppliers.Get(ctx, supplierID)
	if err != nil {
		return models.Ledger{}, err
	}
	if supplier == nil {
		return models.Ledger{}, fmt.Errorf("%s: %w", supplierID, ErrSupplierNotFound)
	}
	memos, err := s.store.Memos.GetAll(ctx)
	if err != nil {
		return models.Ledger{}, err
	}
	bank, err := s.store.BankEntries.GetAll(ctx)
	if err != nil {
		return models.Ledger{}, err
	}

	res := ledger.FixAllMemoBalances(memos, []models.Supplier{*supplier}, bank)
	changed := idSet(res.ChangedMemos)
	for _, m := range res.Memos {
		if !changed[m.ID] || !ledger.MemoBelongsTo(m, *supplier) {
			continue
		}
		if err := s.store.Memos.Update(ctx, &m); err != nil {
			return models.Ledger{}, fmt.Errorf("refresh memo %s: %w", m.MemoNo, err)
		}
	}
	if len(res.ChangedSuppliers) > 0 {
		fixed := res.Suppliers[0]
		if err := s.store.Suppliers.Update(ctx, &fixed); err != nil {
			config.LogError(s.logger, moduleName, "buildSupplierLedger", "refresh supplier balance", supplier.ID, err)
		}
	}
	return ledger.BuildSupplierLedger(*supplier, res.Memos, bank), nil
}

// commit runs write and rebuilds every owner's ledger. Owners that no longer
// exist are skipped. If a rebuild fails, undo reverts the write and the
// ledgers are rebuilt again from the restored records.
func (s *BookService) commit(ctx context.Context, owners []owner, write, undo func() error) error {
	if err := write(); err != nil {
		return err
	}
	for _, o := range owners {
		if o.id == "" {
			continue
		}
		if _, err := s.rebuild(ctx, o); err != nil {
			if errors.Is(err, ErrPartyNotFound) || errors.Is(err, ErrSupplierNotFound) {
				continue
			}
			if undo != nil {
				if uerr := undo(); uerr != nil {
					config.LogError(s.logger, moduleName, "commit", "undo write after failed rebuild", o.key(), uerr)
				}
				for _, again := range owners {
					if again.id == "" {
						continue
					}
					if _, rerr := s.rebuild(ctx, again); rerr != nil {
						config.LogError(s.logger, moduleName, "commit", "rebuild after undo", again.key(), rerr)
					}
				}
			}
			return fmt.Errorf("rebuild %s ledger %s: %w", o.kind, o.id, err)
		}
	}
	return nil
}

func (s *BookService) billOwner(ctx context.Context, b models.Bill) (owner, error) {
	if b.PartyID != "" {
		return owner{kind: models.OwnerParty, id: b.PartyID}, nil
	}
	p, err := s.store.Parties.GetByName(ctx, b.PartyName)
	if err != nil || p == nil {
		return owner{}, err
	}
	return owner{kind: models.OwnerParty, id: p.ID}, nil
}

func (s *BookService) memoOwner(ctx context.Context, m models.Memo) (owner, error) {
	if m.SupplierID != "" {
		return owner{kind: models.OwnerSupplier, id: m.SupplierID}, nil
	}
	sp, err := s.store.Suppliers.GetByName(ctx, m.SupplierName)
	if err != nil || sp == nil {
		return owner{}, err
	}
	return owner{kind: models.OwnerSupplier, id: sp.ID}, nil
}
