package service

import (
	"context"
	"fmt"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/notify"
)

const bankCollection = "bank_entries"

func (s *BookService) ListBankEntries(ctx context.Context) ([]models.BankEntry, error) {
	return s.store.BankEntries.GetAll(ctx)
}

func (s *BookService) GetBankEntry(ctx context.Context, id string) (*models.BankEntry, error) {
	e, err := s.store.BankEntries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("bank entry %s: %w", id, ErrNotFound)
	}
	return e, nil
}

func (s *BookService) validateBankEntry(e models.BankEntry) error {
	if err := s.check(e); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return invalid("amount", "gt=0")
	}
	return nil
}

// bankOwners lists the owners whose ledgers show any of the entries.
func (s *BookService) bankOwners(ctx context.Context, entries ...models.BankEntry) ([]owner, error) {
	bills, err := s.store.Bills.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	memos, err := s.store.Memos.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var owners []owner
	for _, e := range entries {
		kind, docID, ok := ledger.LinkedDocument(e, bills, memos)
		if !ok {
			continue
		}
		var o owner
		switch kind {
		case models.OwnerParty:
			for _, b := range bills {
				if b.ID == docID {
					o, err = s.billOwner(ctx, b)
					break
				}
			}
		case models.OwnerSupplier:
			for _, m := range memos {
				if m.ID == docID {
					o, err = s.memoOwner(ctx, m)
					break
				}
			}
		}
		if err != nil {
			return nil, err
		}
		if o.id != "" {
			owners = append(owners, o)
		}
	}
	return owners, nil
}

// CreateBankEntry records a cash movement and rebuilds the ledger of the
// bill or memo it settles, if any.
func (s *BookService) CreateBankEntry(ctx context.Context, e models.BankEntry) (models.BankEntry, error) {
	if err := s.validateBankEntry(e); err != nil {
		return models.BankEntry{}, err
	}
	e.ID = s.newID()
	e.CreatedAt = s.now()

	owners, err := s.bankOwners(ctx, e)
	if err != nil {
		return models.BankEntry{}, err
	}
	err = s.withOwners(ctx, owners, func() error {
		return s.commit(ctx, owners,
			func() error { return s.store.BankEntries.Create(ctx, &e) },
			func() error { return s.store.BankEntries.Delete(ctx, e.ID) },
		)
	})
	if err != nil {
		return models.BankEntry{}, err
	}
	s.publish(ctx, bankCollection, notify.ActionCreate, e.ID, owners...)
	return e, nil
}

// UpdateBankEntry rewrites an entry. When the entry now settles a different
// document both owners' ledgers are rebuilt.
func (s *BookService) UpdateBankEntry(ctx context.Context, id string, in models.BankEntry) (models.BankEntry, error) {
	if err := s.validateBankEntry(in); err != nil {
		return models.BankEntry{}, err
	}
	existing, err := s.GetBankEntry(ctx, id)
	if err != nil {
		return models.BankEntry{}, err
	}
	in.ID = id
	in.CreatedAt = existing.CreatedAt

	owners, err := s.bankOwners(ctx, *existing, in)
	if err != nil {
		return models.BankEntry{}, err
	}
	err = s.withOwners(ctx, owners, func() error {
		return s.commit(ctx, owners,
			func() error { return s.store.BankEntries.Update(ctx, &in) },
			func() error { return s.store.BankEntries.Update(ctx, existing) },
		)
	})
	if err != nil {
		return models.BankEntry{}, err
	}
	s.publish(ctx, bankCollection, notify.ActionUpdate, id, owners...)
	return in, nil
}

func (s *BookService) DeleteBankEntry(ctx context.Context, id string) error {
	existing, err := s.GetBankEntry(ctx, id)
	if err != nil {
		return err
	}
	owners, err := s.bankOwners(ctx, *existing)
	if err != nil {
		return err
	}
	err = s.withOwners(ctx, owners, func() error {
		return s.commit(ctx, owners,
			func() error { return s.store.BankEntries.Delete(ctx, id) },
			func() error { return s.store.BankEntries.Create(ctx, existing) },
		)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, bankCollection, notify.ActionDelete, id, owners...)
	return nil
}
