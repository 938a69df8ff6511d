package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/notify"
	"github.com/shopspring/decimal"
)

const (
	partiesCollection   = "parties"
	suppliersCollection = "suppliers"
)

func (s *BookService) ListParties(ctx context.Context) ([]models.Party, error) {
	return s.store.Parties.GetAll(ctx)
}

func (s *BookService) GetParty(ctx context.Context, id string) (*models.Party, error) {
	p, err := s.store.Parties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("party %s: %w", id, ErrPartyNotFound)
	}
	return p, nil
}

func (s *BookService) uniquePartyName(ctx context.Context, name, selfID string) error {
	other, err := s.store.Parties.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("party %q: %w", name, ErrDuplicate)
	}
	return nil
}

func (s *BookService) CreateParty(ctx context.Context, p models.Party) (models.Party, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.check(p); err != nil {
		return models.Party{}, err
	}
	mobile, err := normalizeMobile(p.Mobile)
	if err != nil {
		return models.Party{}, err
	}
	p.Mobile = mobile
	if err := s.uniquePartyName(ctx, p.Name, ""); err != nil {
		return models.Party{}, err
	}
	p.ID = s.newID()
	p.Balance = decimal.Zero
	p.ActiveTrips = 0
	p.CreatedAt = s.now()
	if err := s.store.Parties.Create(ctx, &p); err != nil {
		return models.Party{}, err
	}
	s.publish(ctx, partiesCollection, notify.ActionCreate, p.ID)
	return p, nil
}

// UpdateParty edits a party's details. A rename is carried onto the party's
// bills, and bills that only named the party are linked to it by id.
func (s *BookService) UpdateParty(ctx context.Context, id string, in models.Party) (models.Party, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return models.Party{}, err
	}
	mobile, err := normalizeMobile(in.Mobile)
	if err != nil {
		return models.Party{}, err
	}
	in.Mobile = mobile
	if err := s.uniquePartyName(ctx, in.Name, id); err != nil {
		return models.Party{}, err
	}
	o := owner{kind: models.OwnerParty, id: id}

	var updated models.Party
	err = s.withOwners(ctx, []owner{o}, func() error {
		current, err := s.GetParty(ctx, id)
		if err != nil {
			return err
		}
		bills, err := s.store.Bills.GetByParty(ctx, *current)
		if err != nil {
			return err
		}

		updated = in
		updated.ID = id
		updated.Balance = current.Balance
		updated.ActiveTrips = current.ActiveTrips
		updated.CreatedAt = current.CreatedAt
		if err := s.store.Parties.Update(ctx, &updated); err != nil {
			return err
		}
		for _, b := range bills {
			if b.PartyID == id && b.PartyName == updated.Name {
				continue
			}
			b.PartyID = id
			b.PartyName = updated.Name
			if err := s.store.Bills.Update(ctx, &b); err != nil {
				return fmt.Errorf("relink bill %s: %w", b.BillNo, err)
			}
		}
		_, err = s.rebuild(ctx, o)
		return err
	})
	if err != nil {
		return models.Party{}, err
	}
	s.publish(ctx, partiesCollection, notify.ActionUpdate, id, o)
	return updated, nil
}

// DeleteParty removes a party without bills, together with its stored
// ledger.
func (s *BookService) DeleteParty(ctx context.Context, id string) error {
	o := owner{kind: models.OwnerParty, id: id}
	err := s.withOwners(ctx, []owner{o}, func() error {
		p, err := s.GetParty(ctx, id)
		if err != nil {
			return err
		}
		bills, err := s.store.Bills.GetByParty(ctx, *p)
		if err != nil {
			return err
		}
		if len(bills) > 0 {
			return fmt.Errorf("party %s has %d bills: %w", p.Name, len(bills), ErrInUse)
		}
		if err := s.store.Parties.Delete(ctx, id); err != nil {
			return err
		}
		return s.dropLedger(ctx, o)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, partiesCollection, notify.ActionDelete, id, o)
	return nil
}

func (s *BookService) dropLedger(ctx context.Context, o owner) error {
	err := s.store.Ledgers.Delete(ctx, models.LedgerID(o.kind, o.id))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *BookService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.Suppliers.GetAll(ctx)
}

func (s *BookService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	sp, err := s.store.Suppliers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, fmt.Errorf("supplier %s: %w", id, ErrSupplierNotFound)
	}
	return sp, nil
}

func (s *BookService) uniqueSupplierName(ctx context.Context, name, selfID string) error {
	other, err := s.store.Suppliers.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("supplier %q: %w", name, ErrDuplicate)
	}
	return nil
}

func (s *BookService) CreateSupplier(ctx context.Context, sp models.Supplier) (models.Supplier, error) {
	sp.Name = strings.TrimSpace(sp.Name)
	if err := s.check(sp); err != nil {
		return models.Supplier{}, err
	}
	mobile, err := normalizeMobile(sp.Mobile)
	if err != nil {
		return models.Supplier{}, err
	}
	sp.Mobile = mobile
	if err := s.uniqueSupplierName(ctx, sp.Name, ""); err != nil {
		return models.Supplier{}, err
	}
	sp.ID = s.newID()
	sp.Balance = decimal.Zero
	sp.ActiveTrips = 0
	sp.CreatedAt = s.now()
	if err := s.store.Suppliers.Create(ctx, &sp); err != nil {
		return models.Supplier{}, err
	}
	s.publish(ctx, suppliersCollection, notify.ActionCreate, sp.ID)
	return sp, nil
}

// UpdateSupplier edits a supplier's details and carries a rename onto its
// memos and loading slips.
func (s *BookService) UpdateSupplier(ctx context.Context, id string, in models.Supplier) (models.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return models.Supplier{}, err
	}
	mobile, err := normalizeMobile(in.Mobile)
	if err != nil {
		return models.Supplier{}, err
	}
	in.Mobile = mobile
	if err := s.uniqueSupplierName(ctx, in.Name, id); err != nil {
		return models.Supplier{}, err
	}
	o := owner{kind: models.OwnerSupplier, id: id}

	var updated models.Supplier
	err = s.withOwners(ctx, []owner{o}, func() error {
		current, err := s.GetSupplier(ctx, id)
		if err != nil {
			return err
		}
		memos, err := s.store.Memos.GetBySupplier(ctx, *current)
		if err != nil {
			return err
		}

		updated = in
		updated.ID = id
		updated.Balance = current.Balance
		updated.ActiveTrips = current.ActiveTrips
		updated.CreatedAt = current.CreatedAt
		if err := s.store.Suppliers.Update(ctx, &updated); err != nil {
			return err
		}
		for _, m := range memos {
			if m.SupplierID == id && m.SupplierName == updated.Name {
				continue
			}
			m.SupplierID = id
			m.SupplierName = updated.Name
			if err := s.store.Memos.Update(ctx, &m); err != nil {
				return fmt.Errorf("relink memo %s: %w", m.MemoNo, err)
			}
		}
		if err := s.relinkSlips(ctx, *current, updated); err != nil {
			return err
		}
		_, err = s.rebuild(ctx, o)
		return err
	})
	if err != nil {
		return models.Supplier{}, err
	}
	s.publish(ctx, suppliersCollection, notify.ActionUpdate, id, o)
	return updated, nil
}

func (s *BookService) DeleteSupplier(ctx context.Context, id string) error {
	o := owner{kind: models.OwnerSupplier, id: id}
	err := s.withOwners(ctx, []owner{o}, func() error {
		sp, err := s.GetSupplier(ctx, id)
		if err != nil {
			return err
		}
		memos, err := s.store.Memos.GetBySupplier(ctx, *sp)
		if err != nil {
			return err
		}
		if len(memos) > 0 {
			return fmt.Errorf("supplier %s has %d memos: %w", sp.Name, len(memos), ErrInUse)
		}
		if err := s.store.Suppliers.Delete(ctx, id); err != nil {
			return err
		}
		return s.dropLedger(ctx, o)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, suppliersCollection, notify.ActionDelete, id, o)
	return nil
}
