package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/notify"
	"github.com/shopspring/decimal"
)

const memosCollection = "memos"

func (s *BookService) ListMemos(ctx context.Context) ([]models.Memo, error) {
	return s.store.Memos.GetAll(ctx)
}

func (s *BookService) GetMemo(ctx context.Context, id string) (*models.Memo, error) {
	m, err := s.store.Memos.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("memo %s: %w", id, ErrNotFound)
	}
	return m, nil
}

func (s *BookService) MemosBySupplier(ctx context.Context, supplierID string) ([]models.Memo, error) {
	sp, err := s.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return s.store.Memos.GetBySupplier(ctx, *sp)
}

func (s *BookService) validateMemo(m models.Memo) error {
	if err := s.check(m); err != nil {
		return err
	}
	if strings.TrimSpace(m.SupplierID) == "" && strings.TrimSpace(m.SupplierName) == "" {
		return invalid("supplier_name", "required")
	}
	amounts := map[string]decimal.Decimal{
		"freight":      m.Freight,
		"commission":   m.Commission,
		"mamul":        m.Mamul,
		"detention":    m.Detention,
		"rto_amount":   m.RTOAmount,
		"extra_charge": m.ExtraCharge,
	}
	for i, a := range m.Advances {
		amounts[fmt.Sprintf("advances[%d].amount", i)] = a.Amount
	}
	return nonNegative(amounts)
}

func (s *BookService) resolveSupplier(ctx context.Context, m models.Memo) (*models.Supplier, error) {
	var (
		sp  *models.Supplier
		err error
	)
	if m.SupplierID != "" {
		sp, err = s.store.Suppliers.Get(ctx, m.SupplierID)
	} else {
		sp, err = s.store.Suppliers.GetByName(ctx, m.SupplierName)
	}
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, fmt.Errorf("memo %s: %w", m.MemoNo, ErrSupplierNotFound)
	}
	return sp, nil
}

func (s *BookService) uniqueMemoNo(ctx context.Context, memoNo, selfID string) error {
	other, err := s.store.Memos.GetByNo(ctx, memoNo)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("memo number %s: %w", memoNo, ErrDuplicate)
	}
	return nil
}

func (s *BookService) assignAdvanceIDs(advances []models.Advance) {
	for i := range advances {
		if advances[i].ID == "" {
			advances[i].ID = s.newID()
		}
	}
}

// CreateMemo stores a new memo. A memo sent without commission is charged
// the configured commission rate on its freight.
func (s *BookService) CreateMemo(ctx context.Context, m models.Memo) (models.Memo, error) {
	if err := s.validateMemo(m); err != nil {
		return models.Memo{}, err
	}
	supplier, err := s.resolveSupplier(ctx, m)
	if err != nil {
		return models.Memo{}, err
	}
	if err := s.uniqueMemoNo(ctx, m.MemoNo, ""); err != nil {
		return models.Memo{}, err
	}

	m.ID = s.newID()
	m.SupplierID = supplier.ID
	m.SupplierName = supplier.Name
	if m.Commission.IsZero() {
		m.Commission = ledger.Commission(m.Freight, s.commissionRate)
	}
	m.Payments = nil
	m.PaidAmount = decimal.Zero
	m.PaidDate = nil
	m.Status = models.MemoPending
	m.CreatedAt = s.now()
	m.UpdatedAt = nil
	m.Advances = append([]models.Advance(nil), m.Advances...)
	s.assignAdvanceIDs(m.Advances)
	if m, err = s.fixMemo(ctx, m); err != nil {
		return models.Memo{}, err
	}

	o := owner{kind: models.OwnerSupplier, id: supplier.ID}
	err = s.withOwners(ctx, []owner{o}, func() error {
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Memos.Create(ctx, &m) },
			func() error { return s.store.Memos.Delete(ctx, m.ID) },
		)
	})
	if err != nil {
		return models.Memo{}, err
	}
	s.publish(ctx, memosCollection, notify.ActionCreate, m.ID, o)
	return m, nil
}

// UpdateMemo replaces the editable fields of a memo. Payments and the
// loading slip link are kept from the stored memo.
func (s *BookService) UpdateMemo(ctx context.Context, id string, in models.Memo) (models.Memo, error) {
	if err := s.validateMemo(in); err != nil {
		return models.Memo{}, err
	}
	existing, err := s.GetMemo(ctx, id)
	if err != nil {
		return models.Memo{}, err
	}
	supplier, err := s.resolveSupplier(ctx, in)
	if err != nil {
		return models.Memo{}, err
	}
	if err := s.uniqueMemoNo(ctx, in.MemoNo, id); err != nil {
		return models.Memo{}, err
	}
	previous, err := s.memoOwner(ctx, *existing)
	if err != nil {
		return models.Memo{}, err
	}
	owners := []owner{previous, {kind: models.OwnerSupplier, id: supplier.ID}}

	var updated models.Memo
	err = s.withOwners(ctx, owners, func() error {
		current, err := s.GetMemo(ctx, id)
		if err != nil {
			return err
		}
		updated = in.Clone()
		updated.ID = id
		updated.SupplierID = supplier.ID
		updated.SupplierName = supplier.Name
		updated.Payments = current.Payments
		updated.PaidAmount = current.PaidAmount
		updated.PaidDate = current.PaidDate
		updated.LoadingSlipID = current.LoadingSlipID
		updated.Status = current.Status
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = s.nowPtr()
		s.assignAdvanceIDs(updated.Advances)
		if updated, err = s.fixMemo(ctx, updated); err != nil {
			return err
		}

		return s.commit(ctx, owners,
			func() error { return s.store.Memos.Update(ctx, &updated) },
			func() error { return s.store.Memos.Update(ctx, current) },
		)
	})
	if err != nil {
		return models.Memo{}, err
	}
	s.publish(ctx, memosCollection, notify.ActionUpdate, id, owners...)
	return updated, nil
}

// DeleteMemo removes a memo and clears the loading slips that point to it.
func (s *BookService) DeleteMemo(ctx context.Context, id string) error {
	existing, err := s.GetMemo(ctx, id)
	if err != nil {
		return err
	}
	o, err := s.memoOwner(ctx, *existing)
	if err != nil {
		return err
	}
	err = s.withOwners(ctx, []owner{o}, func() error {
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Memos.Delete(ctx, id) },
			func() error { return s.store.Memos.Create(ctx, existing) },
		)
	})
	if err != nil {
		return err
	}
	if err := s.rewriteSlips(ctx, func(sl *models.LoadingSlip) bool {
		if sl.MemoID == nil || *sl.MemoID != id {
			return false
		}
		sl.MemoID = nil
		return true
	}); err != nil {
		return err
	}
	s.publish(ctx, memosCollection, notify.ActionDelete, id, o)
	return nil
}

func (s *BookService) changeMemo(ctx context.Context, id string, fn func(models.Memo) (models.Memo, error)) (models.Memo, error) {
	existing, err := s.GetMemo(ctx, id)
	if err != nil {
		return models.Memo{}, err
	}
	o, err := s.memoOwner(ctx, *existing)
	if err != nil {
		return models.Memo{}, err
	}

	var updated models.Memo
	err = s.withOwners(ctx, []owner{o}, func() error {
		current, err := s.GetMemo(ctx, id)
		if err != nil {
			return err
		}
		updated, err = fn(current.Clone())
		if err != nil {
			return err
		}
		updated.UpdatedAt = s.nowPtr()
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Memos.Update(ctx, &updated) },
			func() error { return s.store.Memos.Update(ctx, current) },
		)
	})
	if err != nil {
		return models.Memo{}, err
	}
	s.publish(ctx, memosCollection, notify.ActionUpdate, id, o)
	return updated, nil
}

// fixMemo is ledger.FixMemo with the bank entries paid against the memo
// counted.
func (s *BookService) fixMemo(ctx context.Context, m models.Memo) (models.Memo, error) {
	memos, err := s.store.Memos.GetAll(ctx)
	if err != nil {
		return models.Memo{}, err
	}
	bank, err := s.store.BankEntries.GetAll(ctx)
	if err != nil {
		return models.Memo{}, err
	}
	book := make([]models.Memo, 0, len(memos)+1)
	for _, other := range memos {
		if other.ID != m.ID {
			book = append(book, other)
		}
	}
	book = append(book, m)
	return ledger.FixBankedMemo(m, ledger.BankedMemos(book, bank).Of(m.ID)), nil
}

func (s *BookService) AddMemoAdvance(ctx context.Context, memoID string, adv models.Advance) (models.Memo, error) {
	if err := s.check(adv); err != nil {
		return models.Memo{}, err
	}
	if !adv.Amount.IsPositive() {
		return models.Memo{}, invalid("amount", "gt=0")
	}
	return s.changeMemo(ctx, memoID, func(m models.Memo) (models.Memo, error) {
		if adv.ID == "" {
			adv.ID = s.newID()
		}
		for _, a := range m.Advances {
			if a.ID == adv.ID {
				return m, fmt.Errorf("advance %s: %w", adv.ID, ErrDuplicate)
			}
		}
		m.Advances = append(m.Advances, adv)
		return s.fixMemo(ctx, m)
	})
}

func (s *BookService) RemoveMemoAdvance(ctx context.Context, memoID, advanceID string) (models.Memo, error) {
	return s.changeMemo(ctx, memoID, func(m models.Memo) (models.Memo, error) {
		kept := m.Advances[:0:0]
		for _, a := range m.Advances {
			if a.ID != advanceID {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(m.Advances) {
			return m, fmt.Errorf("advance %s: %w", advanceID, ErrAdvanceNotFound)
		}
		m.Advances = kept
		return s.fixMemo(ctx, m)
	})
}

// PayMemo records a settlement payment to the supplier. The memo is marked
// paid, with the payment date, once nothing remains.
func (s *BookService) PayMemo(ctx context.Context, memoID string, form models.MemoPaymentForm) (models.Memo, error) {
	if err := s.check(form); err != nil {
		return models.Memo{}, err
	}
	if !form.Amount.IsPositive() {
		return models.Memo{}, invalid("amount", "gt=0")
	}
	return s.changeMemo(ctx, memoID, func(m models.Memo) (models.Memo, error) {
		if check := ledger.ValidateMemoBalance(m); !check.IsValid {
			s.logger.WithField("module", moduleName).WithField("memoID", m.ID).Warn(check.Warning)
			m.Balance = *check.CorrectedBalance
		}
		if len(m.Payments) == 0 && m.PaidAmount.IsPositive() {
			m.Payments = append(m.Payments, legacyPayment(m))
		}
		m.Payments = append(m.Payments, models.MemoPayment{
			ID:        s.newID(),
			Date:      form.PaidDate,
			Amount:    form.Amount,
			Reference: form.Reference,
			CreatedAt: s.now(),
		})
		m, err := s.fixMemo(ctx, m)
		if err != nil {
			return m, err
		}
		if m.Status == models.MemoPaid {
			date := form.PaidDate
			m.PaidDate = &date
		}
		return m, nil
	})
}

// legacyPayment turns the paid amount of a memo recorded before
// installments were tracked into its first installment.
func legacyPayment(m models.Memo) models.MemoPayment {
	date := m.LoadingDate
	if m.PaidDate != nil {
		date = *m.PaidDate
	}
	return models.MemoPayment{
		ID:        "paid",
		Date:      date,
		Amount:    m.PaidAmount,
		CreatedAt: m.CreatedAt,
	}
}
