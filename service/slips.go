package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/notify"
	"github.com/shopspring/decimal"
)

const slipsCollection = "loading_slips"

func (s *BookService) ListLoadingSlips(ctx context.Context) ([]models.LoadingSlip, error) {
	return s.store.LoadingSlips.GetAll(ctx)
}

func (s *BookService) GetLoadingSlip(ctx context.Context, id string) (*models.LoadingSlip, error) {
	sl, err := s.store.LoadingSlips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl == nil {
		return nil, fmt.Errorf("loading slip %s: %w", id, ErrNotFound)
	}
	return sl, nil
}

// prepareSlip validates a slip and fills the supplier id from the supplier
// name. Slips may name a supplier that has not been created yet.
func (s *BookService) prepareSlip(ctx context.Context, sl *models.LoadingSlip) error {
	if err := s.check(*sl); err != nil {
		return err
	}
	if err := nonNegative(map[string]decimal.Decimal{"freight": sl.Freight, "advance": sl.Advance}); err != nil {
		return err
	}
	if sl.SupplierID != "" {
		sp, err := s.GetSupplier(ctx, sl.SupplierID)
		if err != nil {
			return err
		}
		sl.SupplierName = sp.Name
		return nil
	}
	if strings.TrimSpace(sl.SupplierName) == "" {
		return nil
	}
	sp, err := s.store.Suppliers.GetByName(ctx, sl.SupplierName)
	if err != nil {
		return err
	}
	if sp != nil {
		sl.SupplierID = sp.ID
		sl.SupplierName = sp.Name
	}
	return nil
}

// linkMemo points the memo at the slip. A memo can back only one slip.
func (s *BookService) linkMemo(ctx context.Context, memoID, slipID string) error {
	m, err := s.GetMemo(ctx, memoID)
	if err != nil {
		return err
	}
	if m.LoadingSlipID != nil && *m.LoadingSlipID != slipID {
		return fmt.Errorf("memo %s is linked to another loading slip: %w", m.MemoNo, ErrInUse)
	}
	if m.LoadingSlipID != nil {
		return nil
	}
	m.LoadingSlipID = &slipID
	return s.store.Memos.Update(ctx, m)
}

func (s *BookService) unlinkMemo(ctx context.Context, memoID, slipID string) error {
	m, err := s.store.Memos.Get(ctx, memoID)
	if err != nil || m == nil {
		return err
	}
	if m.LoadingSlipID == nil || *m.LoadingSlipID != slipID {
		return nil
	}
	m.LoadingSlipID = nil
	return s.store.Memos.Update(ctx, m)
}

func (s *BookService) CreateLoadingSlip(ctx context.Context, sl models.LoadingSlip) (models.LoadingSlip, error) {
	if err := s.prepareSlip(ctx, &sl); err != nil {
		return models.LoadingSlip{}, err
	}
	sl.ID = s.newID()
	sl.CreatedAt = s.now()
	if sl.MemoID != nil {
		if err := s.linkMemo(ctx, *sl.MemoID, sl.ID); err != nil {
			return models.LoadingSlip{}, err
		}
	}
	if err := s.store.LoadingSlips.Create(ctx, &sl); err != nil {
		return models.LoadingSlip{}, err
	}
	s.publish(ctx, slipsCollection, notify.ActionCreate, sl.ID)
	return sl, nil
}

func (s *BookService) UpdateLoadingSlip(ctx context.Context, id string, in models.LoadingSlip) (models.LoadingSlip, error) {
	existing, err := s.GetLoadingSlip(ctx, id)
	if err != nil {
		return models.LoadingSlip{}, err
	}
	if err := s.prepareSlip(ctx, &in); err != nil {
		return models.LoadingSlip{}, err
	}
	in.ID = id
	in.CreatedAt = existing.CreatedAt

	if existing.MemoID != nil && (in.MemoID == nil || *in.MemoID != *existing.MemoID) {
		if err := s.unlinkMemo(ctx, *existing.MemoID, id); err != nil {
			return models.LoadingSlip{}, err
		}
	}
	if in.MemoID != nil {
		if err := s.linkMemo(ctx, *in.MemoID, id); err != nil {
			return models.LoadingSlip{}, err
		}
	}
	if err := s.store.LoadingSlips.Update(ctx, &in); err != nil {
		return models.LoadingSlip{}, err
	}
	s.publish(ctx, slipsCollection, notify.ActionUpdate, id)
	return in, nil
}

func (s *BookService) DeleteLoadingSlip(ctx context.Context, id string) error {
	existing, err := s.GetLoadingSlip(ctx, id)
	if err != nil {
		return err
	}
	if existing.MemoID != nil {
		if err := s.unlinkMemo(ctx, *existing.MemoID, id); err != nil {
			return err
		}
	}
	if err := s.store.LoadingSlips.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, slipsCollection, notify.ActionDelete, id)
	return nil
}

// rewriteSlips stores every slip that change modified.
func (s *BookService) rewriteSlips(ctx context.Context, change func(*models.LoadingSlip) bool) error {
	slips, err := s.store.LoadingSlips.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range slips {
		if !change(&slips[i]) {
			continue
		}
		if err := s.store.LoadingSlips.Update(ctx, &slips[i]); err != nil {
			return fmt.Errorf("rewrite loading slip %s: %w", slips[i].SlipNo, err)
		}
	}
	return nil
}

// relinkSlips carries a supplier rename onto its loading slips.
func (s *BookService) relinkSlips(ctx context.Context, before, after models.Supplier) error {
	return s.rewriteSlips(ctx, func(sl *models.LoadingSlip) bool {
		matches := sl.SupplierID == before.ID ||
			(sl.SupplierID == "" && strings.EqualFold(strings.TrimSpace(sl.SupplierName), strings.TrimSpace(before.Name)))
		if !matches || (sl.SupplierID == after.ID && sl.SupplierName == after.Name) {
			return false
		}
		sl.SupplierID = after.ID
		sl.SupplierName = after.Name
		return true
	})
}
