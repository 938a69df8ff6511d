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

const billsCollection = "bills"

func (s *BookService) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.store.Bills.GetAll(ctx)
}

func (s *BookService) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	b, err := s.store.Bills.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("bill %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// BillsByParty lists the bills of one party, including bills stored with
// only the party name.
func (s *BookService) BillsByParty(ctx context.Context, partyID string) ([]models.Bill, error) {
	p, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return s.store.Bills.GetByParty(ctx, *p)
}

func (s *BookService) validateBill(b models.Bill) error {
	if err := s.check(b); err != nil {
		return err
	}
	if strings.TrimSpace(b.PartyID) == "" && strings.TrimSpace(b.PartyName) == "" {
		return invalid("party_name", "required")
	}
	amounts := map[string]decimal.Decimal{
		"mamul":         b.Mamul,
		"detention":     b.Detention,
		"rto_amount":    b.RTOAmount,
		"extra_charges": b.ExtraCharges,
	}
	for i, t := range b.Trips {
		amounts[fmt.Sprintf("trips[%d].freight", i)] = t.Freight
		amounts[fmt.Sprintf("trips[%d].rto_challan", i)] = t.RTOChallan
		if t.Detention != nil {
			amounts[fmt.Sprintf("trips[%d].detention", i)] = *t.Detention
		}
		if t.Mamul != nil {
			amounts[fmt.Sprintf("trips[%d].mamul", i)] = *t.Mamul
		}
	}
	for i, a := range b.Advances {
		amounts[fmt.Sprintf("advances[%d].amount", i)] = a.Amount
	}
	return nonNegative(amounts)
}

// resolveParty finds the party a bill is written to, by id first and then
// by name.
func (s *BookService) resolveParty(ctx context.Context, b models.Bill) (*models.Party, error) {
	var (
		p   *models.Party
		err error
	)
	if b.PartyID != "" {
		p, err = s.store.Parties.Get(ctx, b.PartyID)
	} else {
		p, err = s.store.Parties.GetByName(ctx, b.PartyName)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("bill %s: %w", b.BillNo, ErrPartyNotFound)
	}
	return p, nil
}

func (s *BookService) uniqueBillNo(ctx context.Context, billNo, selfID string) error {
	other, err := s.store.Bills.GetByNo(ctx, billNo)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("bill number %s: %w", billNo, ErrDuplicate)
	}
	return nil
}

func (s *BookService) assignBillIDs(b *models.Bill) {
	for i := range b.Trips {
		if b.Trips[i].ID == "" {
			b.Trips[i].ID = s.newID()
		}
	}
	for i := range b.Advances {
		if b.Advances[i].ID == "" {
			b.Advances[i].ID = s.newID()
		}
	}
}

// CreateBill stores a new pending bill. Payments are only recorded through
// ApplyPayment, so any sent with the bill are dropped.
func (s *BookService) CreateBill(ctx context.Context, b models.Bill) (models.Bill, error) {
	if err := s.validateBill(b); err != nil {
		return models.Bill{}, err
	}
	party, err := s.resolveParty(ctx, b)
	if err != nil {
		return models.Bill{}, err
	}
	if err := s.uniqueBillNo(ctx, b.BillNo, ""); err != nil {
		return models.Bill{}, err
	}

	b.ID = s.newID()
	b.PartyID = party.ID
	b.PartyName = party.Name
	b.Payments = nil
	b.TotalDeductions = decimal.Zero
	b.NetAmountReceived = decimal.Zero
	b.ReceivedDate = nil
	b.ReceivedNarration = nil
	b.Status = models.BillPending
	b.CreatedAt = s.now()
	b.UpdatedAt = nil
	s.assignBillIDs(&b)
	if b, err = s.fixBill(ctx, b); err != nil {
		return models.Bill{}, err
	}

	o := owner{kind: models.OwnerParty, id: party.ID}
	err = s.withOwners(ctx, []owner{o}, func() error {
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Bills.Create(ctx, &b) },
			func() error { return s.store.Bills.Delete(ctx, b.ID) },
		)
	})
	if err != nil {
		return models.Bill{}, err
	}
	s.publish(ctx, billsCollection, notify.ActionCreate, b.ID, o)
	return b, nil
}

// UpdateBill replaces the editable fields of a bill. Payments, received
// totals and the received date are kept from the stored bill. Moving a bill
// to another party rebuilds both parties' ledgers.
func (s *BookService) UpdateBill(ctx context.Context, id string, in models.Bill) (models.Bill, error) {
	if err := s.validateBill(in); err != nil {
		return models.Bill{}, err
	}
	existing, err := s.GetBill(ctx, id)
	if err != nil {
		return models.Bill{}, err
	}
	party, err := s.resolveParty(ctx, in)
	if err != nil {
		return models.Bill{}, err
	}
	if err := s.uniqueBillNo(ctx, in.BillNo, id); err != nil {
		return models.Bill{}, err
	}
	previous, err := s.billOwner(ctx, *existing)
	if err != nil {
		return models.Bill{}, err
	}
	next := owner{kind: models.OwnerParty, id: party.ID}
	owners := []owner{previous, next}

	var updated models.Bill
	err = s.withOwners(ctx, owners, func() error {
		current, err := s.GetBill(ctx, id)
		if err != nil {
			return err
		}
		updated = in.Clone()
		updated.ID = id
		updated.PartyID = party.ID
		updated.PartyName = party.Name
		updated.Payments = current.Payments
		updated.TotalDeductions = current.TotalDeductions
		updated.NetAmountReceived = current.NetAmountReceived
		updated.ReceivedDate = current.ReceivedDate
		updated.ReceivedNarration = current.ReceivedNarration
		updated.Status = current.Status
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = s.nowPtr()
		s.assignBillIDs(&updated)
		if updated, err = s.fixBill(ctx, updated); err != nil {
			return err
		}

		return s.commit(ctx, owners,
			func() error { return s.store.Bills.Update(ctx, &updated) },
			func() error { return s.store.Bills.Update(ctx, current) },
		)
	})
	if err != nil {
		return models.Bill{}, err
	}
	s.publish(ctx, billsCollection, notify.ActionUpdate, id, owners...)
	return updated, nil
}

// DeleteBill removes a bill and unlinks the loading slips that point to it.
func (s *BookService) DeleteBill(ctx context.Context, id string) error {
	existing, err := s.GetBill(ctx, id)
	if err != nil {
		return err
	}
	o, err := s.billOwner(ctx, *existing)
	if err != nil {
		return err
	}
	err = s.withOwners(ctx, []owner{o}, func() error {
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Bills.Delete(ctx, id) },
			func() error { return s.store.Bills.Create(ctx, existing) },
		)
	})
	if err != nil {
		return err
	}
	if err := s.rewriteSlips(ctx, func(sl *models.LoadingSlip) bool {
		if sl.BillID == nil || *sl.BillID != id {
			return false
		}
		sl.BillID = nil
		return true
	}); err != nil {
		return err
	}
	s.publish(ctx, billsCollection, notify.ActionDelete, id, o)
	return nil
}

// changeBill applies fn to the stored bill under the party's lock, writes
// the result and rebuilds the party's ledger. The stored bill is restored
// when the rebuild fails.
func (s *BookService) changeBill(ctx context.Context, id string, fn func(models.Bill) (models.Bill, error)) (models.Bill, owner, error) {
	existing, err := s.GetBill(ctx, id)
	if err != nil {
		return models.Bill{}, owner{}, err
	}
	o, err := s.billOwner(ctx, *existing)
	if err != nil {
		return models.Bill{}, owner{}, err
	}

	var updated models.Bill
	err = s.withOwners(ctx, []owner{o}, func() error {
		current, err := s.GetBill(ctx, id)
		if err != nil {
			return err
		}
		updated, err = fn(current.Clone())
		if err != nil {
			return err
		}
		updated.UpdatedAt = s.nowPtr()
		return s.commit(ctx, []owner{o},
			func() error { return s.store.Bills.Update(ctx, &updated) },
			func() error { return s.store.Bills.Update(ctx, current) },
		)
	})
	if err != nil {
		return models.Bill{}, owner{}, err
	}
	s.publish(ctx, billsCollection, notify.ActionUpdate, id, o)
	return updated, o, nil
}

func (s *BookService) AddBillAdvance(ctx context.Context, billID string, adv models.Advance) (models.Bill, error) {
	if err := s.check(adv); err != nil {
		return models.Bill{}, err
	}
	if !adv.Amount.IsPositive() {
		return models.Bill{}, invalid("amount", "gt=0")
	}
	b, _, err := s.changeBill(ctx, billID, func(b models.Bill) (models.Bill, error) {
		if adv.ID == "" {
			adv.ID = s.newID()
		}
		for _, a := range b.Advances {
			if a.ID == adv.ID {
				return b, fmt.Errorf("advance %s: %w", adv.ID, ErrDuplicate)
			}
		}
		b.Advances = append(b.Advances, adv)
		return s.fixBill(ctx, b)
	})
	return b, err
}

func (s *BookService) RemoveBillAdvance(ctx context.Context, billID, advanceID string) (models.Bill, error) {
	b, _, err := s.changeBill(ctx, billID, func(b models.Bill) (models.Bill, error) {
		kept := b.Advances[:0:0]
		for _, a := range b.Advances {
			if a.ID != advanceID {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(b.Advances) {
			return b, fmt.Errorf("advance %s: %w", advanceID, ErrAdvanceNotFound)
		}
		b.Advances = kept
		return s.fixBill(ctx, b)
	})
	return b, err
}

// fixBill is ledger.FixBill with the money received through bank entries
// linked to the bill counted.
func (s *BookService) fixBill(ctx context.Context, b models.Bill) (models.Bill, error) {
	bills, err := s.store.Bills.GetAll(ctx)
	if err != nil {
		return models.Bill{}, err
	}
	bank, err := s.store.BankEntries.GetAll(ctx)
	if err != nil {
		return models.Bill{}, err
	}
	book := make([]models.Bill, 0, len(bills)+1)
	for _, other := range bills {
		if other.ID != b.ID {
			book = append(book, other)
		}
	}
	book = append(book, b)
	return ledger.FixBankedBill(b, ledger.BankedBills(book, bank).Of(b.ID)), nil
}

// guardBill applies the balance sanity guard before a payment is computed
// from the stored balance.
func (s *BookService) guardBill(b models.Bill) models.Bill {
	check := ledger.ValidateBillBalance(b)
	if check.IsValid {
		return b
	}
	s.logger.WithField("module", moduleName).WithField("billID", b.ID).Warn(check.Warning)
	b.Balance = *check.CorrectedBalance
	return b
}

// ApplyPayment records a payment against a bill. The returned ledger
// entries carry the running balances of the rebuilt party ledger.
func (s *BookService) ApplyPayment(ctx context.Context, billID string, form models.PaymentForm) (ledger.PaymentResult, error) {
	if err := s.check(form); err != nil {
		return ledger.PaymentResult{}, err
	}
	var res ledger.PaymentResult
	_, o, err := s.changeBill(ctx, billID, func(b models.Bill) (models.Bill, error) {
		var err error
		res, err = ledger.ApplyBillPayment(s.guardBill(b), form, s.newID, s.now())
		if err != nil {
			return b, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return res.UpdatedBill, nil
	})
	if err != nil {
		return ledger.PaymentResult{}, err
	}
	s.positionEntries(ctx, o, res.LedgerEntries)
	return res, nil
}

// positionEntries replaces bill-local running balances with the ones the
// owner's stored ledger assigns.
func (s *BookService) positionEntries(ctx context.Context, o owner, entries []models.LedgerEntry) {
	if o.id == "" || len(entries) == 0 {
		return
	}
	l, err := s.store.Ledgers.Get(ctx, models.LedgerID(o.kind, o.id))
	if err != nil || l == nil {
		return
	}
	byID := make(map[string]decimal.Decimal, len(l.Entries))
	for _, e := range l.Entries {
		byID[e.ID] = e.RunningBalance
	}
	for i := range entries {
		if rb, ok := byID[entries[i].ID]; ok {
			entries[i].RunningBalance = rb
		}
	}
}

// MarkReceived settles a bill as received. Any remaining balance is first
// recorded as a payment on the received date so the ledger closes at zero.
func (s *BookService) MarkReceived(ctx context.Context, billID string, form models.ReceivedForm) (models.Bill, error) {
	if err := s.check(form); err != nil {
		return models.Bill{}, err
	}
	b, _, err := s.changeBill(ctx, billID, func(b models.Bill) (models.Bill, error) {
		b = s.guardBill(b)
		if b.Balance.IsPositive() {
			res, err := ledger.ApplyBillPayment(b, models.PaymentForm{
				PaymentDate:    form.ReceivedDate,
				ReceivedAmount: b.Balance,
				Remarks:        form.Narration,
			}, s.newID, s.now())
			if err != nil {
				return b, fmt.Errorf("%w: %w", ErrValidation, err)
			}
			b = res.UpdatedBill
		}
		date := form.ReceivedDate
		b.Status = models.BillReceived
		b.ReceivedDate = &date
		if form.Narration != "" {
			narration := form.Narration
			b.ReceivedNarration = &narration
		}
		return b, nil
	})
	return b, err
}
