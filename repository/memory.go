package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
)

// MemoryCollection keeps records in insertion order. Values are copied in
// and out so callers never share slices with the store.
type MemoryCollection[T any, P entity[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewMemoryCollection[T any, P entity[T]]() *MemoryCollection[T, P] {
	return &MemoryCollection[T, P]{items: map[string]T{}}
}

func cloneOf[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}

func (c *MemoryCollection[T, P]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneOf(c.items[id]))
	}
	return out, nil
}

func (c *MemoryCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	v = cloneOf(v)
	return &v, nil
}

func (c *MemoryCollection[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	if p.EntityID() == "" {
		p.SetEntityID(uuid.NewString())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[p.EntityID()]; exists {
		return ErrDuplicate
	}
	c.items[p.EntityID()] = cloneOf(*item)
	c.order = append(c.order, p.EntityID())
	return nil
}

func (c *MemoryCollection[T, P]) Update(ctx context.Context, item *T) error {
	id := P(item).EntityID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		return ErrNotFound
	}
	c.items[id] = cloneOf(*item)
	return nil
}

func (c *MemoryCollection[T, P]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		return ErrNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Find returns copies of the records matching keep, in insertion order.
func (c *MemoryCollection[T, P]) Find(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range c.order {
		if v := c.items[id]; keep(v) {
			out = append(out, cloneOf(v))
		}
	}
	return out
}

type MemoryBillRepo struct {
	*MemoryCollection[models.Bill, *models.Bill]
}

func (r MemoryBillRepo) GetByParty(ctx context.Context, party models.Party) ([]models.Bill, error) {
	return r.Find(func(b models.Bill) bool { return ledger.BillBelongsTo(b, party) }), nil
}

func (r MemoryBillRepo) GetByNo(ctx context.Context, billNo string) (*models.Bill, error) {
	key := ledger.NormalizeNo(billNo)
	found := r.Find(func(b models.Bill) bool { return key != "" && ledger.NormalizeNo(b.BillNo) == key })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

type MemoryMemoRepo struct {
	*MemoryCollection[models.Memo, *models.Memo]
}

func (r MemoryMemoRepo) GetBySupplier(ctx context.Context, supplier models.Supplier) ([]models.Memo, error) {
	return r.Find(func(m models.Memo) bool { return ledger.MemoBelongsTo(m, supplier) }), nil
}

func (r MemoryMemoRepo) GetByNo(ctx context.Context, memoNo string) (*models.Memo, error) {
	key := ledger.NormalizeNo(memoNo)
	found := r.Find(func(m models.Memo) bool { return key != "" && ledger.NormalizeNo(m.MemoNo) == key })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

type MemoryPartyRepo struct {
	*MemoryCollection[models.Party, *models.Party]
}

func (r MemoryPartyRepo) GetByName(ctx context.Context, name string) (*models.Party, error) {
	found := r.Find(func(p models.Party) bool { return sameName(p.Name, name) })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

type MemorySupplierRepo struct {
	*MemoryCollection[models.Supplier, *models.Supplier]
}

func (r MemorySupplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	found := r.Find(func(s models.Supplier) bool { return sameName(s.Name, name) })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

type MemoryInitialRepo struct {
	mu      sync.RWMutex
	initial *models.InitialSetup
	nextID  int64
}

func (r *MemoryInitialRepo) SaveInitial(ctx context.Context, initial *models.InitialSetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = time.Now().UTC()
	}
	if initial.ID == 0 {
		r.nextID++
		initial.ID = r.nextID
	}
	saved := *initial
	saved.Mobile = append([]models.MobileEntry(nil), initial.Mobile...)
	r.initial = &saved
	return nil
}

func (r *MemoryInitialRepo) GetInitial(ctx context.Context) (*models.InitialSetup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.initial == nil {
		return nil, nil
	}
	out := *r.initial
	out.Mobile = append([]models.MobileEntry(nil), r.initial.Mobile...)
	return &out, nil
}

// NewMemoryStore returns an empty in-process store, used by tests and by
// DB_TYPE=memory.
func NewMemoryStore() *Store {
	return &Store{
		Bills:        MemoryBillRepo{NewMemoryCollection[models.Bill]()},
		Memos:        MemoryMemoRepo{NewMemoryCollection[models.Memo]()},
		BankEntries:  NewMemoryCollection[models.BankEntry](),
		Parties:      MemoryPartyRepo{NewMemoryCollection[models.Party]()},
		Suppliers:    MemorySupplierRepo{NewMemoryCollection[models.Supplier]()},
		LoadingSlips: NewMemoryCollection[models.LoadingSlip](),
		Ledgers:      NewMemoryCollection[models.Ledger](),
		Initial:      &MemoryInitialRepo{},
	}
}
