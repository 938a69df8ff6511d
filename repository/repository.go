package repository

import (
	"context"
	"errors"

	"github.com/hariomtransport/books/models"
)

var (
	// ErrNotFound is returned by Update and Delete for unknown ids. Single
	// reads return nil, nil instead.
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// entity constrains a collection's element type so its pointer carries the
// record id.
type entity[T any] interface {
	*T
	models.Entity
}

// Collection is the persistence port every store implements. Create assigns
// a new id when the record has none.
type Collection[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

type BillRepository interface {
	Collection[models.Bill]
	// GetByParty returns the party's bills, including bills stored with
	// only the party name.
	GetByParty(ctx context.Context, party models.Party) ([]models.Bill, error)
	// GetByNo matches the bill number case-insensitively, ignoring all
	// whitespace, so "B 1" and "b1" are the same bill.
	GetByNo(ctx context.Context, billNo string) (*models.Bill, error)
}

type MemoRepository interface {
	Collection[models.Memo]
	GetBySupplier(ctx context.Context, supplier models.Supplier) ([]models.Memo, error)
	// GetByNo matches memo numbers the way bill numbers are matched.
	GetByNo(ctx context.Context, memoNo string) (*models.Memo, error)
}

type PartyRepository interface {
	Collection[models.Party]
	// GetByName matches case-insensitively, ignoring surrounding space.
	GetByName(ctx context.Context, name string) (*models.Party, error)
}

type SupplierRepository interface {
	Collection[models.Supplier]
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
}

type BankEntryRepository interface {
	Collection[models.BankEntry]
}

type LoadingSlipRepository interface {
	Collection[models.LoadingSlip]
}

type LedgerRepository interface {
	Collection[models.Ledger]
}

// Store groups the collections of one backend.
type Store struct {
	Bills        BillRepository
	Memos        MemoRepository
	BankEntries  BankEntryRepository
	Parties      PartyRepository
	Suppliers    SupplierRepository
	LoadingSlips LoadingSlipRepository
	Ledgers      LedgerRepository
	Initial      InitialRepository
}
