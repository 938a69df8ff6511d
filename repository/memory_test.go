package repository_test

import (
	"context"
	"testing"

	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	p := models.Party{Name: "Sharma Traders"}
	require.NoError(t, store.Parties.Create(ctx, &p))
	require.NotEmpty(t, p.ID, "create assigns an id")

	got, err := store.Parties.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sharma Traders", got.Name)

	missing, err := store.Parties.Get(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing, "unknown ids read as nil, nil")

	p.Balance = decimal.NewFromInt(100)
	require.NoError(t, store.Parties.Update(ctx, &p))
	got, _ = store.Parties.Get(ctx, p.ID)
	assert.Equal(t, "100", got.Balance.String())

	assert.ErrorIs(t, store.Parties.Create(ctx, &p), repository.ErrDuplicate)
	assert.ErrorIs(t, store.Parties.Update(ctx, &models.Party{ID: "nope"}), repository.ErrNotFound)

	require.NoError(t, store.Parties.Delete(ctx, p.ID))
	assert.ErrorIs(t, store.Parties.Delete(ctx, p.ID), repository.ErrNotFound)
	all, err := store.Parties.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryCollection_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.BankEntries.Create(ctx, &models.BankEntry{ID: id}))
	}
	require.NoError(t, store.BankEntries.Delete(ctx, "a"))

	all, err := store.BankEntries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestMemoryCollection_DoesNotShareSlices(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	b := models.Bill{ID: "bill-1", Advances: []models.Advance{{ID: "a-1", Amount: decimal.NewFromInt(10)}}}
	require.NoError(t, store.Bills.Create(ctx, &b))

	b.Advances[0].Amount = decimal.NewFromInt(99)
	got, err := store.Bills.Get(ctx, "bill-1")
	require.NoError(t, err)
	assert.Equal(t, "10", got.Advances[0].Amount.String())

	got.Advances[0].Amount = decimal.NewFromInt(77)
	again, _ := store.Bills.Get(ctx, "bill-1")
	assert.Equal(t, "10", again.Advances[0].Amount.String())
}

func TestMemoryBillRepo_GetByParty(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	party := models.Party{ID: "party-1", Name: "Sharma Traders"}
	for _, b := range []models.Bill{
		{ID: "b-1", PartyID: "party-1"},
		{ID: "b-2", PartyName: " sharma TRADERS"},
		{ID: "b-3", PartyID: "party-2", PartyName: "Sharma Traders"},
		{ID: "b-4", PartyName: "Kale Logistics"},
	} {
		b := b
		require.NoError(t, store.Bills.Create(ctx, &b))
	}

	bills, err := store.Bills.GetByParty(ctx, party)
	require.NoError(t, err)
	ids := []string{}
	for _, b := range bills {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b-1", "b-2"}, ids)
}

func TestMemoryRepos_GetByName(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Suppliers.Create(ctx, &models.Supplier{ID: "s-1", Name: "Patil Roadlines"}))

	s, err := store.Suppliers.GetByName(ctx, "  patil roadlines ")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "s-1", s.ID)

	s, err = store.Suppliers.GetByName(ctx, "Jadhav")
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryRepos_GetByNo(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Bills.Create(ctx, &models.Bill{ID: "b-1", BillNo: "B1"}))
	require.NoError(t, store.Memos.Create(ctx, &models.Memo{ID: "m-1", MemoNo: "M-7"}))

	for _, no := range []string{"B1", " b1", "B 1", "b\t1 "} {
		b, err := store.Bills.GetByNo(ctx, no)
		require.NoError(t, err)
		require.NotNil(t, b, "bill number %q", no)
		assert.Equal(t, "b-1", b.ID)
	}
	m, err := store.Memos.GetByNo(ctx, "m - 7")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "m-1", m.ID)

	b, err := store.Bills.GetByNo(ctx, "B12")
	assert.NoError(t, err)
	assert.Nil(t, b)
	b, err = store.Bills.GetByNo(ctx, "  ")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestMemoryInitialRepo(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	none, err := store.Initial.GetInitial(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	setup := models.InitialSetup{CompanyName: "Hariom Transport", Mobile: []models.MobileEntry{{Number: "9800000000", Label: "Office"}}}
	require.NoError(t, store.Initial.SaveInitial(ctx, &setup))
	assert.NotZero(t, setup.ID)

	got, err := store.Initial.GetInitial(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hariom Transport", got.CompanyName)
	assert.Len(t, got.Mobile, 1)

	pdfs := repository.NewPDFRepository(store)
	header, err := pdfs.GetInitialForPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hariom Transport", header.CompanyName)
}
