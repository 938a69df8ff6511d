package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParties(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, service.Options{})
	party := createParty(t, svc, "  Sharma Traders ")
	assert.Equal(t, "Sharma Traders", party.Name)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.CreateParty(ctx, models.Party{Name: "sharma traders"})
		assert.ErrorIs(t, err, service.ErrDuplicate)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.CreateParty(ctx, models.Party{Name: "   "})
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("unknown party", func(t *testing.T) {
		_, err := svc.GetParty(ctx, "missing")
		assert.ErrorIs(t, err, service.ErrNotFound)
		assert.ErrorIs(t, err, service.ErrPartyNotFound)
	})

	b := createScenarioBill(t, svc, party.ID)

	t.Run("in use", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteParty(ctx, party.ID), service.ErrInUse)
	})

	t.Run("rename reaches bills", func(t *testing.T) {
		renamed, err := svc.UpdateParty(ctx, party.ID, models.Party{Name: "Sharma Traders Pvt Ltd"})
		require.NoError(t, err)
		assertAmount(t, 41500, renamed.Balance)

		assert.Equal(t, "Sharma Traders Pvt Ltd", storedBill(t, store, b.ID).PartyName)
		l, err := svc.PartyLedger(ctx, party.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sharma Traders Pvt Ltd", l.Name)
	})

	t.Run("delete empty party", func(t *testing.T) {
		empty := createParty(t, svc, "Verma Logistics")
		_, err := svc.PartyLedger(ctx, empty.ID)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteParty(ctx, empty.ID))
		l, err := store.Ledgers.Get(ctx, models.LedgerID(models.OwnerParty, empty.ID))
		require.NoError(t, err)
		assert.Nil(t, l)
		_, err = svc.PartyLedger(ctx, empty.ID)
		assert.ErrorIs(t, err, service.ErrPartyNotFound)
	})
}

func TestSuppliers(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, service.Options{})
	supplier := createSupplier(t, svc, "Patil Roadways")
	m, err := svc.CreateMemo(ctx, scenarioMemo("Patil Roadways"))
	require.NoError(t, err)
	slip, err := svc.CreateLoadingSlip(ctx, models.LoadingSlip{
		SlipNo: "LS-3", Date: "2024-02-01", Vehicle: "MH12 XY 9876", SupplierName: "patil roadways",
	})
	require.NoError(t, err)
	assert.Equal(t, supplier.ID, slip.SupplierID)

	_, err = svc.CreateSupplier(ctx, models.Supplier{Name: "PATIL ROADWAYS"})
	assert.ErrorIs(t, err, service.ErrDuplicate)

	renamed, err := svc.UpdateSupplier(ctx, supplier.ID, models.Supplier{Name: "Patil Road Carriers"})
	require.NoError(t, err)
	assert.Equal(t, "Patil Road Carriers", renamed.Name)

	stored, err := store.Memos.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patil Road Carriers", stored.SupplierName)
	sl, err := store.LoadingSlips.Get(ctx, slip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patil Road Carriers", sl.SupplierName)

	assert.ErrorIs(t, svc.DeleteSupplier(ctx, supplier.ID), service.ErrInUse)

	require.NoError(t, svc.DeleteMemo(ctx, m.ID))
	require.NoError(t, svc.DeleteSupplier(ctx, supplier.ID))
	_, err = svc.GetSupplier(ctx, supplier.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, err, service.ErrSupplierNotFound)
}

func TestLoadingSlips(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, service.Options{})
	createSupplier(t, svc, "Patil Roadways")
	first, err := svc.CreateMemo(ctx, scenarioMemo("Patil Roadways"))
	require.NoError(t, err)
	secondMemo := scenarioMemo("Patil Roadways")
	secondMemo.MemoNo = "M-8"
	second, err := svc.CreateMemo(ctx, secondMemo)
	require.NoError(t, err)

	slip, err := svc.CreateLoadingSlip(ctx, models.LoadingSlip{
		SlipNo: "LS-4", Date: "2024-02-01", Vehicle: "MH12 XY 9876", MemoID: &first.ID,
	})
	require.NoError(t, err)

	_, err = svc.CreateLoadingSlip(ctx, models.LoadingSlip{
		SlipNo: "LS-5", Date: "2024-02-01", Vehicle: "MH12 XY 9876", MemoID: &first.ID,
	})
	assert.ErrorIs(t, err, service.ErrInUse, "a memo backs one slip")

	edit := slip
	edit.MemoID = &second.ID
	_, err = svc.UpdateLoadingSlip(ctx, slip.ID, edit)
	require.NoError(t, err)

	m1, err := store.Memos.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, m1.LoadingSlipID)
	m2, err := store.Memos.Get(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, m2.LoadingSlipID)
	assert.Equal(t, slip.ID, *m2.LoadingSlipID)

	require.NoError(t, svc.DeleteLoadingSlip(ctx, slip.ID))
	m2, err = store.Memos.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, m2.LoadingSlipID)

	_, err = svc.CreateLoadingSlip(ctx, models.LoadingSlip{SlipNo: "LS-6", Date: "2024-02-01"})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestContactNumbers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, service.Options{})

	p, err := svc.CreateParty(ctx, models.Party{Name: "Sharma Traders", Mobile: strPtr("98765 43210")})
	require.NoError(t, err)
	require.NotNil(t, p.Mobile)
	assert.Equal(t, "+919876543210", *p.Mobile)

	_, err = svc.CreateSupplier(ctx, models.Supplier{Name: "Patil Roadlines", Mobile: strPtr("12345")})
	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "phone", ve.Fields["mobile"])

	blank, err := svc.CreateSupplier(ctx, models.Supplier{Name: "Patil Roadlines", Mobile: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, blank.Mobile)

	_, err = svc.SaveInitial(ctx, models.InitialSetup{
		CompanyName: "Hariom Transport",
		Mobile:      []models.MobileEntry{{Number: "98765 43210", Label: "Office"}, {Number: "000"}},
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}
