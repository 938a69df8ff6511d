package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNumberToCurrencyWords(t *testing.T) {
	tests := []struct {
		amount decimal.Decimal
		want   string
	}{
		{amt(0), "Zero Rupees Only"},
		{amt(41500), "Forty One Thousand Five Hundred Rupees Only"},
		{amt(150000), "One Lakh Fifty Thousand Rupees Only"},
		{amt(12500000), "One Crore Twenty Five Lakh Rupees Only"},
		{decimal.RequireFromString("101.50"), "One Hundred One Rupees and Fifty Paise Only"},
		{decimal.RequireFromString("0.05"), "Five Paise Only"},
	}
	for _, tt := range tests {
		t.Run(tt.amount.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NumberToCurrencyWords(tt.amount))
		})
	}
}

func sampleLedger() models.Ledger {
	return models.Ledger{
		ID:        "party:p1",
		OwnerKind: models.OwnerParty,
		OwnerID:   "p1",
		Name:      "Sharma Traders",
		Entries: []models.LedgerEntry{
			{Date: "2024-01-05", Type: models.EntryBillCredit, Particulars: "Bill 101", RefNo: "101", RefDate: "2024-01-05", CreditAmount: amt(51500), RunningBalance: amt(51500)},
			{Date: "2024-01-06", Type: models.EntryAdvanceDebit, Particulars: "Advance", RefNo: "101", RefDate: "2024-01-05", DebitAmount: amt(10000), RunningBalance: amt(41500)},
		},
		OutstandingBalance: amt(41500),
		TotalBillAmount:    amt(51500),
	}
}

func TestLedgerRows(t *testing.T) {
	rows := LedgerRows(sampleLedger())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"05/01/2024", "Bill 101", "101", "", "₹51,500", "₹51,500"}, rows[0].Cells)
	assert.Equal(t, []string{"06/01/2024", "Advance", "101", "₹10,000", "", "₹41,500"}, rows[1].Cells)
}

func newGenerator(t *testing.T) (*PDFGenerator, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	g := NewPDFGenerator(repository.NewPDFRepository(store), "../templates")
	g.Print = func(ctx context.Context, html string) ([]byte, error) { return []byte(html), nil }
	return g, store
}

func TestBillPDF(t *testing.T) {
	ctx := context.Background()
	g, store := newGenerator(t)
	require.NoError(t, store.Initial.SaveInitial(ctx, &models.InitialSetup{
		CompanyName: "Hariom Transport",
		Mobile:      []models.MobileEntry{{Number: "9800000000", Label: "Office"}},
	}))
	bill := &models.Bill{
		ID:        "b1",
		BillNo:    "101",
		BillDate:  "2024-01-05",
		PartyName: "Sharma Traders",
		Trips:     []models.BillTrip{{CNNo: "CN-11", From: "Pune", To: "Mumbai", Vehicle: "MH12 AB 1234", Freight: amt(50000)}},
		Detention: amt(2000),
		Mamul:     amt(500),
	}
	require.NoError(t, store.Bills.Create(ctx, bill))

	out, err := g.BillPDF(ctx, "b1")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "Hariom Transport")
	assert.Contains(t, html, "9800000000(Office)")
	assert.Contains(t, html, "Party Copy")
	assert.Contains(t, html, "Office Copy")
	assert.Contains(t, html, "₹51,500")
	assert.Contains(t, html, "Fifty One Thousand Five Hundred Rupees Only")
	assert.Equal(t, 2, bytes.Count(out, []byte("class='doc-copy'")))

	missing, err := g.BillPDF(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBillRows_PrintTripCharges(t *testing.T) {
	detention := amt(750)
	b := models.Bill{Trips: []models.BillTrip{
		{CNNo: "CN-11", LoadingDate: "2024-01-04", From: "Pune", To: "Mumbai", Vehicle: "MH12 AB 1234",
			Weight: decimal.RequireFromString("12.5"), Freight: amt(50000), RTOChallan: amt(300), Detention: &detention},
		{CNNo: "CN-12", Freight: amt(20000)},
	}}

	rows := billRows(b)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CN-11", "04/01/2024", "Pune", "Mumbai", "MH12 AB 1234", "12.5", "₹50,000", "₹300", "₹750", ""}, rows[0].Cells)
	assert.Equal(t, []string{"CN-12", "", "", "", "", "", "₹20,000", "", "", ""}, rows[1].Cells)
}

func TestMemoPDF(t *testing.T) {
	ctx := context.Background()
	g, store := newGenerator(t)
	memo := &models.Memo{
		ID:           "m1",
		MemoNo:       "M-7",
		LoadingDate:  "2024-02-01",
		SupplierName: "Patil Roadways",
		Freight:      amt(20000),
		Commission:   amt(1200),
		Mamul:        amt(300),
		Balance:      amt(18500),
	}
	require.NoError(t, store.Memos.Create(ctx, memo))

	out, err := g.MemoPDF(ctx, "m1")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "M-7")
	assert.Contains(t, html, "Less: Commission")
	assert.Contains(t, html, "₹18,500")
	assert.Contains(t, html, "Supplier Copy")
}

func TestLedgerPDF(t *testing.T) {
	g, _ := newGenerator(t)
	out, err := g.LedgerPDF(context.Background(), sampleLedger())
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "Sharma Traders")
	assert.Contains(t, html, "Statement of Account")
	assert.Contains(t, html, "06/01/2024")
	assert.Contains(t, html, "Forty One Thousand Five Hundred Rupees Only")
}

func TestLedgerWorkbook(t *testing.T) {
	f, err := LedgerWorkbook(sampleLedger())
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(ledgerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Statement of Account: Sharma Traders", title)

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, ledgerHeadings, rows[2])
	assert.Equal(t, "Bill 101", rows[3][1])
	assert.Equal(t, "41500", rows[4][6])

	outstanding, err := f.GetCellValue(ledgerSheet, "G10")
	require.NoError(t, err)
	assert.Equal(t, "41500", outstanding)

	raw, err := LedgerXLSX(sampleLedger())
	require.NoError(t, err)
	reopened, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, []string{ledgerSheet}, reopened.GetSheetList())
}

type fakeObjectStore struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	err     error
}

func (f *fakeObjectStore) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestR2Uploader(t *testing.T) {
	ctx := context.Background()
	store := &fakeObjectStore{}
	u := newR2Uploader(store, "docs", "https://files.example.com/")

	link, err := u.Upload(ctx, []byte("%PDF"), "pdfs/bill 101.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/bill%20101.pdf", link)
	require.Len(t, store.puts, 1)
	assert.Equal(t, "docs", *store.puts[0].Bucket)
	assert.Equal(t, "bill 101.pdf", *store.puts[0].Key)

	require.NoError(t, u.Delete(ctx, link))
	require.Len(t, store.deletes, 1)
	assert.Equal(t, "bill 101.pdf", *store.deletes[0].Key)

	store.err = errors.New("bucket unreachable")
	_, err = u.Upload(ctx, []byte("%PDF"), "x.pdf", "application/pdf")
	assert.ErrorContains(t, err, "bucket unreachable")
}

func TestNewR2Uploader_Disabled(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), config.R2Config{})
	assert.ErrorIs(t, err, ErrR2Disabled)
}
