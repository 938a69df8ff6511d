package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hariomtransport/books/lock"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/repository"
	"github.com/hariomtransport/books/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, amt(want).String(), got.String(), msgAndArgs...)
}

var fixedNow = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(t *testing.T, opts service.Options) (*service.BookService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	return newServiceOn(store, opts), store
}

func newServiceOn(store *repository.Store, opts service.Options) *service.BookService {
	if opts.NewID == nil {
		opts.NewID = seqIDs()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return service.NewBookService(store, opts)
}

func createParty(t *testing.T, svc *service.BookService, name string) models.Party {
	t.Helper()
	p, err := svc.CreateParty(context.Background(), models.Party{Name: name})
	require.NoError(t, err)
	return p
}

func createSupplier(t *testing.T, svc *service.BookService, name string) models.Supplier {
	t.Helper()
	sp, err := svc.CreateSupplier(context.Background(), models.Supplier{Name: name})
	require.NoError(t, err)
	return sp
}

// scenarioBill is freight 50000, detention 2000, mamul 500 and an advance
// of 10000 taken on creation.
func scenarioBill(partyID string) models.Bill {
	return models.Bill{
		BillNo:   "101",
		BillDate: "2024-01-05",
		PartyID:  partyID,
		Trips: []models.BillTrip{{
			CNNo:        "CN-11",
			LoadingDate: "2024-01-04",
			From:        "Pune",
			To:          "Mumbai",
			Vehicle:     "MH12 AB 1234",
			Freight:     amt(50000),
		}},
		Detention: amt(2000),
		Mamul:     amt(500),
		Advances:  []models.Advance{{Amount: amt(10000), Date: "2024-01-06"}},
	}
}

func createScenarioBill(t *testing.T, svc *service.BookService, partyID string) models.Bill {
	t.Helper()
	b, err := svc.CreateBill(context.Background(), scenarioBill(partyID))
	require.NoError(t, err)
	return b
}

func scenarioMemo(supplierName string) models.Memo {
	return models.Memo{
		MemoNo:       "M-7",
		LoadingDate:  "2024-02-01",
		SupplierName: supplierName,
		Vehicle:      "MH12 XY 9876",
		From:         "Nashik",
		To:           "Surat",
		Freight:      amt(20000),
		Mamul:        amt(300),
	}
}

func entryTypes(l models.Ledger) []models.LedgerEntryType {
	out := make([]models.LedgerEntryType, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Type
	}
	return out
}

func storedBill(t *testing.T, store *repository.Store, id string) models.Bill {
	t.Helper()
	b, err := store.Bills.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return *b
}

// busyLocker never grants a lock.
type busyLocker struct{}

func (busyLocker) Obtain(ctx context.Context, key string) (lock.Lease, error) {
	return nil, fmt.Errorf("%w: %s", lock.ErrNotObtained, key)
}

// flakyLedgers fails every ledger write while down is set.
type flakyLedgers struct {
	repository.LedgerRepository
	down bool
}

var errLedgerStoreDown = errors.New("ledger store unavailable")

func (f *flakyLedgers) Create(ctx context.Context, l *models.Ledger) error {
	if f.down {
		return errLedgerStoreDown
	}
	return f.LedgerRepository.Create(ctx, l)
}

func (f *flakyLedgers) Update(ctx context.Context, l *models.Ledger) error {
	if f.down {
		return errLedgerStoreDown
	}
	return f.LedgerRepository.Update(ctx, l)
}
