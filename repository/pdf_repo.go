package repository

import (
	"context"

	"github.com/hariomtransport/books/models"
)

// PDFRepository provides the records a generated document needs.
type PDFRepository struct {
	BillRepo    BillRepository
	MemoRepo    MemoRepository
	InitialRepo InitialRepository
}

func NewPDFRepository(store *Store) *PDFRepository {
	return &PDFRepository{
		BillRepo:    store.Bills,
		MemoRepo:    store.Memos,
		InitialRepo: store.Initial,
	}
}

func (r *PDFRepository) GetBillForPDF(ctx context.Context, id string) (*models.Bill, error) {
	return r.BillRepo.Get(ctx, id)
}

func (r *PDFRepository) GetMemoForPDF(ctx context.Context, id string) (*models.Memo, error) {
	return r.MemoRepo.Get(ctx, id)
}

// GetInitialForPDF fetches the company header. Documents are still rendered
// when none has been saved yet.
func (r *PDFRepository) GetInitialForPDF(ctx context.Context) (*models.InitialSetup, error) {
	initial, err := r.InitialRepo.GetInitial(ctx)
	if err != nil {
		return nil, err
	}
	if initial == nil {
		return &models.InitialSetup{}, nil
	}
	return initial, nil
}
