package repository

import (
	"context"

	"github.com/hariomtransport/books/models"
)

// InitialRepository stores the company header printed on documents. Only
// the latest setup is ever read.
type InitialRepository interface {
	SaveInitial(ctx context.Context, initial *models.InitialSetup) error
	GetInitial(ctx context.Context) (*models.InitialSetup, error)
}
