// Package lock serializes ledger rebuilds per owner. A rebuild reads every
// bill (or memo) of an owner and writes the projection back, so two
// concurrent rebuilds of the same owner must not interleave.
package lock

import (
	"context"
	"errors"

	"github.com/hariomtransport/books/models"
)

var ErrNotObtained = errors.New("lock not obtained")

type Lease interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Obtain blocks until the key is free or ctx is done.
	Obtain(ctx context.Context, key string) (Lease, error)
}

// OwnerKey is the lock key guarding one party's or supplier's ledger.
func OwnerKey(kind models.OwnerKind, ownerID string) string {
	return "ledger:" + string(kind) + ":" + ownerID
}
