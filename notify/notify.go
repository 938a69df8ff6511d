// Package notify is the change feed shared by server instances and devices.
// Every write that affects a ledger publishes an Event; subscribers rebuild
// the owners named in events that originated elsewhere.
package notify

import (
	"context"
	"time"

	"github.com/hariomtransport/books/models"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Event struct {
	Origin     string           `json:"origin"`
	Collection string           `json:"collection"`
	Action     Action           `json:"action"`
	RecordID   string           `json:"record_id"`
	OwnerKind  models.OwnerKind `json:"owner_kind,omitempty"`
	OwnerID    string           `json:"owner_id,omitempty"`
	At         time.Time        `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe delivers events until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan Event, error)
}
