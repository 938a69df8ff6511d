package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is a customer billed for freight. Balance and ActiveTrips are cached
// projections of the party's bills.
type Party struct {
	ID          string          `json:"id" bson:"_id" db:"id"`
	Name        string          `json:"name" bson:"name" db:"name" validate:"required"`
	Mobile      *string         `json:"mobile,omitempty" bson:"mobile,omitempty" db:"mobile"`
	Address     *string         `json:"address,omitempty" bson:"address,omitempty" db:"address"`
	GST         *string         `json:"gst,omitempty" bson:"gst,omitempty" db:"gst"`
	Balance     decimal.Decimal `json:"balance" bson:"balance" db:"balance"`
	ActiveTrips int             `json:"active_trips" bson:"active_trips" db:"active_trips"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
}

func (p *Party) EntityID() string      { return p.ID }
func (p *Party) SetEntityID(id string) { p.ID = id }

// Supplier is a vehicle owner paid through memos.
type Supplier struct {
	ID          string          `json:"id" bson:"_id" db:"id"`
	Name        string          `json:"name" bson:"name" db:"name" validate:"required"`
	Mobile      *string         `json:"mobile,omitempty" bson:"mobile,omitempty" db:"mobile"`
	Address     *string         `json:"address,omitempty" bson:"address,omitempty" db:"address"`
	Balance     decimal.Decimal `json:"balance" bson:"balance" db:"balance"`
	ActiveTrips int             `json:"active_trips" bson:"active_trips" db:"active_trips"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
}

func (s *Supplier) EntityID() string      { return s.ID }
func (s *Supplier) SetEntityID(id string) { s.ID = id }
