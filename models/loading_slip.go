package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoadingSlip struct {
	ID           string          `json:"id" bson:"_id" db:"id"`
	SlipNo       string          `json:"slip_no" bson:"slip_no" db:"slip_no" validate:"required"`
	Date         string          `json:"date" bson:"date" db:"slip_date" validate:"required,datetime=2006-01-02"`
	Vehicle      string          `json:"vehicle" bson:"vehicle" db:"vehicle" validate:"required"`
	From         string          `json:"from" bson:"from" db:"from_location"`
	To           string          `json:"to" bson:"to" db:"to_location"`
	PartyName    string          `json:"party_name" bson:"party_name" db:"party_name"`
	SupplierID   string          `json:"supplier_id" bson:"supplier_id" db:"supplier_id"`
	SupplierName string          `json:"supplier_name" bson:"supplier_name" db:"supplier_name"`
	Freight      decimal.Decimal `json:"freight" bson:"freight" db:"freight"`
	Advance      decimal.Decimal `json:"advance" bson:"advance" db:"advance"`
	MemoID       *string         `json:"memo_id,omitempty" bson:"memo_id,omitempty" db:"memo_id"`
	BillID       *string         `json:"bill_id,omitempty" bson:"bill_id,omitempty" db:"bill_id"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
}

func (l *LoadingSlip) EntityID() string      { return l.ID }
func (l *LoadingSlip) SetEntityID(id string) { l.ID = id }
