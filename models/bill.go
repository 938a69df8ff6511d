package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillPending               BillStatus = "pending"
	BillFullyPaid             BillStatus = "fully_paid"
	BillSettledWithDeductions BillStatus = "settled_with_deductions"
	BillReceived              BillStatus = "received"
)

// Terminal reports whether the status marks a settled bill.
func (s BillStatus) Terminal() bool {
	return s == BillFullyPaid || s == BillSettledWithDeductions || s == BillReceived
}

// BillTrip is one shipment leg inside a bill. RTOChallan, Detention and
// Mamul are printed against the trip; the bill's own charge fields are what
// the bill total uses.
type BillTrip struct {
	ID          string           `json:"id" bson:"id"`
	CNNo        string           `json:"cn_no" bson:"cn_no"`
	LoadingDate string           `json:"loading_date" bson:"loading_date" validate:"omitempty,datetime=2006-01-02"`
	From        string           `json:"from" bson:"from"`
	To          string           `json:"to" bson:"to"`
	Vehicle     string           `json:"vehicle" bson:"vehicle"`
	Weight      decimal.Decimal  `json:"weight" bson:"weight"`
	Freight     decimal.Decimal  `json:"freight" bson:"freight"`
	RTOChallan  decimal.Decimal  `json:"rto_challan" bson:"rto_challan"`
	Detention   *decimal.Decimal `json:"detention,omitempty" bson:"detention,omitempty"`
	Mamul       *decimal.Decimal `json:"mamul,omitempty" bson:"mamul,omitempty"`
}

type Bill struct {
	ID                string          `json:"id" bson:"_id" db:"id"`
	BillNo            string          `json:"bill_no" bson:"bill_no" db:"bill_no" validate:"required"`
	BillDate          string          `json:"bill_date" bson:"bill_date" db:"bill_date" validate:"required,datetime=2006-01-02"`
	PartyID           string          `json:"party_id" bson:"party_id" db:"party_id"`
	PartyName         string          `json:"party_name" bson:"party_name" db:"party_name"`
	Trips             []BillTrip      `json:"trips" bson:"trips" db:"trips" validate:"dive"`
	TotalFreight      decimal.Decimal `json:"total_freight" bson:"total_freight" db:"total_freight"`
	Mamul             decimal.Decimal `json:"mamul" bson:"mamul" db:"mamul"`
	Detention         decimal.Decimal `json:"detention" bson:"detention" db:"detention"`
	RTOAmount         decimal.Decimal `json:"rto_amount" bson:"rto_amount" db:"rto_amount"`
	ExtraCharges      decimal.Decimal `json:"extra_charges" bson:"extra_charges" db:"extra_charges"`
	Advances          []Advance       `json:"advances" bson:"advances" db:"advances" validate:"dive"`
	Balance           decimal.Decimal `json:"balance" bson:"balance" db:"balance"`
	Status            BillStatus      `json:"status" bson:"status" db:"status"`
	Payments          []BillPayment   `json:"payments" bson:"payments" db:"payments"`
	TotalDeductions   decimal.Decimal `json:"total_deductions" bson:"total_deductions" db:"total_deductions"`
	NetAmountReceived decimal.Decimal `json:"net_amount_received" bson:"net_amount_received" db:"net_amount_received"`
	ReceivedDate      *string         `json:"received_date,omitempty" bson:"received_date,omitempty" db:"received_date"`
	ReceivedNarration *string         `json:"received_narration,omitempty" bson:"received_narration,omitempty" db:"received_narration"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

func (b *Bill) EntityID() string      { return b.ID }
func (b *Bill) SetEntityID(id string) { b.ID = id }

// Clone returns a deep copy so callers can derive an updated bill without
// touching the original slices.
func (b Bill) Clone() Bill {
	out := b
	out.Trips = append([]BillTrip(nil), b.Trips...)
	out.Advances = append([]Advance(nil), b.Advances...)
	out.Payments = make([]BillPayment, len(b.Payments))
	for i, p := range b.Payments {
		p.Deductions = append([]PaymentDeduction(nil), p.Deductions...)
		out.Payments[i] = p
	}
	if b.Payments == nil {
		out.Payments = nil
	}
	return out
}
