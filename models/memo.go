package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MemoStatus string

const (
	MemoPending MemoStatus = "pending"
	MemoPaid    MemoStatus = "paid"
)

type Memo struct {
	ID            string          `json:"id" bson:"_id" db:"id"`
	MemoNo        string          `json:"memo_no" bson:"memo_no" db:"memo_no" validate:"required"`
	LoadingDate   string          `json:"loading_date" bson:"loading_date" db:"loading_date" validate:"required,datetime=2006-01-02"`
	SupplierID    string          `json:"supplier_id" bson:"supplier_id" db:"supplier_id"`
	SupplierName  string          `json:"supplier_name" bson:"supplier_name" db:"supplier_name"`
	Vehicle       string          `json:"vehicle" bson:"vehicle" db:"vehicle"`
	From          string          `json:"from" bson:"from" db:"from_location"`
	To            string          `json:"to" bson:"to" db:"to_location"`
	Freight       decimal.Decimal `json:"freight" bson:"freight" db:"freight"`
	Commission    decimal.Decimal `json:"commission" bson:"commission" db:"commission"`
	Mamul         decimal.Decimal `json:"mamul" bson:"mamul" db:"mamul"`
	Detention     decimal.Decimal `json:"detention" bson:"detention" db:"detention"`
	RTOAmount     decimal.Decimal `json:"rto_amount" bson:"rto_amount" db:"rto_amount"`
	ExtraCharge   decimal.Decimal `json:"extra_charge" bson:"extra_charge" db:"extra_charge"`
	Advances      []Advance       `json:"advances" bson:"advances" db:"advances" validate:"dive"`
	Payments      []MemoPayment   `json:"payments" bson:"payments" db:"payments"`
	PaidAmount    decimal.Decimal `json:"paid_amount" bson:"paid_amount" db:"paid_amount"`
	Balance       decimal.Decimal `json:"balance" bson:"balance" db:"balance"`
	Status        MemoStatus      `json:"status" bson:"status" db:"status"`
	PaidDate      *string         `json:"paid_date,omitempty" bson:"paid_date,omitempty" db:"paid_date"`
	LoadingSlipID *string         `json:"loading_slip_id,omitempty" bson:"loading_slip_id,omitempty" db:"loading_slip_id"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

func (m *Memo) EntityID() string      { return m.ID }
func (m *Memo) SetEntityID(id string) { m.ID = id }

func (m Memo) Clone() Memo {
	out := m
	out.Advances = append([]Advance(nil), m.Advances...)
	out.Payments = append([]MemoPayment(nil), m.Payments...)
	return out
}

// MemoPayment is one settlement installment paid to the supplier.
// PaidAmount on the memo is the sum of these.
type MemoPayment struct {
	ID        string          `json:"id" bson:"id"`
	Date      string          `json:"date" bson:"date"`
	Amount    decimal.Decimal `json:"amount" bson:"amount"`
	Reference string          `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// MemoPaymentForm settles (part of) a memo.
type MemoPaymentForm struct {
	PaidDate  string          `json:"paid_date" validate:"required,datetime=2006-01-02"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}
