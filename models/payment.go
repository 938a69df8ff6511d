package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeductionType string

const (
	DeductionTDS            DeductionType = "tds"
	DeductionMamul          DeductionType = "mamul"
	DeductionPaymentCharges DeductionType = "payment_charges"
	DeductionCommission     DeductionType = "commission"
	DeductionOther          DeductionType = "other"
)

type PaymentDeduction struct {
	ID          string          `json:"id" bson:"id"`
	Type        DeductionType   `json:"type" bson:"type"`
	Amount      decimal.Decimal `json:"amount" bson:"amount"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
}

// BillPayment is recorded once per payment application and never mutated.
type BillPayment struct {
	ID               string             `json:"id" bson:"id"`
	BillID           string             `json:"bill_id" bson:"bill_id"`
	PaymentDate      string             `json:"payment_date" bson:"payment_date"`
	BillAmount       decimal.Decimal    `json:"bill_amount" bson:"bill_amount"`
	ReceivedAmount   decimal.Decimal    `json:"received_amount" bson:"received_amount"`
	DifferenceAmount decimal.Decimal    `json:"difference_amount" bson:"difference_amount"`
	Deductions       []PaymentDeduction `json:"deductions" bson:"deductions"`
	RemainingBalance decimal.Decimal    `json:"remaining_balance" bson:"remaining_balance"`
	PaymentMethod    string             `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	Reference        string             `json:"reference,omitempty" bson:"reference,omitempty"`
	Remarks          string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}

// TotalDeductions sums the deductions attached to the payment.
func (p BillPayment) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}

// PaymentForm is the inbound request to apply a payment to a bill. Each
// named deduction field becomes one PaymentDeduction when non-zero.
type PaymentForm struct {
	PaymentDate         string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	ReceivedAmount      decimal.Decimal `json:"received_amount"`
	TDSDeduction        decimal.Decimal `json:"tds_deduction"`
	MamulDeduction      decimal.Decimal `json:"mamul_deduction"`
	PaymentCharges      decimal.Decimal `json:"payment_charges"`
	CommissionDeduction decimal.Decimal `json:"commission_deduction"`
	OtherDeduction      decimal.Decimal `json:"other_deduction"`
	DeductionNotes      string          `json:"deduction_notes,omitempty"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	Reference           string          `json:"reference,omitempty"`
	Remarks             string          `json:"remarks,omitempty"`
}

// ReceivedForm marks a bill as received in full.
type ReceivedForm struct {
	ReceivedDate string `json:"received_date" validate:"required,datetime=2006-01-02"`
	Narration    string `json:"narration,omitempty"`
}
