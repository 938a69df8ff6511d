package models

import "github.com/shopspring/decimal"

type Advance struct {
	ID        string          `json:"id" bson:"id" validate:"omitempty"`
	Amount    decimal.Decimal `json:"amount" bson:"amount"`
	Date      string          `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Narration string          `json:"narration,omitempty" bson:"narration,omitempty"`
}

// SumAdvances totals the amounts of the given advances.
func SumAdvances(advances []Advance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		total = total.Add(a.Amount)
	}
	return total
}
