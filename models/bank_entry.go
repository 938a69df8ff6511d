package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankEntryType string

const (
	BankCredit BankEntryType = "credit"
	BankDebit  BankEntryType = "debit"
)

type BankCategory string

const (
	CategoryBill     BankCategory = "bill"
	CategoryMemo     BankCategory = "memo"
	CategoryAdvance  BankCategory = "advance"
	CategoryExpense  BankCategory = "expense"
	CategoryTransfer BankCategory = "transfer"
	CategoryOther    BankCategory = "other"
)

// BankEntry is an atomic cash movement. RelatedID points at a bill or memo
// id; when it does not, RelatedID or RelatedName is matched against bill and
// memo numbers.
type BankEntry struct {
	ID          string          `json:"id" bson:"_id" db:"id"`
	Date        string          `json:"date" bson:"date" db:"entry_date" validate:"required,datetime=2006-01-02"`
	Type        BankEntryType   `json:"type" bson:"type" db:"entry_type" validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount" bson:"amount" db:"amount"`
	Category    BankCategory    `json:"category" bson:"category" db:"category" validate:"required,oneof=bill memo advance expense transfer other"`
	RelatedID   *string         `json:"related_id,omitempty" bson:"related_id,omitempty" db:"related_id"`
	RelatedName *string         `json:"related_name,omitempty" bson:"related_name,omitempty" db:"related_name"`
	Narration   string          `json:"narration,omitempty" bson:"narration,omitempty" db:"narration"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at" db:"created_at"`
}

func (e *BankEntry) EntityID() string      { return e.ID }
func (e *BankEntry) SetEntityID(id string) { e.ID = id }
