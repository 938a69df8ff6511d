package models

import (
	"strings"
	"time"
)

type MobileEntry struct {
	Number string `json:"number" bson:"number" db:"number"`
	Label  string `json:"label" bson:"label" db:"label"`
}

// InitialSetup holds the company header printed on bills, memos and ledger
// statements.
type InitialSetup struct {
	ID          int64         `json:"id" bson:"_id,omitempty" db:"id"`
	CompanyName string        `json:"company_name" bson:"name" db:"name" validate:"required"`
	Address     string        `json:"address" bson:"address" db:"address"`
	City        string        `json:"city" bson:"city" db:"city"`
	State       string        `json:"state" bson:"state" db:"state"`
	Pincode     string        `json:"pincode" bson:"pincode" db:"pincode"`
	GSTIN       string        `json:"gstin" bson:"gstin" db:"gstin"`
	Footnote    string        `json:"footnote" bson:"footnote" db:"footnote"`
	Mobile      []MobileEntry `json:"mobile" bson:"mobile" db:"mobile"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}

// ContactLine joins the phone numbers for a document header, each followed
// by its label in brackets when it has one.
func (i *InitialSetup) ContactLine() string {
	if i == nil {
		return ""
	}
	parts := make([]string, 0, len(i.Mobile))
	for _, m := range i.Mobile {
		if m.Label == "" {
			parts = append(parts, m.Number)
			continue
		}
		parts = append(parts, m.Number+"("+m.Label+")")
	}
	return strings.Join(parts, ", ")
}

// AddressLine is the address, city, state and pincode joined for printing.
// Empty parts are skipped.
func (i *InitialSetup) AddressLine() string {
	if i == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{i.Address, i.City, i.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, ", ")
	if pin := strings.TrimSpace(i.Pincode); pin != "" {
		if line != "" {
			line += " - "
		}
		line += pin
	}
	return line
}
