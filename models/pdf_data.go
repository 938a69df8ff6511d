package models

// DocumentPDFData is the template input for every generated document.
// Exactly one of Bill, Memo or Ledger is set.
type DocumentPDFData struct {
	Company    *InitialSetup
	Bill       *Bill
	Memo       *Memo
	Ledger     *Ledger
	Contacts   string // formatted mobile numbers
	Date       string // formatted document date
	Total      string // formatted total amount
	TotalWords string
	CopyTitle  string
	Rows       []DocumentRow
}

// DocumentRow is a pre-formatted table line so templates stay free of
// arithmetic.
type DocumentRow struct {
	Cells []string
}
