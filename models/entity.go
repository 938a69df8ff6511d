package models

// Entity is implemented by every record kept in a repository collection.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
}

// DateLayout is the calendar date format used for every date string in the
// books (bill dates, loading dates, payment dates, bank entry dates).
const DateLayout = "2006-01-02"
