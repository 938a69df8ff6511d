package ledger

import "errors"

var (
	// ErrNegativeAmount is returned when a payment or deduction amount is below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidDate is returned when a date is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid calendar date")
)
