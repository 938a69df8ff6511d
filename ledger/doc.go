// Package ledger is the balance and ledger engine of the books.
//
// Everything here is a pure function over in-memory collections: no I/O, no
// clocks (callers pass time and id generators in), no package state. The
// service layer loads snapshots from a repository, calls into this package and
// writes the results back.
//
// Bill balance:
//
//	gross   = freight + detention + rto + extra charges - mamul
//	balance = max(0, gross - advances - payments received - payment deductions)
//
// Freight is the sum of trip freights when the bill has trips, otherwise the
// bill's stored total freight.
//
// Memo balance:
//
//	net     = freight - commission - mamul + detention + rto + extra charge
//	balance = max(0, net - advances - paid amount)
//
// Bills (memos) are walked by date, then creation time, number and id. Each
// one contributes its credit entry, then advance debits by advance date, then
// payment debits by payment date, each followed by its deduction debits.
// Deductions are debits: they reduce what the party still owes.
//
// Running balances are always rebuilt from zero. No entry is patched in
// place; any change to a bill, memo, advance, payment or bank entry means
// rebuilding the owner's ledger.
package ledger
