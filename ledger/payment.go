package ledger

import (
	"fmt"
	"time"

	"github.com/hariomtransport/books/models"
	"github.com/shopspring/decimal"
)

// IDFunc generates identifiers for new payments and deductions.
type IDFunc func() string

// PaymentResult is everything produced by applying one payment to a bill.
// LedgerEntries carry bill-local running balances (starting from the bill's
// balance before the payment); a party ledger rebuild assigns the
// positional values.
type PaymentResult struct {
	Payment       models.BillPayment
	UpdatedBill   models.Bill
	LedgerEntries []models.LedgerEntry
}

type namedDeduction struct {
	typ    models.DeductionType
	amount decimal.Decimal
	label  string
}

func formDeductions(form models.PaymentForm) []namedDeduction {
	return []namedDeduction{
		{models.DeductionTDS, form.TDSDeduction, "TDS"},
		{models.DeductionMamul, form.MamulDeduction, "Mamul"},
		{models.DeductionPaymentCharges, form.PaymentCharges, "Payment charges"},
		{models.DeductionCommission, form.CommissionDeduction, "Commission"},
		{models.DeductionOther, form.OtherDeduction, "Other deduction"},
	}
}

// ApplyBillPayment applies a payment to a bill. The input bill is never
// modified; on error nothing is produced.
func ApplyBillPayment(bill models.Bill, form models.PaymentForm, newID IDFunc, now time.Time) (PaymentResult, error) {
	if _, err := ParseDate(form.PaymentDate); err != nil {
		return PaymentResult{}, fmt.Errorf("payment date %q: %w", form.PaymentDate, err)
	}
	if form.ReceivedAmount.IsNegative() {
		return PaymentResult{}, fmt.Errorf("received amount: %w", ErrNegativeAmount)
	}

	named := formDeductions(form)
	totalDeductions := decimal.Zero
	for _, d := range named {
		if d.amount.IsNegative() {
			return PaymentResult{}, fmt.Errorf("%s: %w", d.label, ErrNegativeAmount)
		}
		totalDeductions = totalDeductions.Add(d.amount)
	}

	difference := bill.Balance.Sub(form.ReceivedAmount)
	remaining := clampZero(bill.Balance.Sub(form.ReceivedAmount).Sub(totalDeductions))

	payment := models.BillPayment{
		ID:               newID(),
		BillID:           bill.ID,
		PaymentDate:      dateKey(form.PaymentDate),
		BillAmount:       bill.Balance,
		ReceivedAmount:   form.ReceivedAmount,
		DifferenceAmount: difference,
		RemainingBalance: remaining,
		PaymentMethod:    form.PaymentMethod,
		Reference:        form.Reference,
		Remarks:          form.Remarks,
		CreatedAt:        now,
	}
	for _, d := range named {
		if d.amount.IsZero() {
			continue
		}
		desc := d.label
		if d.typ == models.DeductionOther && form.DeductionNotes != "" {
			desc = form.DeductionNotes
		}
		payment.Deductions = append(payment.Deductions, models.PaymentDeduction{
			ID:          newID(),
			Type:        d.typ,
			Amount:      d.amount,
			Description: desc,
		})
	}

	updated := bill.Clone()
	updated.Payments = append(updated.Payments, payment)
	updated.Balance = remaining
	updated.NetAmountReceived = bill.NetAmountReceived.Add(form.ReceivedAmount)
	updated.TotalDeductions = bill.TotalDeductions.Add(totalDeductions)
	updated.Status = PaymentStatus(bill.Status, remaining, totalDeductions, difference)
	if updated.Status.Terminal() && updated.ReceivedDate == nil {
		date := payment.PaymentDate
		updated.ReceivedDate = &date
	}
	updated.UpdatedAt = &now

	entries := paymentEntries(updated, payment)
	running := bill.Balance
	for i := range entries {
		running = running.Add(entries[i].CreditAmount).Sub(entries[i].DebitAmount)
		entries[i].RunningBalance = running
	}

	return PaymentResult{Payment: payment, UpdatedBill: updated, LedgerEntries: entries}, nil
}

// PaymentStatus resolves the bill status after a payment. A bill that is
// still owed money keeps its current status.
func PaymentStatus(current models.BillStatus, remaining, totalDeductions, difference decimal.Decimal) models.BillStatus {
	if !remaining.IsZero() {
		return current
	}
	if totalDeductions.IsPositive() || difference.IsPositive() {
		return models.BillSettledWithDeductions
	}
	return models.BillFullyPaid
}

// paymentEntries turns one bill payment into its payment debit followed by
// one debit per non-zero deduction.
func paymentEntries(bill models.Bill, p models.BillPayment) []models.LedgerEntry {
	var entries []models.LedgerEntry
	if p.ReceivedAmount.IsPositive() {
		particulars := "Payment received"
		if p.PaymentMethod != "" {
			particulars += " by " + p.PaymentMethod
		}
		if p.Reference != "" {
			particulars += " (" + p.Reference + ")"
		}
		entries = append(entries, models.LedgerEntry{
			ID:               bill.ID + ":pay:" + p.ID,
			Type:             models.EntryPaymentDebit,
			EntryType:        models.SideDebit,
			Date:             dateKey(p.PaymentDate),
			RefNo:            bill.BillNo,
			RefDate:          dateKey(bill.BillDate),
			Particulars:      particulars,
			CreditAmount:     decimal.Zero,
			DebitAmount:      p.ReceivedAmount,
			RelatedID:        bill.ID,
			RelatedPaymentID: p.ID,
		})
	}
	for _, d := range p.Deductions {
		if !d.Amount.IsPositive() {
			continue
		}
		particulars := d.Description
		if particulars == "" {
			particulars = string(d.Type)
		}
		entries = append(entries, models.LedgerEntry{
			ID:               bill.ID + ":pay:" + p.ID + ":ded:" + d.ID,
			Type:             models.EntryDeductionDebit,
			EntryType:        models.SideDebit,
			Date:             dateKey(p.PaymentDate),
			RefNo:            bill.BillNo,
			RefDate:          dateKey(bill.BillDate),
			Particulars:      "Deduction: " + particulars,
			CreditAmount:     decimal.Zero,
			DebitAmount:      d.Amount,
			RelatedID:        bill.ID,
			RelatedPaymentID: p.ID,
		})
	}
	return entries
}
