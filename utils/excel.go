package utils

import (
	"bytes"
	"fmt"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

var ledgerHeadings = []string{"Date", "Particulars", "Ref No", "Ref Date", "Debit", "Credit", "Balance"}

// LedgerWorkbook writes a ledger statement to a single-sheet workbook.
// Amounts are written as numbers so the sheet can be summed.
func LedgerWorkbook(l models.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, err
	}

	title := l.Name
	if title == "" {
		title = l.OwnerID
	}
	if err := f.SetCellValue(ledgerSheet, "A1", "Statement of Account: "+title); err != nil {
		return nil, err
	}

	for i, h := range ledgerHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", "G3", bold); err != nil {
		return nil, err
	}

	row := 4
	for _, e := range l.Entries {
		values := []interface{}{
			ledger.FormatDate(e.Date),
			e.Particulars,
			e.RefNo,
			ledger.FormatDate(e.RefDate),
			e.DebitAmount.InexactFloat64(),
			e.CreditAmount.InexactFloat64(),
			e.RunningBalance.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	summary := [][]interface{}{
		{"Total billed", l.TotalBillAmount.InexactFloat64()},
		{"Total paid", l.TotalPaid.InexactFloat64()},
		{"Total deductions", l.TotalDeductions.InexactFloat64()},
		{"Outstanding", l.OutstandingBalance.InexactFloat64()},
	}
	row++
	for _, line := range summary {
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("F%d", row), line[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", row), line[1]); err != nil {
			return nil, err
		}
		row++
	}

	if err := f.SetColWidth(ledgerSheet, "B", "B", 40); err != nil {
		return nil, err
	}
	return f, nil
}

// LedgerXLSX returns the ledger statement as .xlsx bytes.
func LedgerXLSX(l models.Ledger) ([]byte, error) {
	f, err := LedgerWorkbook(l)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
