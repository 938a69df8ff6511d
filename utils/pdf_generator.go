package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
	"github.com/hariomtransport/books/repository"
	"github.com/shopspring/decimal"
)

const (
	billTemplate   = "bill_template.html"
	memoTemplate   = "memo_template.html"
	ledgerTemplate = "ledger_template.html"
)

var (
	billCopies   = []string{"Party Copy", "Office Copy"}
	memoCopies   = []string{"Supplier Copy", "Office Copy"}
	ledgerCopies = []string{"Statement of Account"}
)

// PrintFunc turns a complete HTML document into PDF bytes.
type PrintFunc func(ctx context.Context, html string) ([]byte, error)

// PDFGenerator renders bills, memos and ledger statements from the HTML
// templates in TemplateDir.
type PDFGenerator struct {
	Repo        *repository.PDFRepository
	TemplateDir string
	Print       PrintFunc
}

func NewPDFGenerator(repo *repository.PDFRepository, templateDir string) *PDFGenerator {
	return &PDFGenerator{Repo: repo, TemplateDir: templateDir, Print: PrintWithChrome}
}

// BillPDF returns nil, nil when the bill does not exist.
func (g *PDFGenerator) BillPDF(ctx context.Context, billID string) ([]byte, error) {
	initial, err := g.Repo.GetInitialForPDF(ctx)
	if err != nil {
		return nil, err
	}
	bill, err := g.Repo.GetBillForPDF(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, nil
	}

	total := ledger.TotalBillAmount(*bill)
	data := models.DocumentPDFData{
		Company:    initial,
		Bill:       bill,
		Contacts:   initial.ContactLine(),
		Date:       ledger.FormatDate(bill.BillDate),
		Total:      ledger.FormatCurrency(total),
		TotalWords: NumberToCurrencyWords(total),
		Rows:       billRows(*bill),
	}
	return g.render(ctx, billTemplate, billCopies, data)
}

// billRows prints one row per trip. The trip's own RTO challan, detention
// and mamul are shown as entered; the bill total uses the bill-level
// charges.
func billRows(b models.Bill) []models.DocumentRow {
	optional := func(v *decimal.Decimal) string {
		if v == nil || v.IsZero() {
			return ""
		}
		return ledger.FormatCurrency(*v)
	}
	rows := make([]models.DocumentRow, 0, len(b.Trips))
	for _, t := range b.Trips {
		weight := ""
		if !t.Weight.IsZero() {
			weight = t.Weight.String()
		}
		rows = append(rows, models.DocumentRow{Cells: []string{
			t.CNNo,
			ledger.FormatDate(t.LoadingDate),
			t.From,
			t.To,
			t.Vehicle,
			weight,
			ledger.FormatCurrency(t.Freight),
			optional(&t.RTOChallan),
			optional(t.Detention),
			optional(t.Mamul),
		}})
	}
	return rows
}

// MemoPDF returns nil, nil when the memo does not exist.
func (g *PDFGenerator) MemoPDF(ctx context.Context, memoID string) ([]byte, error) {
	initial, err := g.Repo.GetInitialForPDF(ctx)
	if err != nil {
		return nil, err
	}
	memo, err := g.Repo.GetMemoForPDF(ctx, memoID)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, nil
	}

	net := ledger.MemoNetAmount(*memo)
	data := models.DocumentPDFData{
		Company:    initial,
		Memo:       memo,
		Contacts:   initial.ContactLine(),
		Date:       ledger.FormatDate(memo.LoadingDate),
		Total:      ledger.FormatCurrency(net),
		TotalWords: NumberToCurrencyWords(net),
		Rows:       memoRows(*memo),
	}
	return g.render(ctx, memoTemplate, memoCopies, data)
}

func memoRows(m models.Memo) []models.DocumentRow {
	line := func(label string, amount decimal.Decimal) models.DocumentRow {
		return models.DocumentRow{Cells: []string{label, ledger.FormatCurrency(amount)}}
	}
	rows := []models.DocumentRow{line("Freight", m.Freight)}
	if !m.Commission.IsZero() {
		rows = append(rows, line("Less: Commission", m.Commission))
	}
	if !m.Mamul.IsZero() {
		rows = append(rows, line("Less: Mamul", m.Mamul))
	}
	if !m.Detention.IsZero() {
		rows = append(rows, line("Add: Detention", m.Detention))
	}
	if !m.RTOAmount.IsZero() {
		rows = append(rows, line("Add: RTO", m.RTOAmount))
	}
	if !m.ExtraCharge.IsZero() {
		rows = append(rows, line("Add: Extra charge", m.ExtraCharge))
	}
	for _, a := range m.Advances {
		rows = append(rows, line("Advance "+ledger.FormatDate(a.Date), a.Amount))
	}
	return append(rows, line("Balance", m.Balance))
}

// LedgerPDF renders a party or supplier statement.
func (g *PDFGenerator) LedgerPDF(ctx context.Context, l models.Ledger) ([]byte, error) {
	initial, err := g.Repo.GetInitialForPDF(ctx)
	if err != nil {
		return nil, err
	}
	data := models.DocumentPDFData{
		Company:    initial,
		Ledger:     &l,
		Contacts:   initial.ContactLine(),
		Total:      ledger.FormatCurrency(l.OutstandingBalance),
		TotalWords: NumberToCurrencyWords(l.OutstandingBalance),
		Rows:       LedgerRows(l),
	}
	if n := len(l.Entries); n > 0 {
		data.Date = ledger.FormatDate(l.Entries[n-1].Date)
	}
	return g.render(ctx, ledgerTemplate, ledgerCopies, data)
}

// LedgerRows formats ledger entries for statements: date, particulars,
// reference, debit, credit and running balance.
func LedgerRows(l models.Ledger) []models.DocumentRow {
	amount := func(d decimal.Decimal) string {
		if d.IsZero() {
			return ""
		}
		return ledger.FormatCurrency(d)
	}
	rows := make([]models.DocumentRow, 0, len(l.Entries))
	for _, e := range l.Entries {
		rows = append(rows, models.DocumentRow{Cells: []string{
			ledger.FormatDate(e.Date),
			e.Particulars,
			e.RefNo,
			amount(e.DebitAmount),
			amount(e.CreditAmount),
			ledger.FormatCurrency(e.RunningBalance),
		}})
	}
	return rows
}

// RenderHTML executes the template once per copy title and wraps the copies
// in a single A4 document. Each copy is kept whole across page breaks.
func (g *PDFGenerator) RenderHTML(name string, copies []string, data models.DocumentPDFData) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(g.TemplateDir, name))
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	for _, title := range copies {
		data.CopyTitle = title
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		body.WriteString("<div class='doc-copy'>")
		body.Write(buf.Bytes())
		body.WriteString("</div>")
	}

	return `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page {
	size: A4;
	margin: 20px;
}
body {
	font-family: Arial, Helvetica, sans-serif;
	font-size: 12px;
	margin: 0;
	padding: 0;
}
.doc-copy {
	page-break-inside: avoid;
}
</style>
</head>
<body>` + body.String() + `</body></html>`, nil
}

func (g *PDFGenerator) render(ctx context.Context, name string, copies []string, data models.DocumentPDFData) ([]byte, error) {
	html, err := g.RenderHTML(name, copies, data)
	if err != nil {
		return nil, err
	}
	printPDF := g.Print
	if printPDF == nil {
		printPDF = PrintWithChrome
	}
	return printPDF(ctx, html)
}

// PrintWithChrome prints the document with headless Chrome.
func PrintWithChrome(ctx context.Context, html string) ([]byte, error) {
	tmpHTML := filepath.Join(os.TempDir(), fmt.Sprintf("doc_%d.html", time.Now().UnixNano()))
	if err := os.WriteFile(tmpHTML, []byte(html), 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	chromeCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
