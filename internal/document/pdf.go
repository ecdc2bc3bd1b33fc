package document

import (
	"bytes"
	"fmt"
	"strconv"

	"route-ledger/internal/ledger"

	"github.com/go-pdf/fpdf"
)

// PDF renders A4 documents with the core Helvetica font.
type PDF struct{}

const (
	pdfMargin     = 15.0
	pdfRowHeight  = 7.0
	pdfPageWidth  = 210.0 - 2*pdfMargin
	pdfHeaderGrey = 230
)

func newPDF(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(pdfPageWidth, 10, tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func line(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(pdfPageWidth-40, 6, tr(value), "", 1, "L", false, 0, "")
}

// table draws a header row and body rows. The first column is left
// aligned, the others right aligned.
func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	align := func(i int) string {
		if i == 0 {
			return "L"
		}
		return "R"
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(pdfHeaderGrey, pdfHeaderGrey, pdfHeaderGrey)
	for i, h := range header {
		pdf.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, align(i), true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(v), "1", 0, align(i), false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func output(pdf *fpdf.Fpdf, name string) (*Document, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return &Document{Name: name, ContentType: ContentTypePDF, Body: buf.Bytes()}, nil
}

func (PDF) RenderInvoice(inv Invoice) (*Document, error) {
	o, c := inv.Order, inv.Customer
	pdf, tr := newPDF(fmt.Sprintf("Invoice %d", o.ID))

	heading(pdf, tr, fmt.Sprintf("Invoice #%d", o.ID))
	line(pdf, tr, "Customer", c.Name)
	line(pdf, tr, "Address", c.Address)
	line(pdf, tr, "Territory", string(c.Territory))
	line(pdf, tr, "Account", string(c.AccountType))
	line(pdf, tr, "Order date", o.OrderDate.String())
	line(pdf, tr, "Delivery date", o.DeliveryDate.String())
	line(pdf, tr, "Status", string(o.Status))
	pdf.Ln(4)

	table(pdf, tr,
		[]float64{60, 40, 40, 40},
		[]string{"Cases", "Total cost", "Paid", "Balance due"},
		[][]string{{
			strconv.Itoa(o.TotalCases),
			o.TotalCost.String(),
			o.PaymentReceived.String(),
			o.Outstanding.String(),
		}},
	)
	table(pdf, tr,
		[]float64{60, 40},
		[]string{"Payment", "Amount"},
		[][]string{
			{"Cash", o.PaymentCash.String()},
			{"Check", o.PaymentCheck.String()},
			{"Credit", o.PaymentCredit.String()},
			{"Total received", o.PaymentReceived.String()},
		},
	)
	line(pdf, tr, "Account balance", c.Balance.String())

	return output(pdf, fmt.Sprintf("invoice-%d.pdf", o.ID))
}

func (PDF) RenderReport(r ledger.Report) (*Document, error) {
	pdf, tr := newPDF(reportTitle(r))

	heading(pdf, tr, reportTitle(r))
	line(pdf, tr, "Period", fmt.Sprintf("%s to %s", r.StartDate, r.EndDate))
	pdf.Ln(4)

	s := r.Summary
	table(pdf, tr,
		[]float64{70, 40},
		[]string{"Summary", "Value"},
		[][]string{
			{"Orders", strconv.Itoa(s.TotalOrders)},
			{"Active days", strconv.Itoa(s.ActiveDays)},
			{"Cases", strconv.Itoa(s.TotalCases)},
			{"Revenue", s.TotalRevenue.String()},
			{"Payments", s.TotalPayments.String()},
			{"Outstanding", s.OutstandingBalance.String()},
			{"Driver expense", s.TotalDriverExpense.String()},
		},
	)

	rows := make([][]string, 0, len(r.Daily))
	for _, d := range r.Daily {
		rows = append(rows, []string{
			d.Date.String(),
			strconv.Itoa(d.Orders),
			strconv.Itoa(d.TotalCases),
			d.TotalCost.String(),
			d.PaymentReceived.String(),
			d.Outstanding.String(),
			d.DriverExpense.String(),
		})
	}
	table(pdf, tr,
		[]float64{26, 16, 16, 32, 32, 32, 26},
		[]string{"Date", "Orders", "Cases", "Revenue", "Received", "Outstanding", "Driver"},
		rows,
	)

	return output(pdf, reportName(r, "pdf"))
}
