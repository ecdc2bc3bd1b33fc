// Package document renders invoices and reports into downloadable files.
package document

import (
	"fmt"
	"strings"

	"route-ledger/internal/ledger"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document is a rendered file ready to be sent as an attachment.
type Document struct {
	Name        string
	ContentType string
	Body        []byte
}

// Invoice is one order together with the customer it was delivered to.
type Invoice struct {
	Order    ledger.OrderView
	Customer ledger.CustomerView
}

type InvoiceRenderer interface {
	RenderInvoice(inv Invoice) (*Document, error)
}

type ReportRenderer interface {
	RenderReport(r ledger.Report) (*Document, error)
}

// ReportFormat picks the report renderer for "pdf" or "xlsx".
func ReportFormat(format string) (ReportRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return PDF{}, nil
	case "xlsx":
		return XLSX{}, nil
	}
	return nil, fmt.Errorf("unsupported report format %q, use pdf or xlsx", format)
}

func reportName(r ledger.Report, ext string) string {
	name := fmt.Sprintf("report-%s-%s", r.StartDate, r.EndDate)
	if r.Territory != "" {
		name += "-" + strings.ToLower(string(r.Territory))
	}
	return name + "." + ext
}

func reportTitle(r ledger.Report) string {
	if r.Territory == "" {
		return "Route Report"
	}
	return fmt.Sprintf("Route Report - %s Territory", r.Territory)
}
