package document

import (
	"fmt"

	"route-ledger/internal/ledger"
	"route-ledger/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Summary"
	sheetDaily   = "Daily"

	// built-in "#,##0.00"
	numFmtMoney = 4
)

// XLSX renders reports as a workbook with a Summary and a Daily sheet.
type XLSX struct{}

func amount(m types.Money) float64 {
	return m.Decimal().InexactFloat64()
}

func (XLSX) RenderReport(r ledger.Report) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}

	s := r.Summary
	summaryRows := [][]interface{}{
		{reportTitle(r)},
		{"From", r.StartDate.String()},
		{"To", r.EndDate.String()},
		{},
		{"Orders", s.TotalOrders},
		{"Active days", s.ActiveDays},
		{"Cases", s.TotalCases},
		{"Revenue", amount(s.TotalRevenue)},
		{"Payments", amount(s.TotalPayments)},
		{"Outstanding", amount(s.OutstandingBalance)},
		{"Driver expense", amount(s.TotalDriverExpense)},
	}
	for i, row := range summaryRows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A11", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetSummary, "B8", "B11", money); err != nil {
		return nil, err
	}

	header := []interface{}{
		"Date", "Orders", "Cases", "Revenue", "Cash", "Check", "Credit",
		"Received", "Outstanding", "Driver expense",
	}
	if err := setRow(f, sheetDaily, 1, header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetDaily, "A1", "J1", bold); err != nil {
		return nil, err
	}
	for i, d := range r.Daily {
		row := []interface{}{
			d.Date.String(),
			d.Orders,
			d.TotalCases,
			amount(d.TotalCost),
			amount(d.PaymentCash),
			amount(d.PaymentCheck),
			amount(d.PaymentCredit),
			amount(d.PaymentReceived),
			amount(d.Outstanding),
			amount(d.DriverExpense),
		}
		if err := setRow(f, sheetDaily, i+2, row); err != nil {
			return nil, err
		}
	}
	if len(r.Daily) > 0 {
		last := fmt.Sprintf("J%d", len(r.Daily)+1)
		if err := f.SetCellStyle(sheetDaily, "D2", last, money); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetDaily, "A", "J", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetSummary, "A", "A", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return &Document{Name: reportName(r, "xlsx"), ContentType: ContentTypeXLSX, Body: buf.Bytes()}, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
