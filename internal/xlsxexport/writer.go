// Package xlsxexport renders the two-sheet XLSX expense report for a
// travel: a Summary sheet with per-category totals and a Receipts sheet
// with one row per receipt.
package xlsxexport

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"spesen/internal/domain"
)

const (
	summarySheet  = "Summary"
	receiptsSheet = "Receipts"
)

// receiptHeaders mirrors the CSV export columns.
var receiptHeaders = []string{
	"Filename",
	"Merchant",
	"Category",
	"Receipt Date",
	"Amount",
	"Currency",
	"VAT Amount",
	"VAT Rate (%)",
	"Payment Method",
	"Invoice Number",
	"Parsing Status",
	"Confidence",
	"Verified",
	"Parsed At",
	"Created At",
}

// Build renders the workbook and returns its bytes. Amount cells are
// written as numbers so spreadsheet formulas work on them.
func Build(summary *domain.TravelSummary, receipts []domain.Receipt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range []string{summarySheet, receiptsSheet} {
		if index, _ := f.GetSheetIndex(sheet); index == -1 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("xlsxexport.Build: new sheet %s: %w", sheet, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsxexport.Build: delete default sheet: %w", err)
	}
	if index, _ := f.GetSheetIndex(summarySheet); index != -1 {
		f.SetActiveSheet(index)
	}

	writeSummarySheet(f, summary)
	writeReceiptsSheet(f, receipts)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsxexport.Build: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, summary *domain.TravelSummary) {
	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(summarySheet, cell, v)
	}

	t := summary.Travel
	write(1, 1, "Travel")
	write(2, 1, t.Title)
	write(1, 2, "Employee")
	write(2, 2, t.EmployeeName)
	write(1, 3, "Destination")
	write(2, 3, fmt.Sprintf("%s, %s", t.DestinationCity, t.DestinationCountry))
	write(1, 4, "Period")
	write(2, 4, fmt.Sprintf("%s to %s", t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02")))
	write(1, 5, "Cost Center")
	write(2, 5, t.CostCenter)
	write(1, 6, "Status")
	write(2, 6, string(t.Status))

	row := 8
	write(1, row, "Category")
	write(2, row, "Receipts")
	write(3, row, "Amount")
	write(4, row, "VAT")
	row++
	for _, ct := range summary.Totals {
		write(1, row, string(ct.Category))
		write(2, row, ct.Count)
		write(3, row, ct.Total.InexactFloat64())
		write(4, row, ct.VatTotal.InexactFloat64())
		row++
	}
	write(1, row, "Total")
	write(2, row, summary.ReceiptCount)
	write(3, row, summary.GrandTotal.InexactFloat64())
	write(4, row, summary.VatTotal.InexactFloat64())

	row += 2
	write(1, row, "Needs manual review")
	write(2, row, summary.ManualCount)
	row++
	write(1, row, "Unverified low confidence")
	write(2, row, summary.UnverifiedLow)

	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 32)
	_ = f.SetColWidth(summarySheet, "C", "D", 14)
}

func writeReceiptsSheet(f *excelize.File, receipts []domain.Receipt) {
	for i, h := range receiptHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(receiptsSheet, cell, h)
	}

	for i := range receipts {
		r := &receipts[i]
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(receiptsSheet, cell, v)
		}

		write(1, r.OriginalFilename)
		if r.Merchant != nil {
			write(2, *r.Merchant)
		}
		write(3, string(r.Category))
		if r.ReceiptDate != nil {
			write(4, r.ReceiptDate.Format("2006-01-02"))
		}
		if r.Amount != nil {
			write(5, r.Amount.InexactFloat64())
		}
		if r.Currency != nil {
			write(6, *r.Currency)
		}
		if r.VatAmount != nil {
			write(7, r.VatAmount.InexactFloat64())
		}
		if r.VatRate != nil {
			write(8, *r.VatRate)
		}
		if r.PaymentMethod != nil {
			write(9, string(*r.PaymentMethod))
		}
		if r.InvoiceNumber != nil {
			write(10, *r.InvoiceNumber)
		}
		write(11, string(r.ParsingStatus))
		write(12, r.ParsingConf)
		if r.Verified {
			write(13, "Yes")
		} else {
			write(13, "No")
		}
		if r.ParsedAt != nil {
			write(14, r.ParsedAt.Format(time.RFC3339))
		}
		write(15, r.CreatedAt.Format(time.RFC3339))
	}

	_ = f.SetColWidth(receiptsSheet, "A", "A", 28)
	_ = f.SetColWidth(receiptsSheet, "B", "B", 24)
	_ = f.SetColWidth(receiptsSheet, "C", "D", 13)
	_ = f.SetColWidth(receiptsSheet, "E", "H", 11)
	_ = f.SetColWidth(receiptsSheet, "I", "K", 15)
	_ = f.SetColWidth(receiptsSheet, "N", "O", 21)
}
