package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfRowHeight    = 6.0
)

// pdfText makes s printable with the core fonts, which only cover
// Latin-1. The rupee sign has no Latin-1 code point.
func pdfText(s string) string {
	s = strings.ReplaceAll(s, "₹", "Rs.")
	return strings.ReplaceAll(s, "£", "\xa3")
}

// WritePDF renders the report as an A4 document.
func WritePDF(out io.Writer, report Report, money *Money) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - pdfMarginLeft - pdfMarginRight
	colWidth := contentWidth / 4

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(239, 246, 255)
		pdf.SetTextColor(29, 78, 216)
		for i, h := range report.Header {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth, pdfRowHeight+1, h, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(17, 24, 39)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(29, 78, 216)
	pdf.CellFormat(contentWidth, 10, report.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	s := report.Summary
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(55, 65, 81)
	lines := []string{
		fmt.Sprintf("Loan amount: %s", money.Cents(s.Principal)),
		fmt.Sprintf("Rate of interest: %.2f%% p.a.", s.AnnualRatePct),
		fmt.Sprintf("Tenure: %d months, starting %s", s.TenureMonths, s.StartDate),
		fmt.Sprintf("Monthly EMI: %s", money.Cents(s.Installment)),
		fmt.Sprintf("Total interest: %s", money.Units(s.TotalInterest)),
		fmt.Sprintf("Total payment: %s", money.Units(s.TotalPayment)),
		fmt.Sprintf("Principal %.2f%%, interest %.2f%% of total payment", s.PrincipalSharePct, s.InterestSharePct),
	}
	for _, line := range lines {
		pdf.CellFormat(contentWidth, pdfRowHeight, pdfText(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	header()
	for i, row := range report.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(239, 246, 255)
		pdf.CellFormat(colWidth, pdfRowHeight, row.Label, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pdfText(money.Units(row.Principal)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pdfText(money.Units(row.Interest)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pdfText(money.Units(row.Balance)), "1", 1, "R", fill, 0, "")
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
