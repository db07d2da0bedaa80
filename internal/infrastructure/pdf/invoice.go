// Package pdf renders invoices as A4 PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	dateLayout = "Jan 2, 2006"
)

var defaultAccent = [3]int{37, 99, 235}

// InvoiceRenderer lays out an invoice with fpdf core fonts.
type InvoiceRenderer struct {
	now func() time.Time
}

var _ ports.InvoiceRenderer = (*InvoiceRenderer)(nil)

func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{now: time.Now}
}

func (r *InvoiceRenderer) Render(doc ports.InvoiceDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreationDate(r.now())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	business := doc.Branding.BusinessName
	if business == "" {
		business = "Invoice"
	}
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.SetAuthor(business, true)
	pdf.SetCreator("FreelanceOS", true)

	accent := parseHexColor(doc.Branding.AccentColor)
	footer := doc.Branding.InvoiceFooter
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		if footer != "" {
			pdf.CellFormat(0, 5, tr(footer), "", 0, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(accent[0], accent[1], accent[2])
	pdf.CellFormat(contentWidth/2, 10, tr(business), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/2, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	left := []string{doc.Branding.BusinessAddress, doc.Branding.BusinessEmail}
	right := []string{
		"No. " + doc.InvoiceNumber,
		"Issued " + doc.IssueDate.Format(dateLayout),
	}
	if doc.DueDate != nil {
		right = append(right, "Due "+doc.DueDate.Format(dateLayout))
	}
	right = append(right, "Status: "+doc.Status.Label())
	for i := 0; i < max(len(left), len(right)); i++ {
		pdf.CellFormat(contentWidth/2, 5, tr(at(left, i)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 5, tr(at(right, i)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Bill to
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth, lineHeight, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{doc.ClientName, doc.ClientCompany, doc.ClientEmail} {
		if line != "" {
			pdf.CellFormat(contentWidth, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	if doc.ProjectName != "" {
		pdf.Ln(2)
		project := "Project: " + doc.ProjectName
		if doc.Milestone != "" {
			project += " / " + doc.Milestone
		}
		pdf.CellFormat(contentWidth, 5, tr(project), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Line items
	cols := []float64{contentWidth * 0.52, contentWidth * 0.12, contentWidth * 0.18, contentWidth * 0.18}
	pdf.SetFillColor(accent[0], accent[1], accent[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Description", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 8, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	pdf.SetDrawColor(220, 220, 220)
	for _, item := range doc.LineItems {
		pdf.CellFormat(cols[0], 7, tr(item.Description), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 7, formatQuantity(item.Quantity), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 7, formatMoney(item.UnitPrice, doc.Currency), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, formatMoney(item.Total(), doc.Currency), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	labelWidth := cols[0] + cols[1] + cols[2]
	totals := [][2]string{{"Total", formatMoney(doc.Total, doc.Currency)}}
	if doc.AmountPaid > 0 {
		due := doc.Total - doc.AmountPaid
		if due < 0 {
			due = 0
		}
		totals = append(totals,
			[2]string{"Paid", formatMoney(doc.AmountPaid, doc.Currency)},
			[2]string{"Balance due", formatMoney(due, doc.Currency)},
		)
	}
	for i, row := range totals {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelWidth, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, row[1], "", 1, "R", false, 0, "")
	}

	if doc.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentWidth, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentWidth, 5, tr(doc.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// parseHexColor accepts "#rrggbb" or "rrggbb" and falls back to the default accent.
func parseHexColor(s string) [3]int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return defaultAccent
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return defaultAccent
	}
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func formatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(whole, ".")

	var grouped strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s %s.%s", sign, currency, grouped.String(), frac)
}
