package services

import (
	"bytes"
	"fmt"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// itemColumns are the headings and widths (mm) of the line table
var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "C"},
	{"Product", 44, "L"},
	{"HSN", 16, "C"},
	{"Qty", 16, "R"},
	{"Unit", 14, "C"},
	{"Rate", 18, "R"},
	{"Taxable", 22, "R"},
	{"GST %", 12, "R"},
	{"GST", 14, "R"},
	{"Amount", 16, "R"},
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// renderInvoicePDF lays out a sales invoice or return on one or more A4 pages
func renderInvoicePDF(inv *models.Invoice, company InvoiceSettings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	title := "TAX INVOICE"
	if inv.IsReturn() {
		title = "CREDIT NOTE (SALES RETURN)"
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, company.CompanyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if company.CompanyAddress != "" {
		pdf.MultiCell(0, 5, company.CompanyAddress, "", "L", false)
	}
	if company.CompanyGSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+company.CompanyGSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, title, "TB", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Number: "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+inv.InvoiceDate.Format("02-01-2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, "Bill to: "+inv.CustomerName, "", 0, "L", false, 0, "")
	supply := "Intra-state (CGST + SGST)"
	if inv.SupplyType == gst.SupplyInterState {
		supply = "Inter-state (IGST)"
	}
	pdf.CellFormat(95, 6, "Supply: "+supply, "", 1, "R", false, 0, "")
	if inv.CustomerGSTIN != nil {
		pdf.CellFormat(95, 6, "Customer GSTIN: "+*inv.CustomerGSTIN, "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 6, "", "", 0, "L", false, 0, "")
	}
	if inv.PlaceOfSupply != "" {
		place := inv.PlaceOfSupply
		if name, ok := models.StateName(place); ok {
			place = fmt.Sprintf("%s (%s)", name, place)
		}
		pdf.CellFormat(95, 6, "Place of supply: "+place, "", 1, "R", false, 0, "")
	} else {
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, item := range inv.Items {
		values := []string{
			fmt.Sprint(i + 1),
			item.ProductName,
			item.HSNCode,
			fmt.Sprintf("%g", item.Qty),
			item.Unit,
			money(item.Rate),
			money(item.TaxableValue),
			fmt.Sprintf("%g", item.GSTRate),
			money(item.GST),
			money(item.InvoiceValue),
		}
		for j, col := range itemColumns {
			pdf.CellFormat(col.width, 6, values[j], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	if inv.Breakdown != nil && inv.Breakdown.Len() > 0 {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(30, 6, "GST rate", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, "Taxable amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, "GST amount", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, rate := range inv.Breakdown.SortedRates() {
			t, _ := inv.Breakdown.Get(rate)
			pdf.CellFormat(30, 6, fmt.Sprintf("%g%%", rate), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(t.TaxableAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(t.GSTAmount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	rows := [][2]string{{"Taxable amount", money(inv.TaxableAmount)}}
	if inv.SupplyType == gst.SupplyInterState {
		rows = append(rows, [2]string{"IGST", money(inv.IGST)})
	} else {
		rows = append(rows,
			[2]string{"CGST", money(inv.CGST)},
			[2]string{"SGST", money(inv.SGST)})
	}
	rows = append(rows,
		[2]string{"Total invoice value", money(inv.TotalInvoiceValue)},
		[2]string{fmt.Sprintf("Discount (%g%%)", inv.DiscountPercent), "-" + money(inv.Discount)})

	for _, row := range rows {
		pdf.CellFormat(140, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "Total (Rs.)", "T", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, money(inv.Total), "T", 1, "R", false, 0, "")

	if inv.Notes != nil && *inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, *inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
