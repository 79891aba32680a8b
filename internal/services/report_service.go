package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gst-invoice-api/internal/adapters/storage"
	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// reportService implements the ReportService interface
type reportService struct {
	repos  repositories.RepositoryManager
	files  storage.FileStorage
	logger *logrus.Logger
}

// NewReportService creates a new report service instance
func NewReportService(repos repositories.RepositoryManager, files storage.FileStorage, logger *logrus.Logger) ReportService {
	if logger == nil {
		logger = logrus.New()
	}
	return &reportService{
		repos:  repos,
		files:  files,
		logger: logger,
	}
}

// reportPeriod checks the range. An end date at midnight covers that whole day.
func reportPeriod(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return start, end, validationFailed("Start and end dates are required")
	}
	end = inclusiveEnd(end)
	if end.Before(start) {
		return start, end, validationFailed("End date must not be before start date")
	}
	return start, end, nil
}

// inclusiveEnd extends an end date given at midnight to the last instant of that day
func inclusiveEnd(end time.Time) time.Time {
	if h, m, sec := end.Clock(); h == 0 && m == 0 && sec == 0 && end.Nanosecond() == 0 {
		return end.Add(24*time.Hour - time.Nanosecond)
	}
	return end
}

// GetGSTSummary aggregates sales, returns and purchases in a period
func (s *reportService) GetGSTSummary(ctx context.Context, start, end time.Time) (*models.GSTSummary, error) {
	start, end, err := reportPeriod(start, end)
	if err != nil {
		return nil, err
	}

	summary := &models.GSTSummary{
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: time.Now(),
	}

	filter := repositories.DocumentFilter{StartDate: &start, EndDate: &end}

	filter.InvoiceType = models.InvoiceTypeSale
	sales, err := s.repos.Invoices().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	summary.Sales = summarizeInvoices(sales)

	filter.InvoiceType = models.InvoiceTypeReturn
	returns, err := s.repos.Invoices().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	summary.Returns = summarizeInvoices(returns)

	filter.InvoiceType = ""
	purchases, err := s.repos.Purchases().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	summary.Purchases = summarizePurchases(purchases)

	byRate := make(map[float64]*models.RateSummary)
	row := func(rate float64) *models.RateSummary {
		r, ok := byRate[rate]
		if !ok {
			r = &models.RateSummary{GSTRate: rate}
			byRate[rate] = r
		}
		return r
	}

	saleItems, err := s.repos.Invoices().GetItemsByDateRange(ctx, models.InvoiceTypeSale, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales items: %w", err)
	}
	for _, item := range saleItems {
		r := row(item.GSTRate)
		r.SalesTaxable += item.TaxableValue
		r.SalesGST += item.GST
	}

	returnItems, err := s.repos.Invoices().GetItemsByDateRange(ctx, models.InvoiceTypeReturn, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get return items: %w", err)
	}
	for _, item := range returnItems {
		r := row(item.GSTRate)
		r.ReturnsTaxable += item.TaxableValue
		r.ReturnsGST += item.GST
	}

	purchaseItems, err := s.repos.Purchases().GetItemsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase items: %w", err)
	}
	for _, item := range purchaseItems {
		r := row(item.GSTRate)
		r.PurchaseTaxable += item.TaxableValue
		r.PurchaseGST += item.GST
	}

	summary.ByRate = make([]models.RateSummary, 0, len(byRate))
	for _, r := range byRate {
		summary.ByRate = append(summary.ByRate, models.RateSummary{
			GSTRate:         r.GSTRate,
			SalesTaxable:    gst.Round2(r.SalesTaxable),
			SalesGST:        gst.Round2(r.SalesGST),
			ReturnsTaxable:  gst.Round2(r.ReturnsTaxable),
			ReturnsGST:      gst.Round2(r.ReturnsGST),
			PurchaseTaxable: gst.Round2(r.PurchaseTaxable),
			PurchaseGST:     gst.Round2(r.PurchaseGST),
		})
	}
	sort.Slice(summary.ByRate, func(i, j int) bool {
		return summary.ByRate[i].GSTRate < summary.ByRate[j].GSTRate
	})

	summary.OutputTax = gst.Round2(summary.Sales.GSTAmount - summary.Returns.GSTAmount)
	summary.InputTax = summary.Purchases.GSTAmount
	summary.NetPayable = gst.Round2(summary.OutputTax - summary.InputTax)

	return summary, nil
}

func summarizeInvoices(invoices []*models.Invoice) models.DocumentSummary {
	var sum models.DocumentSummary
	for _, inv := range invoices {
		sum.Count++
		sum.TaxableAmount += inv.TaxableAmount
		sum.GSTAmount += inv.GSTAmount
		sum.CGST += inv.CGST
		sum.SGST += inv.SGST
		sum.IGST += inv.IGST
		sum.Discount += inv.Discount
		sum.TotalInvoiceValue += inv.TotalInvoiceValue
		sum.Total += inv.Total
	}
	return roundSummary(sum)
}

func summarizePurchases(purchases []*models.Purchase) models.DocumentSummary {
	var sum models.DocumentSummary
	for _, p := range purchases {
		sum.Count++
		sum.TaxableAmount += p.TaxableAmount
		sum.GSTAmount += p.GSTAmount
		sum.Discount += p.Discount
		sum.TotalInvoiceValue += p.TotalInvoiceValue
		sum.Total += p.Total
	}
	return roundSummary(sum)
}

func roundSummary(sum models.DocumentSummary) models.DocumentSummary {
	sum.TaxableAmount = gst.Round2(sum.TaxableAmount)
	sum.GSTAmount = gst.Round2(sum.GSTAmount)
	sum.CGST = gst.Round2(sum.CGST)
	sum.SGST = gst.Round2(sum.SGST)
	sum.IGST = gst.Round2(sum.IGST)
	sum.Discount = gst.Round2(sum.Discount)
	sum.TotalInvoiceValue = gst.Round2(sum.TotalInvoiceValue)
	sum.Total = gst.Round2(sum.Total)
	return sum
}

// ExportGSTSummary writes the summary to a workbook with a "Summary" and a
// "By rate" sheet and archives it
func (s *reportService) ExportGSTSummary(ctx context.Context, start, end time.Time) (*RenderedDocument, error) {
	summary, err := s.GetGSTSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := gstSummaryWorkbook(summary)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("gst-summary-%s-%s", summary.StartDate.Format("20060102"), summary.EndDate.Format("20060102"))
	doc := &RenderedDocument{
		Key:         storage.ReportKey(name),
		ContentType: storage.ContentTypeXLSX,
		Data:        data,
	}

	if s.files != nil {
		err = s.files.Store(ctx, doc.Key, data, &storage.StoreOptions{
			ContentType: doc.ContentType,
			Overwrite:   true,
			Metadata: map[string]string{
				"report":     "gst-summary",
				"start_date": summary.StartDate.Format("2006-01-02"),
				"end_date":   summary.EndDate.Format("2006-01-02"),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store report: %w", err)
		}
	}

	s.logger.WithField("key", doc.Key).Info("GST summary exported")
	return doc, nil
}

const (
	summarySheet = "Summary"
	byRateSheet  = "By rate"
)

func gstSummaryWorkbook(summary *models.GSTSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}
	if _, err := f.NewSheet(byRateSheet); err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}

	rows := [][]interface{}{
		{"GST summary", summary.StartDate.Format("2006-01-02"), summary.EndDate.Format("2006-01-02")},
		{},
		{"", "Sales", "Returns", "Purchases"},
		{"Documents", summary.Sales.Count, summary.Returns.Count, summary.Purchases.Count},
		{"Taxable amount", summary.Sales.TaxableAmount, summary.Returns.TaxableAmount, summary.Purchases.TaxableAmount},
		{"GST", summary.Sales.GSTAmount, summary.Returns.GSTAmount, summary.Purchases.GSTAmount},
		{"CGST", summary.Sales.CGST, summary.Returns.CGST, summary.Purchases.CGST},
		{"SGST", summary.Sales.SGST, summary.Returns.SGST, summary.Purchases.SGST},
		{"IGST", summary.Sales.IGST, summary.Returns.IGST, summary.Purchases.IGST},
		{"Invoice value", summary.Sales.TotalInvoiceValue, summary.Returns.TotalInvoiceValue, summary.Purchases.TotalInvoiceValue},
		{"Discount", summary.Sales.Discount, summary.Returns.Discount, summary.Purchases.Discount},
		{"Total", summary.Sales.Total, summary.Returns.Total, summary.Purchases.Total},
		{},
		{"Output tax", summary.OutputTax},
		{"Input tax", summary.InputTax},
		{"Net payable", summary.NetPayable},
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(summarySheet, "A1", "A1", bold)
	_ = f.SetCellStyle(summarySheet, "A3", "D3", bold)
	_ = f.SetCellStyle(summarySheet, "A16", "B16", bold)
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "D", 14)

	rateRows := [][]interface{}{
		{"GST rate", "Sales taxable", "Sales GST", "Returns taxable", "Returns GST", "Purchase taxable", "Purchase GST"},
	}
	for _, r := range summary.ByRate {
		rateRows = append(rateRows, []interface{}{
			r.GSTRate, r.SalesTaxable, r.SalesGST, r.ReturnsTaxable, r.ReturnsGST, r.PurchaseTaxable, r.PurchaseGST,
		})
	}
	if err := writeRows(f, byRateSheet, rateRows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(byRateSheet, "A1", "G1", bold)
	_ = f.SetColWidth(byRateSheet, "A", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s: %w", sheet, err)
			}
		}
	}
	return nil
}
