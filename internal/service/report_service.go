package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
)

// ReportService defines the interface for reporting queries and exports.
type ReportService interface {
	SalesReport(ctx context.Context, from, to time.Time) ([]*domain.SalesReportRow, error)
	PurchaseReport(ctx context.Context, from, to time.Time) ([]*domain.PurchaseReportRow, error)
	Dashboard(ctx context.Context) (*domain.DashboardSummary, error)
	ExportSalesCSV(ctx context.Context, w io.Writer, from, to time.Time) error
}

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) SalesReport(ctx context.Context, from, to time.Time) ([]*domain.SalesReportRow, error) {
	return s.reportRepo.SalesByVariant(ctx, from, to)
}

func (s *reportService) PurchaseReport(ctx context.Context, from, to time.Time) ([]*domain.PurchaseReportRow, error) {
	return s.reportRepo.PurchasesByVariant(ctx, from, to)
}

func (s *reportService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	return s.reportRepo.Dashboard(ctx)
}

// ExportSalesCSV streams the sales report as CSV.
func (s *reportService) ExportSalesCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := s.reportRepo.SalesByVariant(ctx, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"product", "sku", "units_sold", "gross_revenue", "cost"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ProductName,
			row.SKU,
			strconv.Itoa(row.UnitsSold),
			row.GrossRevenue.StringFixed(2),
			row.Cost.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
