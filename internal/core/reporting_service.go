package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vendtrack/internal/csvproc"
)

// ReportingService serves the dashboard read endpoints. These consume the
// pipeline's outputs and never mutate them.
type ReportingService interface {
	// GetSummary returns headline numbers: distinct stocked locations and
	// products, items at or below their minimum stock level, and the total
	// sales amount across all transactions.
	GetSummary(ctx context.Context) (*Summary, error)

	// ListSales returns recent sales transactions, newest first.
	ListSales(ctx context.Context, limit int) ([]SalesTransaction, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetSummary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT location_id),
		       COUNT(DISTINCT product_id),
		       COUNT(*) FILTER (WHERE quantity <= min_stock_level)
		FROM inventory
	`).Scan(&summary.TotalLocations, &summary.TotalProducts, &summary.LowStockItems)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize inventory: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(final_amount), 0) FROM sales_transactions",
	).Scan(&summary.TotalSales)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}

	return summary, nil
}

func (s *reportingService) ListSales(ctx context.Context, limit int) ([]SalesTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, location_code, product_name, upc_code, transaction_date,
		       unit_price, final_amount, vendor, csv_upload_id, created_at
		FROM sales_transactions
		ORDER BY transaction_date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []SalesTransaction
	for rows.Next() {
		var t SalesTransaction
		var vendor string
		if err := rows.Scan(&t.ID, &t.LocationCode, &t.ProductName, &t.UPCCode, &t.TransactionDate,
			&t.UnitPrice, &t.FinalAmount, &vendor, &t.CSVUploadID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sales transaction: %w", err)
		}
		t.Vendor = csvproc.Vendor(vendor)
		sales = append(sales, t)
	}
	return sales, rows.Err()
}
