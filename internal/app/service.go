package app

import (
	"context"
	"io"
)

// ApplicationService is the single interface all adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// UploadCSV runs the full ingestion pipeline on one vendor CSV export.
	UploadCSV(ctx context.Context, filename string, file io.Reader, userID int) (*UploadCSVResult, error)

	// PreviewCSV inspects a CSV without persisting anything: detected vendor,
	// sample rows, and validation counts.
	PreviewCSV(ctx context.Context, file io.Reader) (*PreviewResult, error)

	// GetUpload returns the audit record for one ingestion run.
	GetUpload(ctx context.Context, uploadID string) (*UploadStatusResult, error)

	// ListUploads returns recent ingestion runs, newest first.
	ListUploads(ctx context.Context, limit int) (*UploadListResult, error)

	// GetSummary returns the dashboard headline numbers.
	GetSummary(ctx context.Context) (*SummaryResult, error)

	// ListSales returns recent sales transactions, newest first.
	ListSales(ctx context.Context, limit int) (*SalesResult, error)

	// ListInventory returns current stock joined with location and product.
	ListInventory(ctx context.Context) (*InventoryResult, error)

	// ClearTables wipes all pipeline-owned data tables. Demo/reset helper.
	ClearTables(ctx context.Context) error
}
