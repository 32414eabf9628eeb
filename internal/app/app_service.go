package app

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"vendtrack/internal/core"
	"vendtrack/internal/csvproc"
)

type appService struct {
	pool      *pgxpool.Pool
	users     core.UserService
	uploads   core.UploadService
	inventory core.InventoryService
	reporting core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	users core.UserService,
	uploads core.UploadService,
	inventory core.InventoryService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		pool:      pool,
		users:     users,
		uploads:   uploads,
		inventory: inventory,
		reporting: reporting,
	}
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) UploadCSV(ctx context.Context, filename string, file io.Reader, userID int) (*UploadCSVResult, error) {
	result, err := s.uploads.ProcessUpload(ctx, filename, file, userID)
	if err != nil {
		return nil, err
	}
	return &UploadCSVResult{UploadID: result.UploadID, Stats: result.Stats, Preview: result.Preview}, nil
}

// PreviewCSV runs the pipeline front half only — nothing is persisted, so a
// header-only or unknown-format file is still previewable.
func (s *appService) PreviewCSV(ctx context.Context, file io.Reader) (*PreviewResult, error) {
	text, err := csvproc.DecodeInput(file)
	if err != nil {
		return nil, &core.InputError{Message: "Could not read CSV file.", Details: err.Error()}
	}

	rows := csvproc.Tokenize(text)
	if len(rows) < 2 {
		return nil, &core.InputError{Message: "CSV file must have at least a header row and one data row."}
	}

	preview := csvproc.BuildPreview(rows)
	result := csvproc.ValidateCandidates(csvproc.Normalize(rows, csvproc.DetectVendor(rows[0])))

	return &PreviewResult{
		Preview:     preview,
		ValidRows:   len(result.Valid),
		InvalidRows: result.Invalid,
	}, nil
}

func (s *appService) GetUpload(ctx context.Context, uploadID string) (*UploadStatusResult, error) {
	upload, err := s.uploads.GetUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	return &UploadStatusResult{Upload: upload}, nil
}

func (s *appService) ListUploads(ctx context.Context, limit int) (*UploadListResult, error) {
	uploads, err := s.uploads.ListUploads(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &UploadListResult{Uploads: uploads}, nil
}

func (s *appService) GetSummary(ctx context.Context) (*SummaryResult, error) {
	summary, err := s.reporting.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: summary}, nil
}

func (s *appService) ListSales(ctx context.Context, limit int) (*SalesResult, error) {
	sales, err := s.reporting.ListSales(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &SalesResult{Sales: sales}, nil
}

func (s *appService) ListInventory(ctx context.Context) (*InventoryResult, error) {
	records, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryResult{Records: records}, nil
}

// ClearTables truncates every pipeline-owned data table. Users survive so
// operators stay logged in after a demo reset.
func (s *appService) ClearTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		TRUNCATE TABLE sales_transactions, inventory, csv_uploads, products, locations
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}
	return nil
}
