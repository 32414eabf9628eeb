package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendtrack/internal/csvproc"
)

// UploadService runs the full ingestion pipeline for one CSV upload and
// serves the resulting audit records.
type UploadService interface {
	// ProcessUpload ingests one vendor CSV export as a single sequential unit
	// of work: decode, tokenize, detect, normalize, validate, persist sales,
	// reconcile inventory, and bookend the run with a csv_uploads audit row.
	// Input problems return *InputError before any audit row is written
	// (except the zero-valid-rows case, which fails the already-created row).
	ProcessUpload(ctx context.Context, filename string, file io.Reader, userID int) (*UploadResult, error)

	// GetUpload returns one audit row by id.
	GetUpload(ctx context.Context, id string) (*CSVUpload, error)

	// ListUploads returns recent audit rows, newest first.
	ListUploads(ctx context.Context, limit int) ([]CSVUpload, error)
}

// UploadResult is the caller-facing outcome of a successful ingestion run.
type UploadResult struct {
	UploadID string          `json:"uploadId"`
	Stats    UploadStats     `json:"stats"`
	Preview  csvproc.Preview `json:"preview"`
}

// UploadStats counts what the run saw and kept.
type UploadStats struct {
	TotalRecords   int `json:"totalRecords"`
	ValidRecords   int `json:"validRecords"`
	InvalidRecords int `json:"invalidRecords"`
}

type uploadService struct {
	pool       *pgxpool.Pool
	references ReferenceService
	inventory  InventoryService
}

func NewUploadService(pool *pgxpool.Pool, references ReferenceService, inventory InventoryService) UploadService {
	return &uploadService{pool: pool, references: references, inventory: inventory}
}

func (s *uploadService) ProcessUpload(ctx context.Context, filename string, file io.Reader, userID int) (*UploadResult, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return nil, &InputError{Message: "Invalid file type. Please upload a CSV file."}
	}

	text, err := csvproc.DecodeInput(file)
	if err != nil {
		return nil, &InputError{Message: "Could not read CSV file.", Details: err.Error()}
	}

	rows := csvproc.Tokenize(text)
	if len(rows) < 2 {
		return nil, &InputError{Message: "CSV file must have at least a header row and one data row."}
	}

	vendor := csvproc.DetectVendor(rows[0])
	if vendor == csvproc.VendorUnknown {
		// Nothing meaningful to audit yet: reject before touching the store.
		return nil, &InputError{
			Message: "Unsupported CSV format",
			Details: map[string]any{
				"headers":         rows[0],
				"expectedVendorA": csvproc.VendorAHeaders,
				"expectedVendorB": csvproc.VendorBHeaders,
			},
		}
	}

	uploadID := uuid.NewString()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO csv_uploads (id, filename, vendor, status, uploaded_by)
		VALUES ($1, $2, $3, 'processing', $4)`,
		uploadID, filename, string(vendor), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}

	result := csvproc.ValidateCandidates(csvproc.Normalize(rows, vendor))
	errorLog := marshalErrorLog(result.Invalid)

	if len(result.Valid) == 0 {
		s.finishUpload(ctx, uploadID, UploadFailed, 0, len(result.Invalid), errorLog)
		return nil, &InputError{
			Message: "No valid records found in CSV",
			Details: map[string]any{"invalid": result.Invalid},
		}
	}

	locationIDs, productIDs, err := s.references.ResolveReferences(ctx, result.Valid)
	if err != nil {
		s.finishUpload(ctx, uploadID, UploadFailed, 0, len(result.Invalid), errorLog)
		return nil, err
	}

	inserted, err := s.insertTransactions(ctx, uploadID, result.Valid)
	if err != nil {
		s.finishUpload(ctx, uploadID, UploadFailed, int(inserted), len(result.Invalid), errorLog)
		return nil, fmt.Errorf("failed to insert sales transactions: %w", err)
	}

	// The sales rows are committed; inventory reconciliation failures from
	// here on are soft and must not flip the audit to failed.
	if stats, err := s.inventory.ApplySales(ctx, result.Valid, locationIDs, productIDs, userID); err != nil {
		log.Printf("WARN: inventory reconciliation for upload %s: %v", uploadID, err)
	} else {
		log.Printf("upload %s: %d groups, %d decremented, %d created, %d skipped",
			uploadID, stats.Groups, stats.Updated, stats.Inserted, stats.Skipped)
	}

	s.finishUpload(ctx, uploadID, UploadCompleted, len(result.Valid), len(result.Invalid), errorLog)

	return &UploadResult{
		UploadID: uploadID,
		Stats: UploadStats{
			TotalRecords:   len(rows) - 1,
			ValidRecords:   len(result.Valid),
			InvalidRecords: len(result.Invalid),
		},
		Preview: csvproc.BuildPreview(rows),
	}, nil
}

// insertTransactions bulk-copies the valid batch into sales_transactions.
// Returns how many rows landed, which is recorded as partial progress if the
// copy fails midway.
func (s *uploadService) insertTransactions(ctx context.Context, uploadID string, batch []csvproc.Transaction) (int64, error) {
	source := make([][]any, len(batch))
	for i, t := range batch {
		source[i] = []any{
			t.LocationCode, t.ProductName, t.UPCCode, t.TransactionDate,
			t.UnitPrice, t.FinalAmount, string(t.Vendor), uploadID,
		}
	}

	return s.pool.CopyFrom(ctx,
		pgx.Identifier{"sales_transactions"},
		[]string{"location_code", "product_name", "upc_code", "transaction_date",
			"unit_price", "final_amount", "vendor", "csv_upload_id"},
		pgx.CopyFromRows(source))
}

// finishUpload moves the audit row to its terminal state. The status guard
// makes the transition set-once: a row that already left `processing` is
// never rewritten.
func (s *uploadService) finishUpload(ctx context.Context, id string, status UploadStatus, processed, errorsCount int, errorLog string) {
	_, err := s.pool.Exec(ctx, `
		UPDATE csv_uploads
		SET status = $2, processed_at = NOW(), records_processed = $3, errors_count = $4, error_log = NULLIF($5, '')
		WHERE id = $1 AND status = 'processing'`,
		id, string(status), processed, errorsCount, errorLog)
	if err != nil {
		log.Printf("WARN: failed to finalize upload %s as %s: %v", id, status, err)
	}
}

// marshalErrorLog serializes the invalid-row detail for the audit record.
// Returns "" when there is nothing to log.
func marshalErrorLog(invalid []csvproc.RowError) string {
	if len(invalid) == 0 {
		return ""
	}
	data, err := json.Marshal(map[string]any{"invalid": invalid})
	if err != nil {
		return fmt.Sprintf(`{"invalid_serialization_error":%q}`, err.Error())
	}
	return string(data)
}

func (s *uploadService) GetUpload(ctx context.Context, id string) (*CSVUpload, error) {
	u := &CSVUpload{}
	var vendor, status string
	err := s.pool.QueryRow(ctx, `
		SELECT id, filename, vendor, status, processed_at, COALESCE(records_processed, 0),
		       COALESCE(errors_count, 0), error_log, created_at
		FROM csv_uploads
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Filename, &vendor, &status, &u.ProcessedAt,
		&u.RecordsProcessed, &u.ErrorsCount, &u.ErrorLog, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upload %s not found: %w", id, err)
	}
	u.Vendor = csvproc.Vendor(vendor)
	u.Status = UploadStatus(status)
	return u, nil
}

func (s *uploadService) ListUploads(ctx context.Context, limit int) ([]CSVUpload, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, vendor, status, processed_at, COALESCE(records_processed, 0),
		       COALESCE(errors_count, 0), error_log, created_at
		FROM csv_uploads
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []CSVUpload
	for rows.Next() {
		var u CSVUpload
		var vendor, status string
		if err := rows.Scan(&u.ID, &u.Filename, &vendor, &status, &u.ProcessedAt,
			&u.RecordsProcessed, &u.ErrorsCount, &u.ErrorLog, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		u.Vendor = csvproc.Vendor(vendor)
		u.Status = UploadStatus(status)
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}
