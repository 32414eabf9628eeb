package core_test

import (
	"errors"
	"strings"
	"testing"

	"vendtrack/internal/core"
)

const vendorAExport = "Location_ID,Product_Name,Scancode,Trans_Date,Price,Total_Amount\n" +
	"2.0_SW_02,Celsius Arctic,889392014,06/09/2025,3.50,3.82\n" +
	"2.0_SW_02,Celsius Arctic,889392014,06/09/2025,3.50,3.82\n" +
	"bad row,,123,notadate,-1,0\n"

func TestUploadService_ProcessUpload_EndToEnd(t *testing.T) {
	pool, ctx := setupTestDB(t)
	refs := core.NewReferenceService(pool)
	inv := core.NewInventoryService(pool)
	uploads := core.NewUploadService(pool, refs, inv)

	result, err := uploads.ProcessUpload(ctx, "vendor_a_june.csv", strings.NewReader(vendorAExport), 1)
	if err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}

	if result.Stats.TotalRecords != 3 || result.Stats.ValidRecords != 2 || result.Stats.InvalidRecords != 1 {
		t.Errorf("stats = %+v, want 3/2/1", result.Stats)
	}
	if result.Preview.Vendor != "Vendor A Vending" {
		t.Errorf("preview vendor = %q", result.Preview.Vendor)
	}

	// Audit row reaches completed with the counts frozen.
	audit, err := uploads.GetUpload(ctx, result.UploadID)
	if err != nil {
		t.Fatalf("GetUpload failed: %v", err)
	}
	if audit.Status != core.UploadCompleted {
		t.Errorf("audit status = %s, want completed", audit.Status)
	}
	if audit.RecordsProcessed != 2 || audit.ErrorsCount != 1 {
		t.Errorf("audit counts = %d/%d, want 2/1", audit.RecordsProcessed, audit.ErrorsCount)
	}
	if audit.ErrorLog == nil || !strings.Contains(*audit.ErrorLog, `"row":4`) {
		t.Errorf("error log missing invalid row detail: %v", audit.ErrorLog)
	}

	// Both sales rows persisted and tagged with the upload.
	var salesCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales_transactions WHERE csv_upload_id = $1", result.UploadID).Scan(&salesCount); err != nil {
		t.Fatalf("sales count failed: %v", err)
	}
	if salesCount != 2 {
		t.Errorf("persisted sales = %d, want 2", salesCount)
	}

	// One (location, product) pair means exactly one inventory record.
	var invCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM inventory").Scan(&invCount); err != nil {
		t.Fatalf("inventory count failed: %v", err)
	}
	if invCount != 1 {
		t.Errorf("inventory records = %d, want 1", invCount)
	}
}

func TestUploadService_RejectsNonCSV(t *testing.T) {
	pool, ctx := setupTestDB(t)
	uploads := core.NewUploadService(pool, core.NewReferenceService(pool), core.NewInventoryService(pool))

	_, err := uploads.ProcessUpload(ctx, "sales.xlsx", strings.NewReader("x"), 1)
	var inputErr *core.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestUploadService_RejectsHeaderOnlyFile(t *testing.T) {
	pool, ctx := setupTestDB(t)
	uploads := core.NewUploadService(pool, core.NewReferenceService(pool), core.NewInventoryService(pool))

	_, err := uploads.ProcessUpload(ctx, "empty.csv",
		strings.NewReader("Location_ID,Product_Name,Scancode,Trans_Date,Price,Total_Amount\n"), 1)
	var inputErr *core.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if !strings.Contains(inputErr.Message, "header row and one data row") {
		t.Errorf("unexpected message: %q", inputErr.Message)
	}

	// Rejected before any audit side effect.
	var audits int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM csv_uploads").Scan(&audits); err != nil {
		t.Fatalf("audit count failed: %v", err)
	}
	if audits != 0 {
		t.Errorf("expected no audit rows, got %d", audits)
	}
}

func TestUploadService_UnknownVendorLeavesNoAuditRow(t *testing.T) {
	pool, ctx := setupTestDB(t)
	uploads := core.NewUploadService(pool, core.NewReferenceService(pool), core.NewInventoryService(pool))

	_, err := uploads.ProcessUpload(ctx, "mystery.csv",
		strings.NewReader("colA,colB\n1,2\n"), 1)
	var inputErr *core.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if inputErr.Message != "Unsupported CSV format" {
		t.Errorf("message = %q", inputErr.Message)
	}

	var audits int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM csv_uploads").Scan(&audits); err != nil {
		t.Fatalf("audit count failed: %v", err)
	}
	if audits != 0 {
		t.Errorf("expected no audit rows, got %d", audits)
	}
}

func TestUploadService_ZeroValidRowsFailsAudit(t *testing.T) {
	pool, ctx := setupTestDB(t)
	uploads := core.NewUploadService(pool, core.NewReferenceService(pool), core.NewInventoryService(pool))

	file := "Location_ID,Product_Name,Scancode,Trans_Date,Price,Total_Amount\n" +
		"loc,,123,bad,-1,x\n"
	_, err := uploads.ProcessUpload(ctx, "all_bad.csv", strings.NewReader(file), 1)
	var inputErr *core.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}

	// This is the one validation case that creates and fails an audit row.
	audits, err := uploads.ListUploads(ctx, 10)
	if err != nil {
		t.Fatalf("ListUploads failed: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audits))
	}
	if audits[0].Status != core.UploadFailed {
		t.Errorf("audit status = %s, want failed", audits[0].Status)
	}
	if audits[0].RecordsProcessed != 0 || audits[0].ErrorsCount != 1 {
		t.Errorf("audit counts = %d/%d, want 0/1", audits[0].RecordsProcessed, audits[0].ErrorsCount)
	}
}
