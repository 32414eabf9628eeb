package app

import (
	"vendtrack/internal/core"
	"vendtrack/internal/csvproc"
)

// UserSession identifies an authenticated user.
type UserSession struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserResult is returned by GetUser.
type UserResult struct {
	User *core.User
}

// UploadCSVResult is returned by UploadCSV.
type UploadCSVResult struct {
	UploadID string
	Stats    core.UploadStats
	Preview  csvproc.Preview
}

// PreviewResult is returned by PreviewCSV.
type PreviewResult struct {
	Preview     csvproc.Preview
	ValidRows   int
	InvalidRows []csvproc.RowError
}

// UploadStatusResult is returned by GetUpload.
type UploadStatusResult struct {
	Upload *core.CSVUpload
}

// UploadListResult is returned by ListUploads.
type UploadListResult struct {
	Uploads []core.CSVUpload
}

// SummaryResult is returned by GetSummary.
type SummaryResult struct {
	Summary *core.Summary
}

// SalesResult is returned by ListSales.
type SalesResult struct {
	Sales []core.SalesTransaction
}

// InventoryResult is returned by ListInventory.
type InventoryResult struct {
	Records []core.InventoryRecord
}
