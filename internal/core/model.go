package core

import (
	"time"

	"github.com/shopspring/decimal"

	"vendtrack/internal/csvproc"
)

// Location is a canonical physical site. Name carries the normalized location
// code and is the identity key for resolution; address and manager are
// enriched later by hand, not by the pipeline.
type Location struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address,omitempty"`
	ManagerName *string   `json:"manager_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a canonical product keyed by SKU (= UPC code). Rows created by
// the pipeline carry a placeholder name and zero price until enriched.
type Product struct {
	ID        int             `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InventoryRecord tracks stock for one (location, product) pair. At most one
// record exists per pair; quantity never goes below zero.
type InventoryRecord struct {
	ID            int       `json:"id"`
	LocationID    int       `json:"location_id"`
	ProductID     int       `json:"product_id"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	MaxStockLevel int       `json:"max_stock_level"`
	LastUpdated   time.Time `json:"last_updated"`
	UpdatedBy     *int      `json:"updated_by,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Product       *Product  `json:"product,omitempty"`
}

// SalesTransaction is a persisted canonical transaction, tagged with the
// upload that produced it.
type SalesTransaction struct {
	ID              int             `json:"id"`
	LocationCode    string          `json:"location_code"`
	ProductName     string          `json:"product_name"`
	UPCCode         string          `json:"upc_code"`
	TransactionDate time.Time       `json:"transaction_date"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	FinalAmount     decimal.Decimal `json:"final_amount"`
	Vendor          csvproc.Vendor  `json:"vendor"`
	CSVUploadID     string          `json:"csv_upload_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// UploadStatus is the lifecycle state of a CSV upload run.
type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// CSVUpload is the audit record of one ingestion run. It is created in
// `processing` state and moves exactly once to `completed` or `failed`,
// after which its fields are frozen.
type CSVUpload struct {
	ID               string         `json:"id"`
	Filename         string         `json:"filename"`
	Vendor           csvproc.Vendor `json:"vendor"`
	Status           UploadStatus   `json:"status"`
	ProcessedAt      *time.Time     `json:"processed_at,omitempty"`
	RecordsProcessed int            `json:"records_processed"`
	ErrorsCount      int            `json:"errors_count"`
	ErrorLog         *string        `json:"error_log,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Summary holds the dashboard headline numbers.
type Summary struct {
	TotalLocations int             `json:"totalLocations"`
	TotalProducts  int             `json:"totalProducts"`
	LowStockItems  int             `json:"lowStockItems"`
	TotalSales     decimal.Decimal `json:"totalSales"`
}

// User is an operator account. Sessions are checked by the web adapter before
// any pipeline step runs.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// InputError marks a rejection caused by the uploaded file itself (missing
// file, wrong extension, too few rows, unknown vendor, zero valid rows).
// The web adapter maps it to HTTP 400; everything else is a store failure
// and maps to 500.
type InputError struct {
	Message string
	Details any
}

func (e *InputError) Error() string { return e.Message }
