package csvproc

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical, validated representation of one sale,
// independent of source vendor. Instances are produced only by
// ValidateCandidates.
type Transaction struct {
	LocationCode    string
	ProductName     string
	UPCCode         string
	TransactionDate time.Time
	UnitPrice       decimal.Decimal
	FinalAmount     decimal.Decimal
	Vendor          Vendor
}

// RowError records why one source row failed validation. Row is the 1-based
// row number in the original file, header included.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ValidationResult partitions a batch into valid transactions and per-row
// failures, both in original row order.
type ValidationResult struct {
	Valid   []Transaction
	Invalid []RowError
}

var upcPattern = regexp.MustCompile(`^\d{9,12}$`)

// ValidateCandidates checks every candidate and collects all applicable
// failure reasons per row rather than stopping at the first. Candidates are
// 0-indexed relative to the data rows, so a failing candidate i is reported
// as file row i+2 (the header occupies row 1).
func ValidateCandidates(candidates []Candidate) ValidationResult {
	var result ValidationResult
	now := time.Now()

	for i, c := range candidates {
		var errs []string

		if c.LocationCode == "" {
			errs = append(errs, "Location ID is required")
		}
		if c.ProductName == "" {
			errs = append(errs, "Product name is required")
		}
		if c.UPCCode == "" {
			errs = append(errs, "Scancode is required")
		}
		if c.TransactionDate == "" {
			errs = append(errs, "Transaction date is required")
		}

		price, priceErr := decimal.NewFromString(strings.TrimSpace(c.UnitPrice))
		if priceErr != nil {
			errs = append(errs, "Price must be a valid number")
		} else if !price.IsPositive() {
			errs = append(errs, "Price must be greater than 0")
		}

		total, totalErr := decimal.NewFromString(strings.TrimSpace(c.FinalAmount))
		if totalErr != nil {
			errs = append(errs, "Total amount must be a valid number")
		} else if !total.IsPositive() {
			errs = append(errs, "Total amount must be greater than 0")
		}

		var txDate time.Time
		if c.TransactionDate != "" {
			var dateErr error
			txDate, dateErr = time.Parse(time.RFC3339, c.TransactionDate)
			if dateErr != nil {
				errs = append(errs, "Invalid transaction date format")
			} else if txDate.After(now) {
				errs = append(errs, "Transaction date cannot be in the future")
			}
		}

		if !upcPattern.MatchString(c.UPCCode) {
			errs = append(errs, "Scancode must be 9-12 digits")
		}

		if len(errs) > 0 {
			result.Invalid = append(result.Invalid, RowError{Row: i + 2, Errors: errs})
			continue
		}

		result.Valid = append(result.Valid, Transaction{
			LocationCode:    c.LocationCode,
			ProductName:     c.ProductName,
			UPCCode:         c.UPCCode,
			TransactionDate: txDate,
			UnitPrice:       price,
			FinalAmount:     total,
			Vendor:          c.Vendor,
		})
	}
	return result
}
