package csvproc_test

import (
	"testing"
	"time"

	"vendtrack/internal/csvproc"
)

func TestNormalizeLocationCode(t *testing.T) {
	tests := []struct {
		raw    string
		vendor csvproc.Vendor
		want   string
	}{
		{"2.0_SW_02", csvproc.VendorA, "sw_02"},
		{"SW_02", csvproc.VendorB, "sw_02"},
		{"SW_02", csvproc.VendorA, "sw_02"}, // no prefix to strip
		{"3.1_NE-07", csvproc.VendorA, "ne07"},
		{"  Site #12  ", csvproc.VendorB, "site12"},
		{"", csvproc.VendorA, ""},
	}

	for _, tt := range tests {
		got := csvproc.NormalizeLocationCode(tt.raw, tt.vendor)
		if got != tt.want {
			t.Errorf("NormalizeLocationCode(%q, %s) = %q, want %q", tt.raw, tt.vendor, got, tt.want)
		}
	}
}

// Both vendors' representations of the same physical location must converge
// to the same canonical code.
func TestNormalize_LocationConvergence(t *testing.T) {
	vendorARows := [][]string{
		{"Location_ID", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount"},
		{"2.0_SW_02", "Celsius Arctic", "889392014", "06/09/2025", "3.50", "3.82"},
	}
	vendorBRows := [][]string{
		{"Site_Code", "Item_Description", "UPC", "Sale_Date", "Unit_Price", "Final_Total"},
		{"SW_02", "Celsius Arctic Berry", "889392014", "2025-06-09", "3.50", "3.82"},
	}

	a := csvproc.Normalize(vendorARows, csvproc.VendorA)
	b := csvproc.Normalize(vendorBRows, csvproc.VendorB)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected 1 candidate each, got %d and %d", len(a), len(b))
	}

	if a[0].LocationCode != "sw_02" {
		t.Errorf("vendor A location = %q, want sw_02", a[0].LocationCode)
	}
	if b[0].LocationCode != a[0].LocationCode {
		t.Errorf("vendor codes diverge: A=%q B=%q", a[0].LocationCode, b[0].LocationCode)
	}
	if a[0].UPCCode != "889392014" {
		t.Errorf("vendor A UPC = %q", a[0].UPCCode)
	}

	// Both date formats must land on the same RFC 3339 instant.
	want := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	if a[0].TransactionDate != want {
		t.Errorf("vendor A date = %q, want %q", a[0].TransactionDate, want)
	}
	if b[0].TransactionDate != want {
		t.Errorf("vendor B date = %q, want %q", b[0].TransactionDate, want)
	}
}

func TestNormalize_ColumnOrderIndependent(t *testing.T) {
	rows := [][]string{
		{"Price", "Location_ID", "Total_Amount", "Product_Name", "Trans_Date", "Scancode"},
		{"3.50", "2.0_SW_02", "3.82", "Celsius Arctic", "06/09/2025", "889392014"},
	}

	got := csvproc.Normalize(rows, csvproc.VendorA)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.LocationCode != "sw_02" || c.ProductName != "Celsius Arctic" || c.UPCCode != "889392014" ||
		c.UnitPrice != "3.50" || c.FinalAmount != "3.82" {
		t.Errorf("unexpected candidate: %+v", c)
	}
}

func TestNormalize_ShortRowYieldsEmptyFields(t *testing.T) {
	rows := [][]string{
		{"Site_Code", "Item_Description", "UPC", "Sale_Date", "Unit_Price", "Final_Total"},
		{"SW_02", "Celsius"},
	}

	got := csvproc.Normalize(rows, csvproc.VendorB)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].UPCCode != "" || got[0].TransactionDate != "" {
		t.Errorf("missing columns should map to empty strings, got %+v", got[0])
	}
}

func TestNormalize_UnknownVendor(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"1", "2"}}
	if got := csvproc.Normalize(rows, csvproc.VendorUnknown); got != nil {
		t.Errorf("expected nil for unknown vendor, got %v", got)
	}
}
