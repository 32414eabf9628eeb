package csvproc_test

import (
	"testing"

	"vendtrack/internal/csvproc"
)

func TestDetectVendor(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    csvproc.Vendor
	}{
		{
			name:    "vendor A canonical order",
			headers: []string{"Location_ID", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount"},
			want:    csvproc.VendorA,
		},
		{
			name:    "vendor A reordered",
			headers: []string{"Total_Amount", "Price", "Trans_Date", "Scancode", "Product_Name", "Location_ID"},
			want:    csvproc.VendorA,
		},
		{
			name:    "vendor A with extra columns",
			headers: []string{"Location_ID", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount", "Operator", "Notes"},
			want:    csvproc.VendorA,
		},
		{
			name:    "vendor A with padded headers",
			headers: []string{" Location_ID ", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount"},
			want:    csvproc.VendorA,
		},
		{
			name:    "vendor B canonical order",
			headers: []string{"Site_Code", "Item_Description", "UPC", "Sale_Date", "Unit_Price", "Final_Total"},
			want:    csvproc.VendorB,
		},
		{
			name:    "partial vendor A set is unknown",
			headers: []string{"Location_ID", "Product_Name", "Scancode"},
			want:    csvproc.VendorUnknown,
		},
		{
			name:    "unrelated headers are unknown",
			headers: []string{"id", "name", "value"},
			want:    csvproc.VendorUnknown,
		},
		{
			name:    "merged schemas resolve to vendor A",
			headers: append(append([]string{}, csvproc.VendorBHeaders...), csvproc.VendorAHeaders...),
			want:    csvproc.VendorA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csvproc.DetectVendor(tt.headers); got != tt.want {
				t.Errorf("DetectVendor(%v) = %v, want %v", tt.headers, got, tt.want)
			}
		})
	}
}

func TestVendorDisplayName(t *testing.T) {
	if got := csvproc.VendorA.DisplayName(); got != "Vendor A Vending" {
		t.Errorf("VendorA display name = %q", got)
	}
	if got := csvproc.VendorB.DisplayName(); got != "Vendor B Systems" {
		t.Errorf("VendorB display name = %q", got)
	}
	if got := csvproc.VendorUnknown.DisplayName(); got != "Unknown Format" {
		t.Errorf("VendorUnknown display name = %q", got)
	}
}
