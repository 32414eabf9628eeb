package csvproc

import "strings"

// Vendor identifies which source system produced a CSV export.
type Vendor string

const (
	VendorA       Vendor = "vendor_a"
	VendorB       Vendor = "vendor_b"
	VendorUnknown Vendor = "unknown"
)

// DisplayName returns the user-facing name shown in previews and upload history.
func (v Vendor) DisplayName() string {
	switch v {
	case VendorA:
		return "Vendor A Vending"
	case VendorB:
		return "Vendor B Systems"
	default:
		return "Unknown Format"
	}
}

// Fixed header sets for the two known vendor schemas.
var (
	VendorAHeaders = []string{"Location_ID", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount"}
	VendorBHeaders = []string{"Site_Code", "Item_Description", "UPC", "Sale_Date", "Unit_Price", "Final_Total"}
)

// DetectVendor classifies a header row as VendorA, VendorB, or VendorUnknown.
// A schema matches only when every one of its headers is present in the row;
// order is irrelevant and extra columns are tolerated. VendorA is checked
// first, which keeps detection deterministic if the schemas ever overlap.
func DetectVendor(headers []string) Vendor {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	if hasAll(present, VendorAHeaders) {
		return VendorA
	}
	if hasAll(present, VendorBHeaders) {
		return VendorB
	}
	return VendorUnknown
}

func hasAll(present map[string]bool, required []string) bool {
	for _, h := range required {
		if !present[h] {
			return false
		}
	}
	return true
}
