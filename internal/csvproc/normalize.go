package csvproc

import (
	"regexp"
	"strings"
	"time"
)

// Candidate is the loosely-typed shape of one data row after vendor column
// mapping but before validation. Fields hold mapped raw strings; only the
// validator promotes a Candidate to a Transaction, so nothing unvalidated can
// reach persistence.
type Candidate struct {
	LocationCode    string
	ProductName     string
	UPCCode         string
	TransactionDate string // RFC 3339 if the source date parsed, else the raw text
	UnitPrice       string
	FinalAmount     string
	Vendor          Vendor
}

var (
	locationCharset = regexp.MustCompile(`[^A-Za-z0-9_.]+`)
	vendorAPrefix   = regexp.MustCompile(`^\d+\.\d+_`)
)

// NormalizeLocationCode canonicalizes a vendor site identifier: strip every
// character except letters, digits, underscore, and dot, then lowercase.
// VendorA additionally prefixes codes with a machine-generation marker
// ("2.0_SW_02"), which is stripped so both vendors' codes for the same
// physical location converge ("2.0_SW_02" and "SW_02" both become "sw_02").
func NormalizeLocationCode(raw string, vendor Vendor) string {
	code := strings.ToLower(locationCharset.ReplaceAllString(raw, ""))
	if vendor == VendorA {
		code = vendorAPrefix.ReplaceAllString(code, "")
	}
	return code
}

// Normalize maps all data rows into candidates using the detected vendor's
// column layout. rows must include the header row. Returns nil for
// VendorUnknown.
func Normalize(rows [][]string, vendor Vendor) []Candidate {
	if len(rows) < 2 {
		return nil
	}

	var locCol, nameCol, upcCol, dateCol, priceCol, totalCol string
	switch vendor {
	case VendorA:
		locCol, nameCol, upcCol, dateCol, priceCol, totalCol =
			"Location_ID", "Product_Name", "Scancode", "Trans_Date", "Price", "Total_Amount"
	case VendorB:
		locCol, nameCol, upcCol, dateCol, priceCol, totalCol =
			"Site_Code", "Item_Description", "UPC", "Sale_Date", "Unit_Price", "Final_Total"
	default:
		return nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	candidates := make([]Candidate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		candidates = append(candidates, Candidate{
			LocationCode:    NormalizeLocationCode(get(row, locCol), vendor),
			ProductName:     get(row, nameCol),
			UPCCode:         get(row, upcCol),
			TransactionDate: normalizeDate(get(row, dateCol)),
			UnitPrice:       get(row, priceCol),
			FinalAmount:     get(row, totalCol),
			Vendor:          vendor,
		})
	}
	return candidates
}

// normalizeDate converts a vendor transaction date to RFC 3339 UTC. VendorA
// exports use MM/DD/YYYY, VendorB uses YYYY-MM-DD. Unparseable input passes
// through unchanged so the validator can report it.
func normalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	var t time.Time
	var err error
	if strings.Contains(s, "/") {
		t, err = time.Parse("1/2/2006", s)
	} else {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}
