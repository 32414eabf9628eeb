package csvproc

// Preview summarizes a tokenized upload for display before (or alongside)
// ingestion.
type Preview struct {
	Vendor     string     `json:"vendor"`
	Headers    []string   `json:"headers"`
	SampleRows [][]string `json:"sampleRows"`
	TotalRows  int        `json:"totalRows"`
}

// BuildPreview returns the detected vendor's display name, the header row,
// up to the first 3 data rows, and the data row count.
func BuildPreview(rows [][]string) Preview {
	if len(rows) == 0 {
		return Preview{Vendor: VendorUnknown.DisplayName()}
	}

	sampleEnd := len(rows)
	if sampleEnd > 4 {
		sampleEnd = 4
	}

	return Preview{
		Vendor:     DetectVendor(rows[0]).DisplayName(),
		Headers:    rows[0],
		SampleRows: rows[1:sampleEnd],
		TotalRows:  len(rows) - 1,
	}
}
