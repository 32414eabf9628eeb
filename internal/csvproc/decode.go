package csvproc

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeInput reads a vendor CSV export and returns its content as UTF-8 text.
// Vendor exports arrive with a UTF-8 BOM or as BOM-marked UTF-16 depending on
// which tool produced them; a BOM selects the encoding and is stripped, and
// anything without a BOM is treated as plain UTF-8.
func DecodeInput(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", fmt.Errorf("failed to decode CSV input: %w", err)
	}
	return string(data), nil
}
