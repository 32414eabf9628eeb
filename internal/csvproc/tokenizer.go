// Package csvproc implements the vendor CSV ingestion pipeline front half:
// input decoding, tokenizing, vendor schema detection, normalization into
// candidate transactions, and row-level validation. Everything in this package
// is pure — persistence happens in internal/core.
package csvproc

import "strings"

// Tokenize splits raw CSV text into rows of string fields. Lines are split on
// CRLF or LF and blank lines are discarded. Within a line, a double-quoted run
// is one field (surrounding quotes stripped); otherwise fields split on commas
// with surrounding whitespace trimmed.
//
// Escaped quotes inside quoted fields ("") are not supported; such rows
// tokenize oddly and get caught by the validator downstream.
func Tokenize(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}
	return rows
}

// splitLine splits one CSV line into fields.
func splitLine(line string) []string {
	var fields []string
	i := 0
	n := len(line)
	for {
		// Skip leading whitespace of the field.
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}

		if i < n && line[i] == '"' {
			// Quoted field: everything up to the next quote, verbatim.
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				// Unterminated quote: take the rest of the line.
				fields = append(fields, strings.TrimSpace(line[i+1:]))
				return fields
			}
			fields = append(fields, strings.TrimSpace(line[i+1:i+1+end]))
			i += end + 2
			// Drop anything between the closing quote and the next comma.
			for i < n && line[i] != ',' {
				i++
			}
		} else {
			end := strings.IndexByte(line[i:], ',')
			if end < 0 {
				fields = append(fields, strings.TrimSpace(line[i:]))
				return fields
			}
			fields = append(fields, strings.TrimSpace(line[i:i+end]))
			i += end
		}

		if i >= n {
			return fields
		}
		i++ // consume the comma
		if i >= n {
			// Line ended on a comma: trailing empty field.
			fields = append(fields, "")
			return fields
		}
	}
}
