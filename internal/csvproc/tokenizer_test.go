package csvproc_test

import (
	"reflect"
	"strings"
	"testing"

	"vendtrack/internal/csvproc"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{
			name: "simple rows LF",
			in:   "a,b,c\n1,2,3",
			want: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name: "CRLF line endings",
			in:   "a,b\r\n1,2\r\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "blank lines discarded",
			in:   "a,b\n\n   \n1,2\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "quoted field containing comma",
			in:   `loc,"Celsius, Arctic Berry",889392014`,
			want: [][]string{{"loc", "Celsius, Arctic Berry", "889392014"}},
		},
		{
			name: "whitespace trimmed around fields",
			in:   " a , b ,  c",
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "empty fields preserved",
			in:   "a,,c,",
			want: [][]string{{"a", "", "c", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := csvproc.Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeInput_StripsUTF8BOM(t *testing.T) {
	in := "\xEF\xBB\xBFLocation_ID,Price\n"
	got, err := csvproc.DecodeInput(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeInput failed: %v", err)
	}
	if got != "Location_ID,Price\n" {
		t.Errorf("expected BOM stripped, got %q", got)
	}
}

func TestDecodeInput_UTF16(t *testing.T) {
	// "a,b" as UTF-16LE with BOM.
	in := "\xFF\xFE" + "a\x00,\x00b\x00"
	got, err := csvproc.DecodeInput(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeInput failed: %v", err)
	}
	if got != "a,b" {
		t.Errorf("expected UTF-16 decoded to %q, got %q", "a,b", got)
	}
}
