package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"trends-search/pkg/volume"
)

func sampleRecords() []volume.Record {
	return []volume.Record{
		{Term: "flu", Date: "2024-01-05", Value: 12},
		{Term: "flu", Date: "Jan 12 2024", Value: 14.5},
		{Term: "cold", Date: "2024-01-05T00:00:00Z", Value: 3},
	}
}

func TestWriteCSV_RowCount(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, sampleRecords()[:n], language.AmericanEnglish); err != nil {
			t.Fatalf("WriteCSV failed: %v", err)
		}

		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("Output is not valid CSV: %v", err)
		}
		if len(rows) != n+1 {
			t.Errorf("Expected %d rows for %d records, got %d", n+1, n, len(rows))
		}
	}
}

func TestWriteCSV_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords(), language.AmericanEnglish); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := strings.Join([]string{
		"Term,Date,Value",
		"flu,1/5/2024,12",
		"flu,1/12/2024,14.5",
		"cold,1/5/2024,3",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("Unexpected CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSV_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	records := []volume.Record{{Term: `say "hi", bob`, Date: "2024-01-05", Value: 1}}
	if err := WriteCSV(&buf, records, language.AmericanEnglish); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if rows[1][0] != `say "hi", bob` {
		t.Errorf("Expected term to round trip, got %q", rows[1][0])
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date string
		tag  language.Tag
		want string
	}{
		{"2024-03-07", language.AmericanEnglish, "3/7/2024"},
		{"2024-03-07", language.BritishEnglish, "07/03/2024"},
		{"2024-03-07", language.German, "7.3.2024"},
		{"2024-03-07", language.Japanese, "2024/3/7"},
		{"Mar 07 2024", language.French, "07/03/2024"},
		{"2024-03", language.AmericanEnglish, "3/1/2024"},
		{"not a date", language.AmericanEnglish, "not a date"},
		{"2024-03-07", language.Korean, "3/7/2024"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.date, tt.tag); got != tt.want {
			t.Errorf("FormatDate(%q, %s) = %q, want %q", tt.date, tt.tag, got, tt.want)
		}
	}
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		accept string
		want   language.Tag
	}{
		{"", language.AmericanEnglish},
		{"de-DE,de;q=0.9,en;q=0.8", language.German},
		{"en-GB", language.BritishEnglish},
		{"pt-BR", language.BrazilianPortuguese},
		{"ja", language.Japanese},
		{"xx-invalid;;", language.AmericanEnglish},
	}

	for _, tt := range tests {
		if got := MatchLocale(tt.accept); got != tt.want {
			t.Errorf("MatchLocale(%q) = %s, want %s", tt.accept, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(12, language.AmericanEnglish); got != "12" {
		t.Errorf("FormatValue en-US = %q, want 12", got)
	}
	if got := FormatValue(1234.5, language.German); !strings.HasSuffix(got, ",5") {
		t.Errorf("FormatValue de = %q, want a comma decimal separator", got)
	}
}
