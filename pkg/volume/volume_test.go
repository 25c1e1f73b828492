package volume

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func validQuery() Query {
	return Query{
		Terms:                []string{"flu", "cold"},
		StartDate:            "2024-01-01",
		EndDate:              "2024-03-31",
		Frequency:            FrequencyWeek,
		GeoRestriction:       GeoCountry,
		GeoRestrictionOption: "US",
	}
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"flu", []string{"flu"}},
		{"flu, cold ,  fever", []string{"flu", "cold", "fever"}},
		{" flu,,cold, ", []string{"flu", "cold"}},
		{"", []string{}},
		{"  ,  ", []string{}},
	}

	for _, tt := range tests {
		got := ParseTerms(tt.raw)
		if len(got) != len(tt.want) {
			t.Fatalf("ParseTerms(%q) = %v, want %v", tt.raw, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTerms(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func TestQueryValidate_Valid(t *testing.T) {
	if err := validQuery().Validate(); err != nil {
		t.Fatalf("Expected valid query, got: %v", err)
	}

	q := validQuery()
	q.StartDate, q.EndDate = "", ""
	if err := q.Validate(); err != nil {
		t.Errorf("Expected open date range to be valid, got: %v", err)
	}
}

func TestQueryValidate_Invalid(t *testing.T) {
	tooMany := make([]string, MaxTerms+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("term%d", i)
	}

	tests := []struct {
		name   string
		mutate func(*Query)
		expect string
	}{
		{"no terms", func(q *Query) { q.Terms = nil }, "terms is required"},
		{"blank term", func(q *Query) { q.Terms = []string{"flu", ""} }, "is required"},
		{"too many terms", func(q *Query) { q.Terms = tooMany }, "at most 30"},
		{"bad start date", func(q *Query) { q.StartDate = "01/02/2024" }, "start_date must be a YYYY-MM-DD date"},
		{"bad frequency", func(q *Query) { q.Frequency = "hour" }, "frequency must be one of"},
		{"bad geo", func(q *Query) { q.GeoRestriction = "city" }, "geo_restriction must be one of"},
		{"missing option", func(q *Query) { q.GeoRestrictionOption = "" }, "geo_restriction_option is required"},
		{"reversed range", func(q *Query) { q.StartDate, q.EndDate = "2024-05-01", "2024-01-01" }, "end_date must not be before start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(&q)
			err := q.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("Expected ErrInvalidQuery, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.expect) {
				t.Errorf("Expected error containing %q, got: %v", tt.expect, err)
			}
		})
	}
}

func TestQueryKey(t *testing.T) {
	a := validQuery()
	b := validQuery()
	if a.Key() != b.Key() {
		t.Error("Expected equal queries to share a key")
	}

	b.GeoRestrictionOption = "CA"
	if a.Key() == b.Key() {
		t.Error("Expected different queries to have different keys")
	}
}
