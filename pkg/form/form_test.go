package form

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/text/language"

	"trends-search/pkg/volume"
)

type recordingSearcher struct {
	mu      sync.Mutex
	queries []volume.Query
	records []volume.Record
	err     error
	block   chan struct{}
	started chan struct{}
}

func (s *recordingSearcher) SearchVolumes(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.records, s.err
}

func filledFields() Fields {
	return Fields{
		SearchTerms:          "flu,  cold , fever",
		StartDate:            "2024-01-01",
		EndDate:              "2024-02-01",
		Frequency:            "week",
		GeoRestriction:       "dma",
		GeoRestrictionOption: "501",
	}
}

func TestDefaults(t *testing.T) {
	f := New(&recordingSearcher{})
	fields := f.Fields()

	if fields.Frequency != "day" || fields.GeoRestriction != "country" || fields.GeoRestrictionOption != "US" {
		t.Errorf("Unexpected defaults: %+v", fields)
	}
	if f.View() != ViewTable {
		t.Errorf("Expected table view by default, got %q", f.View())
	}
	if f.HasResults() || f.Loading() {
		t.Error("Expected a fresh form to have no results and not be loading")
	}
}

func TestSearch_MapsFieldsIntoOneRequest(t *testing.T) {
	searcher := &recordingSearcher{records: []volume.Record{{Term: "flu", Date: "2024-01-01", Value: 3}}}
	f := NewWithFields(searcher, filledFields())

	if err := f.Search(context.Background()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(searcher.queries) != 1 {
		t.Fatalf("Expected exactly one request, got %d", len(searcher.queries))
	}
	q := searcher.queries[0]
	if strings.Join(q.Terms, "|") != "flu|cold|fever" {
		t.Errorf("Unexpected terms %q", q.Terms)
	}
	if q.StartDate != "2024-01-01" || q.EndDate != "2024-02-01" {
		t.Errorf("Unexpected dates %s..%s", q.StartDate, q.EndDate)
	}
	if q.Frequency != volume.FrequencyWeek || q.GeoRestriction != volume.GeoDMA || q.GeoRestrictionOption != "501" {
		t.Errorf("Unexpected query %+v", q)
	}

	if len(f.Results()) != 1 {
		t.Errorf("Expected results to be stored, got %v", f.Results())
	}
}

func TestSearch_LoadingDuringRequest(t *testing.T) {
	searcher := &recordingSearcher{block: make(chan struct{}), started: make(chan struct{})}
	f := NewWithFields(searcher, filledFields())

	done := make(chan error, 1)
	go func() { done <- f.Search(context.Background()) }()

	<-searcher.started
	if !f.Loading() {
		t.Error("Expected loading to be true while the request is in flight")
	}
	if err := f.Search(context.Background()); !errors.Is(err, ErrSearchInFlight) {
		t.Errorf("Expected ErrSearchInFlight for a concurrent submit, got %v", err)
	}

	close(searcher.block)
	if err := <-done; err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if f.Loading() {
		t.Error("Expected loading to be false after the request")
	}
	if len(searcher.queries) != 1 {
		t.Errorf("Expected a single request, got %d", len(searcher.queries))
	}
}

func TestSearch_FailureKeepsPreviousResults(t *testing.T) {
	searcher := &recordingSearcher{records: []volume.Record{{Term: "flu", Date: "2024-01-01", Value: 1}}}
	f := NewWithFields(searcher, filledFields())
	if err := f.Search(context.Background()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	searcher.err = errors.New("network down")
	searcher.records = nil
	if err := f.Search(context.Background()); err == nil {
		t.Fatal("Expected error from failing search")
	}

	if f.Loading() {
		t.Error("Expected loading to be false after a failure")
	}
	if len(f.Results()) != 1 {
		t.Errorf("Expected previous results to survive a failure, got %v", f.Results())
	}
	if f.Err() == nil {
		t.Error("Expected the failure to be recorded")
	}
}

func TestSearch_FailureLeavesResultsUnset(t *testing.T) {
	f := NewWithFields(&recordingSearcher{err: errors.New("boom")}, filledFields())
	_ = f.Search(context.Background())

	if f.HasResults() {
		t.Error("Expected results to remain unset")
	}
	if err := f.WriteCSV(&bytes.Buffer{}, language.AmericanEnglish); !errors.Is(err, ErrNoResults) {
		t.Errorf("Expected ErrNoResults, got %v", err)
	}
}

func TestSearch_EmptyResultSetIsSet(t *testing.T) {
	f := NewWithFields(&recordingSearcher{}, filledFields())
	if err := f.Search(context.Background()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !f.HasResults() {
		t.Error("Expected an empty result set to count as results")
	}
}

func TestWriteCSVAndSeries(t *testing.T) {
	searcher := &recordingSearcher{records: []volume.Record{
		{Term: "flu", Date: "2024-01-01", Value: 3},
		{Term: "cold", Date: "2024-01-01", Value: 4},
		{Term: "flu", Date: "2024-01-08", Value: 5},
	}}
	f := NewWithFields(searcher, filledFields())
	if err := f.Search(context.Background()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.WriteCSV(&buf, language.AmericanEnglish); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 rows, got %d lines", len(lines))
	}

	series := f.Series()
	if len(series) != 2 || series[0].Term != "flu" || series[1].Term != "cold" {
		t.Errorf("Unexpected series %+v", series)
	}
}

func TestNewWithFields_NormalisesSelects(t *testing.T) {
	f := NewWithFields(&recordingSearcher{}, Fields{SearchTerms: "flu", View: "bogus"})
	fields := f.Fields()
	if fields.Frequency != "day" || fields.GeoRestriction != "country" {
		t.Errorf("Expected empty selects to take defaults, got %+v", fields)
	}
	if f.View() != ViewTable {
		t.Errorf("Expected unknown view to fall back to table, got %q", f.View())
	}

	f.SetView(ViewChart)
	if f.View() != ViewChart {
		t.Errorf("Expected chart view, got %q", f.View())
	}
}
