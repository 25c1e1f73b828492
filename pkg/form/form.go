package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/language"

	"trends-search/pkg/chart"
	"trends-search/pkg/export"
	"trends-search/pkg/logger"
	"trends-search/pkg/volume"
)

var (
	// ErrSearchInFlight is returned when Search is called while a previous search is still running
	ErrSearchInFlight = errors.New("a search is already in progress")
	// ErrNoResults is returned by exports before any search has succeeded
	ErrNoResults = errors.New("no results to export")
)

// Defaults applied to a new form
const (
	DefaultFrequency            = volume.FrequencyDay
	DefaultGeoRestriction       = volume.GeoCountry
	DefaultGeoRestrictionOption = "US"
)

// View is the active results tab
type View string

const (
	ViewTable View = "table"
	ViewChart View = "chart"
)

// Fields are the user-editable inputs, exactly as typed
type Fields struct {
	SearchTerms          string `form:"search_terms" json:"search_terms"`
	StartDate            string `form:"start_date" json:"start_date"`
	EndDate              string `form:"end_date" json:"end_date"`
	Frequency            string `form:"frequency" json:"frequency"`
	GeoRestriction       string `form:"geo_restriction" json:"geo_restriction"`
	GeoRestrictionOption string `form:"geo_restriction_option" json:"geo_restriction_option"`
	View                 string `form:"view" json:"view"`
}

// DefaultFields returns the initial state of an untouched form
func DefaultFields() Fields {
	return Fields{
		Frequency:            string(DefaultFrequency),
		GeoRestriction:       string(DefaultGeoRestriction),
		GeoRestrictionOption: DefaultGeoRestrictionOption,
		View:                 string(ViewTable),
	}
}

// Query maps the fields onto the search request body
func (f Fields) Query() volume.Query {
	return volume.Query{
		Terms:                volume.ParseTerms(f.SearchTerms),
		StartDate:            f.StartDate,
		EndDate:              f.EndDate,
		Frequency:            volume.Frequency(f.Frequency),
		GeoRestriction:       volume.GeoRestriction(f.GeoRestriction),
		GeoRestrictionOption: f.GeoRestrictionOption,
	}
}

// Form is one search form instance: its inputs, the last result set and the loading gate.
// At most one search runs at a time; the submit control is disabled while Loading is true.
type Form struct {
	searcher volume.Searcher
	log      *logger.Logger

	mu      sync.Mutex
	fields  Fields
	results []volume.Record
	loading bool
	lastErr error
}

func New(searcher volume.Searcher) *Form {
	return NewWithFields(searcher, DefaultFields())
}

// NewWithFields creates a form pre-filled with submitted values. Empty selects fall back to defaults.
func NewWithFields(searcher volume.Searcher, fields Fields) *Form {
	d := DefaultFields()
	if fields.Frequency == "" {
		fields.Frequency = d.Frequency
	}
	if fields.GeoRestriction == "" {
		fields.GeoRestriction = d.GeoRestriction
	}
	if fields.View != string(ViewChart) {
		fields.View = string(ViewTable)
	}
	return &Form{
		searcher: searcher,
		fields:   fields,
		log:      logger.GetLogger().WithField("component", "search_form"),
	}
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// Loading reports whether a search is in flight
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Results returns the last successful result set, or nil when unset
func (f *Form) Results() []volume.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results
}

// HasResults reports whether a result set is held, even an empty one
func (f *Form) HasResults() bool {
	return f.Results() != nil
}

// Err returns the error of the last search, if it failed
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SetView switches the results tab
func (f *Form) SetView(v View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.View = string(v)
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View(f.fields.View)
}

// Search issues exactly one lookup for the current fields.
// On success the results replace the previous set. On failure the error is logged and
// the previous results are left as they were. Loading is cleared in both cases.
func (f *Form) Search(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrSearchInFlight
	}
	f.loading = true
	q := f.fields.Query()
	f.mu.Unlock()

	records, err := f.searcher.SearchVolumes(ctx, q)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.lastErr = err
	if err != nil {
		f.log.WithError(err).WithField("terms_count", len(q.Terms)).Error("Error fetching data")
		return err
	}
	if records == nil {
		records = []volume.Record{}
	}
	f.results = records
	return nil
}

// WriteCSV exports the current results
func (f *Form) WriteCSV(w io.Writer, tag language.Tag) error {
	results := f.Results()
	if results == nil {
		return ErrNoResults
	}
	if err := export.WriteCSV(w, results, tag); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	return nil
}

// Series groups the current results by term for the chart tab
func (f *Form) Series() []chart.Series {
	return chart.GroupByTerm(f.Results())
}
