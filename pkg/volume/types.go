package volume

import (
	"context"
	"encoding/json"
	"strings"

	"trends-search/pkg/utils"
)

// Frequency is the timeline resolution requested from the provider
type Frequency string

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
)

// GeoRestriction selects which geographic scope GeoRestrictionOption refers to
type GeoRestriction string

const (
	GeoCountry GeoRestriction = "country"
	GeoRegion  GeoRestriction = "region"
	GeoDMA     GeoRestriction = "dma"
)

// MaxTerms is the provider's per-request term limit
const MaxTerms = 30

// Record is a single search-interest data point for one term
type Record struct {
	Term  string  `json:"term"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Query is the request body of POST /api/search_volumes
type Query struct {
	Terms                []string       `json:"terms" validate:"required,min=1,max=30,dive,required"`
	StartDate            string         `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate              string         `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Frequency            Frequency      `json:"frequency" validate:"required,oneof=day week month"`
	GeoRestriction       GeoRestriction `json:"geo_restriction" validate:"required,oneof=country region dma"`
	GeoRestrictionOption string         `json:"geo_restriction_option" validate:"required"`
}

// Searcher fetches search-interest records for a query.
// Implemented by the upstream provider client, the HTTP contract client and the cached service.
type Searcher interface {
	SearchVolumes(ctx context.Context, q Query) ([]Record, error)
}

// ParseTerms splits comma-separated input and trims each term. Empty fragments are dropped.
func ParseTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Key returns a stable identifier for the query, suitable as a cache key.
func (q Query) Key() string {
	data, _ := json.Marshal(q)
	return utils.CalculateHash(string(data))
}
