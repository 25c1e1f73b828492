package chart

import (
	"sort"
	"time"

	"trends-search/pkg/export"
	"trends-search/pkg/volume"
)

// Point is one sample on a series
type Point struct {
	Date  string
	Time  time.Time // zero when Date did not parse
	Value float64
}

// Series holds every point for one term
type Series struct {
	Term   string
	Points []Point
}

// GroupByTerm builds one series per distinct term, in order of first appearance.
// Points are sorted by date; unparseable dates keep their input order after the dated ones.
func GroupByTerm(records []volume.Record) []Series {
	index := make(map[string]int)
	var series []Series

	for _, r := range records {
		i, ok := index[r.Term]
		if !ok {
			i = len(series)
			index[r.Term] = i
			series = append(series, Series{Term: r.Term})
		}
		t, _ := export.ParseDate(r.Date)
		series[i].Points = append(series[i].Points, Point{Date: r.Date, Time: t, Value: r.Value})
	}

	for i := range series {
		points := series[i].Points
		sort.SliceStable(points, func(a, b int) bool {
			ta, tb := points[a].Time, points[b].Time
			switch {
			case ta.IsZero():
				return false
			case tb.IsZero():
				return true
			default:
				return ta.Before(tb)
			}
		})
	}

	return series
}

// Terms lists the series terms in order
func Terms(series []Series) []string {
	terms := make([]string, len(series))
	for i, s := range series {
		terms[i] = s.Term
	}
	return terms
}
