package chart

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"trends-search/pkg/export"
)

const (
	padLeft   = 48.0
	padRight  = 16.0
	padTop    = 16.0
	padBottom = 32.0

	maxXTicks = 6
	yTicks    = 5
)

var palette = []string{
	"#2563eb", "#dc2626", "#16a34a", "#d97706",
	"#7c3aed", "#0891b2", "#db2777", "#4b5563",
}

// Plot is the SVG geometry of a line chart, ready for a template to draw
type Plot struct {
	Width, Height int
	Left, Right   float64
	Top, Bottom   float64
	Lines         []Line
	XTicks        []Tick
	YTicks        []Tick
}

// Line is one term's polyline
type Line struct {
	Term   string
	Color  string
	Points string // "x,y x,y ..." for <polyline points>
}

type Tick struct {
	Pos   float64
	Label string
}

// Layout scales the series into a width x height viewBox.
// The x axis is the union of all series dates; y runs from 0 to the largest value.
func Layout(series []Series, width, height int, tag language.Tag) Plot {
	plot := Plot{
		Width:  width,
		Height: height,
		Left:   padLeft,
		Right:  float64(width) - padRight,
		Top:    padTop,
		Bottom: float64(height) - padBottom,
	}
	if len(series) == 0 {
		return plot
	}

	dates := axisDates(series)
	xPos := make(map[string]float64, len(dates))
	span := plot.Right - plot.Left
	for i, d := range dates {
		if len(dates) == 1 {
			xPos[d] = plot.Left + span/2
			continue
		}
		xPos[d] = plot.Left + span*float64(i)/float64(len(dates)-1)
	}

	maxValue := 0.0
	for _, s := range series {
		for _, p := range s.Points {
			maxValue = math.Max(maxValue, p.Value)
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}
	height64 := plot.Bottom - plot.Top
	y := func(v float64) float64 {
		return plot.Bottom - height64*(v/maxValue)
	}

	for i, s := range series {
		coords := make([]string, 0, len(s.Points))
		for _, p := range s.Points {
			coords = append(coords, fmtCoord(xPos[p.Date])+","+fmtCoord(y(p.Value)))
		}
		plot.Lines = append(plot.Lines, Line{
			Term:   s.Term,
			Color:  palette[i%len(palette)],
			Points: strings.Join(coords, " "),
		})
	}

	step := 1
	if len(dates) > maxXTicks {
		step = int(math.Ceil(float64(len(dates)) / maxXTicks))
	}
	for i := 0; i < len(dates); i += step {
		plot.XTicks = append(plot.XTicks, Tick{Pos: xPos[dates[i]], Label: export.FormatDate(dates[i], tag)})
	}

	for i := 0; i <= yTicks; i++ {
		v := maxValue * float64(i) / yTicks
		plot.YTicks = append(plot.YTicks, Tick{Pos: y(v), Label: export.FormatValue(round(v), tag)})
	}

	return plot
}

// axisDates returns the distinct dates of all series, chronologically.
// Dates that do not parse follow in first-seen order.
func axisDates(series []Series) []string {
	seen := make(map[string]bool)
	type dated struct {
		date  string
		t     time.Time
		order int
	}
	var all []dated
	for _, s := range series {
		for _, p := range s.Points {
			if seen[p.Date] {
				continue
			}
			seen[p.Date] = true
			all = append(all, dated{date: p.Date, t: p.Time, order: len(all)})
		}
	}

	sort.SliceStable(all, func(a, b int) bool {
		ta, tb := all[a].t, all[b].t
		switch {
		case ta.IsZero() && tb.IsZero():
			return all[a].order < all[b].order
		case ta.IsZero():
			return false
		case tb.IsZero():
			return true
		default:
			return ta.Before(tb)
		}
	})

	dates := make([]string, len(all))
	for i, d := range all {
		dates[i] = d.date
	}
	return dates
}

func round(v float64) float64 {
	return math.Round(v*10) / 10
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
