package export

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the locales with a known short-date layout. The first entry is the fallback.
var Supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.BrazilianPortuguese,
	language.Japanese,
}

var shortDateLayouts = map[language.Tag]string{
	language.AmericanEnglish:     "1/2/2006",
	language.BritishEnglish:      "02/01/2006",
	language.German:              "2.1.2006",
	language.French:              "02/01/2006",
	language.Spanish:             "2/1/2006",
	language.BrazilianPortuguese: "02/01/2006",
	language.Japanese:            "2006/1/2",
}

// inputLayouts covers ISO dates, timestamps and the provider's "Jan 02 2006" point dates.
var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 02 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2006-01",
}

var matcher = language.NewMatcher(Supported)

// MatchLocale picks the best supported locale for an Accept-Language header or a bare tag like "de".
func MatchLocale(accept string) language.Tag {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return Supported[0]
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// ParseDate accepts any of the layouts the provider or the form produce
func ParseDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a record date as the locale's short date.
// Dates that do not parse are returned unchanged.
func FormatDate(date string, tag language.Tag) string {
	t, ok := ParseDate(date)
	if !ok {
		return date
	}
	layout, ok := shortDateLayouts[tag]
	if !ok {
		layout = shortDateLayouts[Supported[0]]
	}
	return t.Format(layout)
}

// FormatValue prints a value with the locale's digit grouping and decimal separator
func FormatValue(value float64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprint(value)
}
