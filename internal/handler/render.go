package handler

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"trends-search/pkg/chart"
	"trends-search/pkg/export"
	"trends-search/pkg/form"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	chartWidth  = 800
	chartHeight = 320
)

type option struct {
	Value string
	Label string
}

var (
	frequencyOptions = []option{{"day", "Daily"}, {"week", "Weekly"}, {"month", "Monthly"}}
	geoOptions       = []option{{"country", "Country"}, {"region", "Region"}, {"dma", "DMA"}}
)

type row struct {
	Term  string
	Date  string
	Value string
}

type pageData struct {
	Lang        string
	Fields      form.Fields
	Frequencies []option
	Geos        []option
	Loading     bool
	HasResults  bool
	ChartView   bool
	Rows        []row
	Plot        chart.Plot
}

func newPageData(f *form.Form, tag language.Tag) pageData {
	data := pageData{
		Lang:        tag.String(),
		Fields:      f.Fields(),
		Frequencies: frequencyOptions,
		Geos:        geoOptions,
		Loading:     f.Loading(),
		HasResults:  f.HasResults(),
		ChartView:   f.View() == form.ViewChart,
	}
	if !data.HasResults {
		return data
	}

	results := f.Results()
	data.Rows = make([]row, len(results))
	for i, r := range results {
		data.Rows[i] = row{
			Term:  r.Term,
			Date:  export.FormatDate(r.Date, tag),
			Value: export.FormatValue(r.Value, tag),
		}
	}
	data.Plot = chart.Layout(f.Series(), chartWidth, chartHeight, tag)
	return data
}

func (h *Handler) renderPage(c *fiber.Ctx, f *form.Form) error {
	tag := export.MatchLocale(c.Get(fiber.HeaderAcceptLanguage))

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "page.html", newPageData(f, tag)); err != nil {
		h.log.WithError(err).Error("Failed to render page")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
