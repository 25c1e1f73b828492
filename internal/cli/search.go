package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"

	"trends-search/pkg/client"
	"trends-search/pkg/export"
	"trends-search/pkg/form"
	"trends-search/pkg/volume"
)

// Execute implements goflags.Commander for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *SearchCommand) run(ctx context.Context) error {
	searcher := c.searcher
	if searcher == nil {
		searcher = client.New(c.Server, time.Duration(c.Timeout)*time.Second)
	}

	f := form.NewWithFields(searcher, c.fields())
	if err := f.Search(ctx); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	tag := export.MatchLocale(c.Locale)
	if c.CSV != "" {
		return c.writeCSV(f, tag)
	}
	return c.printTable(f.Results(), tag)
}

func (c *SearchCommand) fields() form.Fields {
	return form.Fields{
		SearchTerms:          c.Terms,
		StartDate:            c.Start,
		EndDate:              c.End,
		Frequency:            c.Frequency,
		GeoRestriction:       c.Geo,
		GeoRestrictionOption: c.GeoOption,
	}
}

func (c *SearchCommand) writeCSV(f *form.Form, tag language.Tag) error {
	if c.CSV == "-" {
		return f.WriteCSV(c.out, tag)
	}

	file, err := os.Create(c.CSV)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.CSV, err)
	}
	if err := f.WriteCSV(file, tag); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.CSV, err)
	}

	color.New(color.FgGreen).Fprintf(c.out, "Wrote %d rows to %s\n", len(f.Results()), c.CSV)
	return nil
}

func (c *SearchCommand) printTable(records []volume.Record, tag language.Tag) error {
	if len(records) == 0 {
		_, err := color.New(color.FgYellow).Fprintln(c.out, "No results found")
		return err
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.Term, export.FormatDate(r.Date, tag), export.FormatValue(r.Value, tag)}
	}

	table := newTable(c.out)
	table.Header([]string{"Term", "Date", "Value"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}
