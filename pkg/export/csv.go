package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"

	"trends-search/pkg/volume"
)

// FileName is the download name of an exported result set
const FileName = "search_results.csv"

// ContentType is sent with the CSV download
const ContentType = "text/csv; charset=utf-8"

var header = []string{"Term", "Date", "Value"}

// WriteCSV writes the header row followed by one row per record, in input order.
// Dates are written as the locale's short date; values in shortest decimal form.
func WriteCSV(w io.Writer, records []volume.Record, tag language.Tag) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, 3)
	for i, r := range records {
		row[0] = r.Term
		row[1] = FormatDate(r.Date, tag)
		row[2] = strconv.FormatFloat(r.Value, 'f', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
