package cli

import (
	"io"

	"trends-search/pkg/volume"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Verbose bool `long:"verbose" short:"v" description:"Enable debug logging on stderr"`
	Version bool `long:"version" description:"Show version and exit"`
}

// SearchCommand submits one query to a running server.
type SearchCommand struct {
	Terms     string `long:"terms" short:"t" description:"Comma-separated search terms" required:"true"`
	Start     string `long:"start" description:"Start date (YYYY-MM-DD)"`
	End       string `long:"end" description:"End date (YYYY-MM-DD)"`
	Frequency string `long:"frequency" description:"Timeline resolution" choice:"day" choice:"week" choice:"month" default:"day"`
	Geo       string `long:"geo" description:"Geo restriction type" choice:"country" choice:"region" choice:"dma" default:"country"`
	GeoOption string `long:"geo-option" description:"Geo restriction value (e.g. US, US-CA, 501)" default:"US"`
	Server    string `long:"server" description:"trends-search server base URL" env:"TRENDS_SERVER_URL" default:"http://localhost:8080"`
	Timeout   int    `long:"timeout" description:"Request timeout in seconds" default:"60"`
	CSV       string `long:"csv" description:"Write search_results.csv style output to this path (- for stdout)"`
	Locale    string `long:"locale" description:"Locale for dates and values" env:"TRENDS_LOCALE" default:"en-US"`

	globals  *GlobalFlags
	out      io.Writer
	searcher volume.Searcher // injectable for testing; nil means an HTTP client on Server
}

// VersionCommand prints the build version.
type VersionCommand struct {
	version string
	out     io.Writer
}
