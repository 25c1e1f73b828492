package cli

import (
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"trends-search/pkg/logger"
)

type commands struct {
	Search  *SearchCommand
	Version *VersionCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string, out io.Writer) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "trends-search"
	parser.LongDescription = "Look up search interest over time for a set of terms through a trends-search server."
	parser.CommandHandler = func(cmd goflags.Commander, args []string) error {
		if globals.Verbose {
			logger.SetLogger(logger.New(logger.Config{Level: "debug", Format: "console", Output: "stderr"}))
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	cmds := &commands{
		Search:  &SearchCommand{globals: &globals, out: out},
		Version: &VersionCommand{version: version, out: out},
	}

	parser.AddCommand("search", "Search interest for terms", "Submit the search form once and print the results as a table or CSV.", cmds.Search)
	parser.AddCommand("version", "Print the version", "Print the trends-search version.", cmds.Version)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return runWithOutput(version, args, os.Stdout)
}

func runWithOutput(version string, args []string, out io.Writer) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Fprintf(out, "trends-search %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	// keep log lines off stdout, which carries the table or CSV
	logger.SetLogger(logger.New(logger.Config{Level: "warn", Format: "console", Output: "stderr"}))

	parser, _, _ := buildParser(version, out)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

// Execute implements goflags.Commander.
func (c *VersionCommand) Execute(args []string) error {
	_, err := fmt.Fprintf(c.out, "trends-search %s\n", c.version)
	return err
}
