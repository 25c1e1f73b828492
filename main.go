package main

import (
	"fmt"
	"os"

	"trends-search/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Global panic recovery to prevent application crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
