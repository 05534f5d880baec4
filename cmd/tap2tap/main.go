// Package main is the entry point for the tap2tap CLI.
package main

import (
	"os"

	"github.com/chriskuehl/tap2tap/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
