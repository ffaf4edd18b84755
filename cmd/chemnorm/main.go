// chemnorm is the command-line interface of the ChemNorm engine.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/ChemNorm/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = ""
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	if version != "" {
		cli.Version = version
	}
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
