package main

import (
	"os"

	"github.com/artisanexperiences/pgen/internal/cli"
	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
)

// These variables are set at build time via -ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date
	if err := cli.Execute(); err != nil {
		os.Exit(pgerrors.ExitCode(err))
	}
}
