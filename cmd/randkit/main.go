package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"randkit-go/pkg/log"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	log.SetStd()

	app := &cli.App{
		Name:    "randkit",
		Usage:   "seeded random stream toolbox",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Commands: []*cli.Command{
			seedCommand,
			genCommand,
			bytesCommand,
			analyzeCommand,
			ctlCommand,
			logsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
