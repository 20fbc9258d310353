package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"randkit-go/pkg/log"
)

// timeFormats includes common layouts to try when parsing absolute time
// strings. Order matters; more specific formats come first.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec parses either a relative duration from now (e.g. "1h",
// "30m") or an absolute timestamp in one of timeFormats.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.Parse(layout, spec); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a relative duration ('1h', '30m') or an absolute timestamp ('2026-08-25T15:04:05Z')", spec)
}

var logsCommand = &cli.Command{
	Name:        "logs",
	Usage:       "retrieve log entries from a randd log database",
	UsageText:   "randkit logs -f PATH [--last|--since|--between] [options]",
	Description: `Reads the daemon's SQLite log database directly. Defaults to --last mode when no mode flag is given.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "dbfile",
			Aliases:  []string{"f"},
			Usage:    "path to the SQLite log database `PATH`",
			Required: true,
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Aliases: []string{"p"},
			Usage:   "render entries through the console writer instead of raw JSON",
		},
		&cli.BoolFlag{
			Name:  "last",
			Usage: "mode: retrieve the most recent N entries (default)",
		},
		&cli.BoolFlag{
			Name:  "since",
			Usage: "mode: retrieve entries since a start time",
		},
		&cli.BoolFlag{
			Name:  "between",
			Usage: "mode: retrieve entries between a start and end time",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of entries for --last mode",
			Value:   100,
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "start `TIME_SPEC` for --since/--between",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "end `TIME_SPEC` for --between",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "max entries for --since/--between",
			Value:   1000,
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	isLast := c.Bool("last")
	isSince := c.Bool("since")
	isBetween := c.Bool("between")

	modeCount := 0
	for _, mode := range []bool{isLast, isSince, isBetween} {
		if mode {
			modeCount++
		}
	}
	if modeCount == 0 {
		isLast = true
	} else if modeCount > 1 {
		return cli.Exit("logs: only one mode flag (--last, --since, --between) may be given", 1)
	}

	if err := log.Init(c.String("dbfile")); err != nil {
		return cli.Exit(fmt.Sprintf("logs: open database: %v", err), 1)
	}
	defer log.Close()

	var entries []log.LogEntry
	var err error
	switch {
	case isLast:
		count := c.Int("count")
		if count <= 0 {
			return cli.Exit("logs: --count must be positive", 1)
		}
		entries, err = log.GetLastNLogs(count)

	case isSince:
		if !c.IsSet("start") {
			return cli.Exit("logs: --start is required for --since mode", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(fmt.Sprintf("logs: %v", perr), 1)
		}
		entries, err = log.GetLogsSince(start, c.Int("limit"))

	case isBetween:
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("logs: --start and --end are required for --between mode", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(fmt.Sprintf("logs: %v", perr), 1)
		}
		end, perr := parseTimeSpec(c.String("end"))
		if perr != nil {
			return cli.Exit(fmt.Sprintf("logs: %v", perr), 1)
		}
		if start.After(end) {
			fmt.Fprintf(os.Stderr, "Warning: start time %s is after end time %s.\n",
				start.Format(time.RFC3339), end.Format(time.RFC3339))
		}
		entries, err = log.GetLogsBetween(start, end, c.Int("limit"))
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("logs: retrieve: %v", err), 1)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries found matching the criteria.")
		return nil
	}

	if c.Bool("pretty") {
		w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		for _, entry := range entries {
			if _, err := w.Write([]byte(entry.LogData)); err != nil {
				fmt.Println(entry.LogData)
			}
		}
		return nil
	}
	for _, entry := range entries {
		fmt.Print(entry.LogData)
	}
	return nil
}
