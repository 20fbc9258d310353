package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"randkit-go/pkg/sample"
)

var bytesCommand = &cli.Command{
	Name:        "bytes",
	Usage:       "emit raw keystream bytes",
	UsageText:   "randkit bytes [options]",
	Description: `Materializes the generator's keystream as bytes, hex-encoded by default. With --raw the bytes go to stdout unencoded, suitable for piping into files or analysis tools.`,
	Flags: append(generatorFlags(),
		&cli.IntFlag{
			Name:  "n",
			Usage: "number of bytes to emit",
			Value: 32,
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "write raw bytes to stdout instead of hex",
		},
	),
	Action: bytesCmd,
}

func bytesCmd(c *cli.Context) error {
	n := c.Int("n")
	if n < 1 {
		return cli.Exit("bytes: n must be positive", 1)
	}

	g, err := newGenerator(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("bytes: %v", err), 1)
	}
	data := sample.Bytes(g, n)

	if c.Bool("raw") {
		if _, err := os.Stdout.Write(data); err != nil {
			return cli.Exit(fmt.Sprintf("bytes: write: %v", err), 1)
		}
		return nil
	}
	fmt.Println(hex.EncodeToString(data))
	return nil
}
