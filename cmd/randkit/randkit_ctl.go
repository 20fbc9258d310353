package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"randkit-go/pkg/management"
)

var ctlCommand = &cli.Command{
	Name:        "ctl",
	Usage:       "control a running randd via its management socket",
	UsageText:   "randkit ctl [options] command [args...]",
	Description: `Sends one command to the daemon's management socket and prints the response. Try 'randkit ctl help' for the daemon's command list.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "socket",
			Usage: "management socket `PATH`",
			Value: management.GetDefaultSocketPath("randd"),
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "management password, if the daemon requires one",
		},
	},
	Action: ctlCmd,
}

func ctlCmd(c *cli.Context) error {
	command := strings.Join(c.Args().Slice(), " ")
	mgmt := management.NewClientPath(c.String("socket"), c.String("password"))
	res, err := mgmt.SendCommand(command)
	if err != nil {
		return cli.Exit(fmt.Sprintf("ctl: %v", err), 1)
	}
	fmt.Println(res)
	return nil
}
