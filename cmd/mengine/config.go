package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "mengined daemon address host:port",
		Value: "localhost:9000",
	}

	noTLSFlag = cli.BoolFlag{
		Name:  "no-tls",
		Usage: "connect to the daemon without TLS",
	}

	tlsCertFlag = cli.StringFlag{
		Name:  "tls-cert-path",
		Usage: "path of the TLS certificate of the daemon",
	}

	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "access token sent with every request",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the mengine CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&noTLSFlag,
				&tlsCertFlag,
				&tokenFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"rpcserver":     c.String("rpcserver"),
		"no_tls":        fmt.Sprintf("%t", c.Bool("no-tls")),
		"tls_cert_path": c.String("tls-cert-path"),
		"token":         c.String("token"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
