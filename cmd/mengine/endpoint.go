package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var endpointFlags = []cli.Flag{
	&cli.UintFlag{
		Name:     "chain",
		Usage:    "the wormhole chain id of the router",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "address",
		Usage:    "the address of the router",
		Required: true,
	},
	&cli.StringFlag{
		Name:  "mint_recipient",
		Usage: "the account receiving minted funds, defaults to the router address",
	},
	&cli.StringFlag{
		Name:  "protocol",
		Usage: "the transport towards the router: local or cctp",
		Value: "cctp",
	},
	&cli.StringFlag{
		Name:  "program_id",
		Usage: "the program id of a local router",
	},
	&cli.UintFlag{
		Name:  "domain",
		Usage: "the cctp domain of the router",
	},
}

var endpoint = cli.Command{
	Name:  "endpoint",
	Usage: "manage the router endpoints",
	Subcommands: []*cli.Command{
		{
			Name:   "add",
			Usage:  "register the router of a chain",
			Flags:  endpointFlags,
			Action: addEndpointAction,
		},
		{
			Name:   "update",
			Usage:  "update the router of a chain",
			Flags:  endpointFlags,
			Action: updateEndpointAction,
		},
		{
			Name:  "disable",
			Usage: "disable the router of a chain",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     "chain",
					Usage:    "the wormhole chain id of the router",
					Required: true,
				},
			},
			Action: disableEndpointAction,
		},
		{
			Name:  "get",
			Usage: "print the router of a chain",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     "chain",
					Usage:    "the wormhole chain id of the router",
					Required: true,
				},
			},
			Action: getEndpointAction,
		},
		{
			Name:   "list",
			Usage:  "list all router endpoints",
			Action: listEndpointsAction,
		},
	},
}

func addEndpointAction(ctx *cli.Context) error {
	endpoint, err := parseEndpointFlags(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.AddRouterEndpoint(
		context.Background(), &api.AddRouterEndpointRequest{Endpoint: *endpoint},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func updateEndpointAction(ctx *cli.Context) error {
	endpoint, err := parseEndpointFlags(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.UpdateRouterEndpoint(
		context.Background(), &api.UpdateRouterEndpointRequest{Endpoint: *endpoint},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func disableEndpointAction(ctx *cli.Context) error {
	chain, err := parseChainFlag(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.DisableRouterEndpoint(
		context.Background(), &api.DisableRouterEndpointRequest{Chain: chain},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("router endpoint of chain %d has been disabled\n", chain)
	return nil
}

func getEndpointAction(ctx *cli.Context) error {
	chain, err := parseChainFlag(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetRouterEndpoint(
		context.Background(), &api.GetRouterEndpointRequest{Chain: chain},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func listEndpointsAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ListRouterEndpoints(
		context.Background(), &api.ListRouterEndpointsRequest{},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func parseChainFlag(ctx *cli.Context) (uint16, error) {
	chain := ctx.Uint("chain")
	if chain == 0 || chain > 0xffff {
		return 0, fmt.Errorf("chain must be in range [1, %d]", 0xffff)
	}
	return uint16(chain), nil
}

func parseEndpointFlags(ctx *cli.Context) (*api.RouterEndpoint, error) {
	chain, err := parseChainFlag(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := &api.RouterEndpoint{
		Chain:         chain,
		Address:       ctx.String("address"),
		MintRecipient: ctx.String("mint_recipient"),
		Protocol:      ctx.String("protocol"),
	}
	if endpoint.MintRecipient == "" {
		endpoint.MintRecipient = endpoint.Address
	}

	switch endpoint.Protocol {
	case "local":
		if !ctx.IsSet("program_id") {
			return nil, fmt.Errorf("missing program_id for local endpoint")
		}
		endpoint.ProgramID = ctx.String("program_id")
	case "cctp":
		if ctx.Uint("domain") > 0xffffffff {
			return nil, fmt.Errorf("invalid cctp domain")
		}
		endpoint.Domain = uint32(ctx.Uint("domain"))
	default:
		return nil, fmt.Errorf("protocol must be either local or cctp")
	}
	return endpoint, nil
}
