package main

import (
	"context"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var router = cli.Command{
	Name:  "router",
	Usage: "redeem fast fills and inspect the messages emitted by the engine",
	Subcommands: []*cli.Command{
		{
			Name:  "redeem",
			Usage: "redeem a fast fill to a destination token account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "vaa",
					Usage:    "the hex encoded fast fill VAA, or @<file>",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "destination_token",
					Usage:    "the token account receiving the funds",
					Required: true,
				},
			},
			Action: redeemFastFillAction,
		},
		{
			Name:   "fastfill",
			Usage:  "print a redeemed fast fill",
			Flags:  []cli.Flag{vaaHashFlag},
			Action: getRedeemedFastFillAction,
		},
		{
			Name:  "message",
			Usage: "print a VAA emitted by the engine",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:     "sequence",
					Usage:    "the sequence of the message",
					Required: true,
				},
			},
			Action: getPublishedMessageAction,
		},
	},
}

func redeemFastFillAction(ctx *cli.Context) error {
	vaa, err := parseBytesFlag(ctx, "vaa")
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.RedeemFastFill(
		context.Background(), &api.RedeemFastFillRequest{
			Vaa:              vaa,
			DestinationToken: ctx.String("destination_token"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getRedeemedFastFillAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetRedeemedFastFill(
		context.Background(), &api.GetRedeemedFastFillRequest{
			VaaHash: ctx.String("vaa_hash"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getPublishedMessageAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetPublishedMessage(
		context.Background(), &api.GetPublishedMessageRequest{
			Sequence: ctx.Uint64("sequence"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
