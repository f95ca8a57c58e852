package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var prepareFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "fast_vaa",
		Usage: "the hex encoded fast market order VAA, or @<file>",
	},
	&cli.StringFlag{
		Name:  "finalized_vaa",
		Usage: "the hex encoded finalized slow order VAA, or @<file>",
	},
	&cli.StringFlag{
		Name:  "cctp_message",
		Usage: "the hex encoded CCTP message of the deposit, or @<file>",
	},
	&cli.StringFlag{
		Name:  "cctp_attestation",
		Usage: "the hex encoded attestation of the CCTP message, or @<file>",
	},
}

var settle = cli.Command{
	Name:  "settle",
	Usage: "prepare order responses and settle auctions",
	Subcommands: []*cli.Command{
		{
			Name:   "prepare",
			Usage:  "redeem the finalized deposit of a fast order",
			Flags:  prepareFlags,
			Action: prepareOrderResponseAction,
		},
		{
			Name:  "complete",
			Usage: "settle an executed auction returning the deposit to the best offer",
			Flags: []cli.Flag{
				vaaHashFlag,
				&cli.StringFlag{
					Name:     "executor_token",
					Usage:    "the token account of the executor",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "best_offer_token",
					Usage:    "the token account of the best offer",
					Required: true,
				},
			},
			Action: settleCompleteAction,
		},
		{
			Name:  "none",
			Usage: "settle an order nobody bid on",
			Flags: append([]cli.Flag{
				vaaHashFlag,
				&cli.StringFlag{
					Name:     "fee_recipient_token",
					Usage:    "the token account of the fee recipient",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "protocol",
					Usage: "the transport of the target router: cctp or local",
					Value: "cctp",
				},
				&cli.BoolFlag{
					Name:  "prepare",
					Usage: "prepare the order response in the same call",
				},
			}, prepareFlags...),
			Action: settleNoneAction,
		},
		{
			Name:   "get",
			Usage:  "print the prepared order response of a fast order",
			Flags:  []cli.Flag{vaaHashFlag},
			Action: getPreparedOrderResponseAction,
		},
	},
}

func prepareOrderResponseAction(ctx *cli.Context) error {
	req, err := parsePrepareFlags(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.PrepareOrderResponse(context.Background(), req)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func settleCompleteAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.SettleAuctionComplete(
		context.Background(), &api.SettleAuctionCompleteRequest{
			FastVaaHash:    ctx.String("vaa_hash"),
			ExecutorToken:  ctx.String("executor_token"),
			BestOfferToken: ctx.String("best_offer_token"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func settleNoneAction(ctx *cli.Context) error {
	req := &api.SettleAuctionNoneRequest{
		FastVaaHash:       ctx.String("vaa_hash"),
		FeeRecipientToken: ctx.String("fee_recipient_token"),
	}
	if ctx.Bool("prepare") {
		prepare, err := parsePrepareFlags(ctx)
		if err != nil {
			return err
		}
		req.Prepare = prepare
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	var reply *api.SettleAuctionResponse
	switch ctx.String("protocol") {
	case "cctp":
		reply, err = client.SettleAuctionNoneCctp(context.Background(), req)
	case "local":
		reply, err = client.SettleAuctionNoneLocal(context.Background(), req)
	default:
		return fmt.Errorf("protocol must be either cctp or local")
	}
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getPreparedOrderResponseAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetPreparedOrderResponse(
		context.Background(), &api.GetPreparedOrderResponseRequest{
			FastVaaHash: ctx.String("vaa_hash"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func parsePrepareFlags(ctx *cli.Context) (*api.PrepareOrderResponseRequest, error) {
	fastVaa, err := parseBytesFlag(ctx, "fast_vaa")
	if err != nil {
		return nil, err
	}
	finalizedVaa, err := parseBytesFlag(ctx, "finalized_vaa")
	if err != nil {
		return nil, err
	}
	cctpMessage, err := parseBytesFlag(ctx, "cctp_message")
	if err != nil {
		return nil, err
	}
	cctpAttestation, err := parseBytesFlag(ctx, "cctp_attestation")
	if err != nil {
		return nil, err
	}
	return &api.PrepareOrderResponseRequest{
		FastVaa:         fastVaa,
		FinalizedVaa:    finalizedVaa,
		CctpMessage:     cctpMessage,
		CctpAttestation: cctpAttestation,
	}, nil
}
