package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var fastVaaFlag = &cli.StringFlag{
	Name:     "fast_vaa",
	Usage:    "the hex encoded fast market order VAA, or @<file> to read it from file",
	Required: true,
}

var vaaHashFlag = &cli.StringFlag{
	Name:     "vaa_hash",
	Usage:    "the hex digest of the fast market order VAA",
	Required: true,
}

var auction = cli.Command{
	Name:  "auction",
	Usage: "bid on fast market orders and execute them",
	Subcommands: []*cli.Command{
		{
			Name:  "offer",
			Usage: "start the auction of a fast order with the first offer",
			Flags: []cli.Flag{
				fastVaaFlag,
				&cli.Uint64Flag{
					Name:     "price",
					Usage:    "the fee asked to fill the order",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "offer_token",
					Usage:    "the token account funding the offer",
					Required: true,
				},
			},
			Action: placeInitialOfferAction,
		},
		{
			Name:  "improve",
			Usage: "improve the best offer of an active auction",
			Flags: []cli.Flag{
				vaaHashFlag,
				&cli.Uint64Flag{
					Name:     "price",
					Usage:    "the fee asked to fill the order",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "offer_token",
					Usage:    "the token account funding the offer",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "best_offer_token",
					Usage:    "the token account of the current best offer",
					Required: true,
				},
			},
			Action: improveOfferAction,
		},
		{
			Name:  "execute",
			Usage: "execute the fast order of a completed auction",
			Flags: []cli.Flag{
				fastVaaFlag,
				&cli.StringFlag{
					Name:     "executor_token",
					Usage:    "the token account of the executor",
					Required: true,
				},
			},
			Action: executeFastOrderAction,
		},
		{
			Name:   "get",
			Usage:  "print an auction",
			Flags:  []cli.Flag{vaaHashFlag},
			Action: getAuctionAction,
		},
		{
			Name:  "list",
			Usage: "list the auctions waiting for execution or by status",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "status",
					Usage: "one of NotStarted, Active, Completed, Settled",
				},
			},
			Action: listAuctionsAction,
		},
	},
}

func placeInitialOfferAction(ctx *cli.Context) error {
	fastVaa, err := parseBytesFlag(ctx, "fast_vaa")
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.PlaceInitialOffer(
		context.Background(), &api.PlaceInitialOfferRequest{
			FastVaa:    fastVaa,
			OfferPrice: ctx.Uint64("price"),
			OfferToken: ctx.String("offer_token"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func improveOfferAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ImproveOffer(
		context.Background(), &api.ImproveOfferRequest{
			FastVaaHash:    ctx.String("vaa_hash"),
			OfferPrice:     ctx.Uint64("price"),
			OfferToken:     ctx.String("offer_token"),
			BestOfferToken: ctx.String("best_offer_token"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func executeFastOrderAction(ctx *cli.Context) error {
	fastVaa, err := parseBytesFlag(ctx, "fast_vaa")
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ExecuteFastOrder(
		context.Background(), &api.ExecuteFastOrderRequest{
			FastVaa:       fastVaa,
			ExecutorToken: ctx.String("executor_token"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getAuctionAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetAuction(
		context.Background(), &api.GetAuctionRequest{VaaHash: ctx.String("vaa_hash")},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func listAuctionsAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ListAuctions(
		context.Background(), &api.ListAuctionsRequest{Status: ctx.String("status")},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

// parseBytesFlag decodes a hex flag, optionally 0x prefixed. A value starting
// with @ is the path of a file holding the hex string.
func parseBytesFlag(ctx *cli.Context, name string) (hexutil.Bytes, error) {
	value := strings.TrimSpace(ctx.String(name))
	if strings.HasPrefix(value, "@") {
		content, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		value = strings.TrimSpace(string(content))
	}
	if len(value) <= 0 {
		return nil, fmt.Errorf("missing %s", name)
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		value = "0x" + value
	}
	b, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
