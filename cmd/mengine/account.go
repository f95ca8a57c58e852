package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var accountAddressFlag = &cli.StringFlag{
	Name:     "address",
	Usage:    "the token account address",
	Required: true,
}

var account = cli.Command{
	Name:  "account",
	Usage: "manage token accounts",
	Subcommands: []*cli.Command{
		{
			Name:   "open",
			Usage:  "open a token account owned by the signer",
			Flags:  []cli.Flag{accountAddressFlag},
			Action: openTokenAccountAction,
		},
		{
			Name:   "get",
			Usage:  "print a token account",
			Flags:  []cli.Flag{accountAddressFlag},
			Action: getTokenAccountAction,
		},
		{
			Name:  "transfer",
			Usage: "transfer funds from a token account of the signer",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "from",
					Usage:    "the source token account",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "to",
					Usage:    "the destination token account",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the amount to transfer",
					Required: true,
				},
			},
			Action: transferAction,
		},
		{
			Name:  "mint",
			Usage: "mint funds to a token account, if the faucet is enabled",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "to",
					Usage:    "the destination token account",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the amount to mint",
					Required: true,
				},
			},
			Action: mintAction,
		},
	},
}

func openTokenAccountAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.OpenTokenAccount(
		context.Background(), &api.OpenTokenAccountRequest{
			Address: ctx.String("address"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getTokenAccountAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetTokenAccount(
		context.Background(), &api.GetTokenAccountRequest{
			Address: ctx.String("address"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func transferAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.Transfer(context.Background(), &api.TransferRequest{
		From:   ctx.String("from"),
		To:     ctx.String("to"),
		Amount: ctx.Uint64("amount"),
	}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("transfer completed")
	return nil
}

func mintAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.Mint(context.Background(), &api.MintRequest{
		To:     ctx.String("to"),
		Amount: ctx.Uint64("amount"),
	}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("mint completed")
	return nil
}
