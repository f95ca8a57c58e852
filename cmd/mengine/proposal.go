package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var proposalIDFlag = &cli.Uint64Flag{
	Name:     "id",
	Usage:    "the proposal id",
	Required: true,
}

var proposal = cli.Command{
	Name:  "proposal",
	Usage: "propose, enact and inspect new auction parameters",
	Subcommands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "propose new auction parameters",
			Flags:  auctionParametersFlags,
			Action: proposeAuctionParametersAction,
		},
		{
			Name:   "enact",
			Usage:  "enact the auction parameters of a proposal",
			Flags:  []cli.Flag{proposalIDFlag},
			Action: updateAuctionParametersAction,
		},
		{
			Name:   "close",
			Usage:  "close a proposal not enacted yet",
			Flags:  []cli.Flag{proposalIDFlag},
			Action: closeProposalAction,
		},
		{
			Name:   "get",
			Usage:  "print a proposal",
			Flags:  []cli.Flag{proposalIDFlag},
			Action: getProposalAction,
		},
		{
			Name:   "list",
			Usage:  "list all proposals",
			Action: listProposalsAction,
		},
	},
}

func proposeAuctionParametersAction(ctx *cli.Context) error {
	params, err := parseAuctionParametersFlags(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ProposeAuctionParameters(
		context.Background(), &api.ProposeAuctionParametersRequest{Parameters: *params},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func updateAuctionParametersAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.UpdateAuctionParameters(
		context.Background(), &api.UpdateAuctionParametersRequest{
			ProposalID: ctx.Uint64("id"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(newAuctionConfigView(reply.Config))
	return nil
}

func closeProposalAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	id := ctx.Uint64("id")
	if _, err := client.CloseProposal(
		context.Background(), &api.CloseProposalRequest{ProposalID: id},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("proposal %d has been closed\n", id)
	return nil
}

func getProposalAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetProposal(
		context.Background(), &api.GetProposalRequest{ProposalID: ctx.Uint64("id")},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func listProposalsAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ListProposals(context.Background(), &api.ListProposalsRequest{})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
