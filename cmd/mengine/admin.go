package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/fastfill-network/matching-engine/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var auctionParametersFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "user_penalty_reward",
		Usage: "the percentage of the penalty rewarded to the user",
		Value: "25",
	},
	&cli.StringFlag{
		Name:  "initial_penalty",
		Usage: "the percentage of the penalty applied at the start of the penalty period",
		Value: "25",
	},
	&cli.UintFlag{
		Name:  "duration",
		Usage: "the auction duration in slots",
		Value: 2,
	},
	&cli.UintFlag{
		Name:  "grace_period",
		Usage: "the slots after the auction end for the winner to execute",
		Value: 5,
	},
	&cli.UintFlag{
		Name:  "penalty_period",
		Usage: "the slots over which the penalty grows to its maximum",
		Value: 10,
	},
	&cli.StringFlag{
		Name:  "min_offer_delta",
		Usage: "the min percentage an offer must improve on the best one",
		Value: "2",
	},
	&cli.Uint64Flag{
		Name:  "security_deposit_base",
		Usage: "the base amount of the security deposit",
		Value: 4_200_000,
	},
	&cli.StringFlag{
		Name:  "security_deposit",
		Usage: "the percentage of the max fee added to the security deposit",
		Value: "0.5",
	},
}

var admin = cli.Command{
	Name:  "admin",
	Usage: "manage the custodian, the router endpoints and the auction parameters",
	Subcommands: []*cli.Command{
		{
			Name:  "init",
			Usage: "initialize the engine",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "owner_assistant",
					Usage:    "the owner assistant address",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "fee_recipient_token",
					Usage:    "the token account receiving fees",
					Required: true,
				},
			}, auctionParametersFlags...),
			Action: initializeAction,
		},
		{
			Name:  "pause",
			Usage: "pause or resume bidding",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "resume",
					Usage: "resume bidding instead of pausing it",
				},
			},
			Action: setPauseAction,
		},
		{
			Name:  "ownership",
			Usage: "transfer the ownership of the engine",
			Subcommands: []*cli.Command{
				{
					Name:  "submit",
					Usage: "propose a new owner",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:     "new_owner",
							Usage:    "the address of the new owner",
							Required: true,
						},
					},
					Action: submitOwnershipAction,
				},
				{
					Name:   "confirm",
					Usage:  "accept the ownership as pending owner",
					Action: confirmOwnershipAction,
				},
				{
					Name:   "cancel",
					Usage:  "cancel the pending ownership transfer",
					Action: cancelOwnershipAction,
				},
			},
		},
		{
			Name:  "assistant",
			Usage: "update the owner assistant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new_assistant",
					Usage:    "the address of the new owner assistant",
					Required: true,
				},
			},
			Action: updateOwnerAssistantAction,
		},
		{
			Name:  "feerecipient",
			Usage: "update the token account receiving fees",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new_fee_recipient_token",
					Usage:    "the new fee recipient token account",
					Required: true,
				},
			},
			Action: updateFeeRecipientAction,
		},
		{
			Name:   "custodian",
			Usage:  "print the custodian",
			Action: getCustodianAction,
		},
		&endpoint,
		&proposal,
		{
			Name:  "auctionconfig",
			Usage: "print an auction config, the active one if no id is given",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "id",
					Usage: "the auction config id",
				},
			},
			Action: getAuctionConfigAction,
		},
	},
}

func initializeAction(ctx *cli.Context) error {
	params, err := parseAuctionParametersFlags(ctx)
	if err != nil {
		return err
	}

	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.Initialize(context.Background(), &api.InitializeRequest{
		OwnerAssistant:    ctx.String("owner_assistant"),
		FeeRecipientToken: ctx.String("fee_recipient_token"),
		AuctionParameters: *params,
	}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("engine has been initialized")
	return nil
}

func setPauseAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	paused := !ctx.Bool("resume")
	if _, err := client.SetPause(
		context.Background(), &api.SetPauseRequest{Paused: paused},
	); err != nil {
		return err
	}

	fmt.Println()
	if paused {
		fmt.Println("bidding is paused")
	} else {
		fmt.Println("bidding is resumed")
	}
	return nil
}

func submitOwnershipAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.SubmitOwnershipTransfer(
		context.Background(), &api.SubmitOwnershipTransferRequest{
			NewOwner: ctx.String("new_owner"),
		},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("ownership transfer submitted")
	return nil
}

func confirmOwnershipAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.ConfirmOwnershipTransfer(
		context.Background(), &api.ConfirmOwnershipTransferRequest{},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("ownership transfer confirmed")
	return nil
}

func cancelOwnershipAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.CancelOwnershipTransfer(
		context.Background(), &api.CancelOwnershipTransferRequest{},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("ownership transfer canceled")
	return nil
}

func updateOwnerAssistantAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.UpdateOwnerAssistant(
		context.Background(), &api.UpdateOwnerAssistantRequest{
			NewAssistant: ctx.String("new_assistant"),
		},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("owner assistant has been updated")
	return nil
}

func updateFeeRecipientAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.UpdateFeeRecipient(
		context.Background(), &api.UpdateFeeRecipientRequest{
			NewFeeRecipientToken: ctx.String("new_fee_recipient_token"),
		},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("fee recipient has been updated")
	return nil
}

func getCustodianAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.GetCustodian(context.Background(), &api.GetCustodianRequest{})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getAuctionConfigAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	req := &api.GetAuctionConfigRequest{}
	if ctx.IsSet("id") {
		id := uint32(ctx.Uint("id"))
		req.ID = &id
	}

	reply, err := client.GetAuctionConfig(context.Background(), req)
	if err != nil {
		return err
	}

	printRespJSON(newAuctionConfigView(reply.Config))
	return nil
}

func parseAuctionParametersFlags(ctx *cli.Context) (*api.AuctionParameters, error) {
	userPenaltyReward, err := parsePercentage(ctx, "user_penalty_reward")
	if err != nil {
		return nil, err
	}
	initialPenalty, err := parsePercentage(ctx, "initial_penalty")
	if err != nil {
		return nil, err
	}
	minOfferDelta, err := parsePercentage(ctx, "min_offer_delta")
	if err != nil {
		return nil, err
	}
	securityDeposit, err := parsePercentage(ctx, "security_deposit")
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"duration", "grace_period", "penalty_period"} {
		if ctx.Uint(name) > 0xffff {
			return nil, fmt.Errorf("%s must not exceed %d slots", name, 0xffff)
		}
	}

	return &api.AuctionParameters{
		UserPenaltyRewardBps: userPenaltyReward,
		InitialPenaltyBps:    initialPenalty,
		Duration:             uint16(ctx.Uint("duration")),
		GracePeriod:          uint16(ctx.Uint("grace_period")),
		PenaltyPeriod:        uint16(ctx.Uint("penalty_period")),
		MinOfferDeltaBps:     minOfferDelta,
		SecurityDepositBase:  ctx.Uint64("security_deposit_base"),
		SecurityDepositBps:   securityDeposit,
	}, nil
}

func parsePercentage(ctx *cli.Context, name string) (uint32, error) {
	bps, err := mathutil.PercentageToBps(ctx.String(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return bps, nil
}

// auctionParametersView shows rates as percentages.
type auctionParametersView struct {
	UserPenaltyReward   string `json:"user_penalty_reward"`
	InitialPenalty      string `json:"initial_penalty"`
	Duration            uint16 `json:"duration"`
	GracePeriod         uint16 `json:"grace_period"`
	PenaltyPeriod       uint16 `json:"penalty_period"`
	MinOfferDelta       string `json:"min_offer_delta"`
	SecurityDepositBase uint64 `json:"security_deposit_base"`
	SecurityDeposit     string `json:"security_deposit"`
}

type auctionConfigView struct {
	ID         uint32                `json:"id"`
	Parameters auctionParametersView `json:"parameters"`
}

func newAuctionParametersView(p api.AuctionParameters) auctionParametersView {
	return auctionParametersView{
		UserPenaltyReward:   mathutil.BpsToPercentage(p.UserPenaltyRewardBps) + "%",
		InitialPenalty:      mathutil.BpsToPercentage(p.InitialPenaltyBps) + "%",
		Duration:            p.Duration,
		GracePeriod:         p.GracePeriod,
		PenaltyPeriod:       p.PenaltyPeriod,
		MinOfferDelta:       mathutil.BpsToPercentage(p.MinOfferDeltaBps) + "%",
		SecurityDepositBase: p.SecurityDepositBase,
		SecurityDeposit:     mathutil.BpsToPercentage(p.SecurityDepositBps) + "%",
	}
}

func newAuctionConfigView(c api.AuctionConfig) auctionConfigView {
	return auctionConfigView{c.ID, newAuctionParametersView(c.Parameters)}
}
