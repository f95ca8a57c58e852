package main

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified of engine events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the endpoint where to notify the webhook",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the eventual secret to authenticate requests",
				},
				&cli.StringFlag{
					Name:  "topic",
					Usage: "the event for which the webhook gets notified, * for all",
					Value: "*",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "remove",
			Usage: "remove a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the webhook",
					Required: true,
				},
			},
			Action: removeWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list all webhooks registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "topic",
					Usage: "the event to filter hooks by",
					Value: "*",
				},
			},
			Action: listWebhooksAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.AddWebhook(
		context.Background(), &api.AddWebhookRequest{
			Topic:    ctx.String("topic"),
			Endpoint: ctx.String("endpoint"),
			Secret:   ctx.String("secret"),
		},
	)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("hook id:", reply.Id)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.RemoveWebhook(
		context.Background(), &api.RemoveWebhookRequest{Id: ctx.String("id")},
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("webhook has been removed")
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, cleanup, err := getClient()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := client.ListWebhooks(
		context.Background(), &api.ListWebhooksRequest{Topic: ctx.String("topic")},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
