package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/urfave/cli/v2"
)

var defaultSecretPath = filepath.Join(
	btcutil.AppDataDir("matching-engine", false), "auth", "secret",
)

var token = cli.Command{
	Name:  "token",
	Usage: "issue an access token for a signer, signed with the daemon secret",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "signer",
			Usage:    "the hex address the token holder acts as",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "role",
			Usage: fmt.Sprintf("the permission set granted, one of %s", roles()),
			Value: "solver",
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the secret of the daemon, read from --secret-path if not set",
		},
		&cli.StringFlag{
			Name:  "secret-path",
			Usage: "the file containing the secret of the daemon",
			Value: defaultSecretPath,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "validity of the token, 0 never expires",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "store the token in the local state",
		},
	},
	Action: tokenAction,
}

func tokenAction(ctx *cli.Context) error {
	signer, err := domain.ParseAddress(ctx.String("signer"))
	if err != nil {
		return err
	}
	if domain.IsZeroAddress(signer) {
		return fmt.Errorf("signer must not be zero")
	}

	ops, ok := permissions.Presets()[ctx.String("role")]
	if !ok {
		return fmt.Errorf("unknown role, must be one of %s", roles())
	}

	secret, err := readSecret(ctx.String("secret"), ctx.String("secret-path"))
	if err != nil {
		return err
	}

	tok, err := api.NewToken(
		secret, signer.String(), permissions.Encode(ops), ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}

	if ctx.Bool("save") {
		if err := setState(map[string]string{"token": tok}); err != nil {
			return err
		}
	}

	fmt.Println(tok)
	return nil
}

func readSecret(secret, path string) ([]byte, error) {
	if len(secret) > 0 {
		return []byte(secret), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(content))), nil
}

func roles() string {
	names := make([]string, 0)
	for name := range permissions.Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
