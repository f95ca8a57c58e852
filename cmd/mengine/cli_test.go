package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func withTempState(t *testing.T) {
	prev := statePath
	statePath = filepath.Join(t.TempDir(), "cli", "state.json")
	t.Cleanup(func() { statePath = prev })
}

func TestState(t *testing.T) {
	withTempState(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, setState(map[string]string{"rpcserver": "localhost:9000"}))
	require.NoError(t, setState(map[string]string{"token": "abc"}))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"rpcserver": "localhost:9000",
		"token":     "abc",
	}, state)

	require.NoError(t, setState(map[string]string{"token": "def"}))
	state, err = getState()
	require.NoError(t, err)
	require.Equal(t, "def", state["token"])
}

func TestParseAuctionParametersFlags(t *testing.T) {
	ctx := newTestContext(t, auctionParametersFlags,
		"--user_penalty_reward", "25",
		"--initial_penalty", "0.5",
		"--duration", "2",
		"--grace_period", "5",
		"--penalty_period", "10",
		"--min_offer_delta", "2",
		"--security_deposit_base", "1000",
		"--security_deposit", "1",
	)

	params, err := parseAuctionParametersFlags(ctx)
	require.NoError(t, err)
	require.Equal(t, &api.AuctionParameters{
		UserPenaltyRewardBps: 250_000,
		InitialPenaltyBps:    5_000,
		Duration:             2,
		GracePeriod:          5,
		PenaltyPeriod:        10,
		MinOfferDeltaBps:     20_000,
		SecurityDepositBase:  1000,
		SecurityDepositBps:   10_000,
	}, params)

	view := newAuctionParametersView(*params)
	require.Equal(t, "25%", view.UserPenaltyReward)
	require.Equal(t, "0.5%", view.InitialPenalty)

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"negative percentage", []string{"--initial_penalty", "-1"}},
			{"percentage above 100", []string{"--user_penalty_reward", "101"}},
			{"not a number", []string{"--min_offer_delta", "two"}},
			{"duration overflow", []string{"--duration", "70000"}},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				ctx := newTestContext(t, auctionParametersFlags, tt.args...)
				_, err := parseAuctionParametersFlags(ctx)
				require.Error(t, err)
			})
		}
	})
}

func TestParseEndpointFlags(t *testing.T) {
	ctx := newTestContext(t, endpointFlags,
		"--chain", "2", "--address", "0x01", "--domain", "3",
	)
	endpoint, err := parseEndpointFlags(ctx)
	require.NoError(t, err)
	require.Equal(t, &api.RouterEndpoint{
		Chain:         2,
		Address:       "0x01",
		MintRecipient: "0x01",
		Protocol:      "cctp",
		Domain:        3,
	}, endpoint)

	ctx = newTestContext(t, endpointFlags,
		"--chain", "1", "--address", "0x01", "--protocol", "local",
	)
	_, err = parseEndpointFlags(ctx)
	require.EqualError(t, err, "missing program_id for local endpoint")

	ctx = newTestContext(t, endpointFlags,
		"--chain", "0", "--address", "0x01",
	)
	_, err = parseEndpointFlags(ctx)
	require.Error(t, err)
}

func TestParseBytesFlag(t *testing.T) {
	flags := []cli.Flag{&cli.StringFlag{Name: "vaa"}}

	path := filepath.Join(t.TempDir(), "vaa")
	require.NoError(t, os.WriteFile(path, []byte("0xcafe\n"), 0644))

	tests := []struct {
		name          string
		value         string
		expected      []byte
		expectedError bool
	}{
		{"prefixed", "0xcafe", []byte{0xca, 0xfe}, false},
		{"not prefixed", "cafe", []byte{0xca, 0xfe}, false},
		{"from file", "@" + path, []byte{0xca, 0xfe}, false},
		{"empty", "", nil, true},
		{"odd length", "0xcaf", nil, true},
		{"missing file", "@" + path + ".missing", nil, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, flags, "--vaa", tt.value)
			b, err := parseBytesFlag(ctx, "vaa")
			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, []byte(b))
		})
	}
}

func TestEventStreamDialer(t *testing.T) {
	streamURL, dialer, err := eventStreamDialer(map[string]string{
		"rpcserver": "localhost:9000",
		"no_tls":    "true",
	}, []string{"AUCTION_STARTED", "AUCTION_SETTLED"})
	require.NoError(t, err)
	require.Nil(t, dialer.TLSClientConfig)
	require.Equal(t,
		"ws://localhost:9000/v1/events?topic=AUCTION_STARTED&topic=AUCTION_SETTLED",
		streamURL,
	)

	streamURL, dialer, err = eventStreamDialer(map[string]string{
		"rpcserver": "localhost:9000",
	}, nil)
	require.NoError(t, err)
	require.True(t, dialer.TLSClientConfig.InsecureSkipVerify)
	require.Equal(t, "wss://localhost:9000/v1/events", streamURL)

	_, _, err = eventStreamDialer(map[string]string{}, nil)
	require.Error(t, err)
}

func TestTokenAction(t *testing.T) {
	withTempState(t)
	secretPath := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(secretPath, []byte("supersecret\n"), 0600))

	signer := "0x0101010101010101010101010101010101010101010101010101010101010101"
	ctx := newTestContext(t, token.Flags,
		"--signer", signer, "--role", "operator", "--secret-path", secretPath, "--save",
	)
	require.NoError(t, tokenAction(ctx))

	state, err := getState()
	require.NoError(t, err)
	claims, err := api.ParseToken([]byte("supersecret"), state["token"])
	require.NoError(t, err)
	require.Equal(t, signer, claims.Subject)
	require.Equal(t, permissions.Encode(permissions.OperatorPermissions()), claims.Permissions)

	ctx = newTestContext(t, token.Flags,
		"--signer", signer, "--role", "root", "--secret", "supersecret",
	)
	require.Error(t, tokenAction(ctx))

	ctx = newTestContext(t, token.Flags,
		"--signer", "0x00", "--secret", "supersecret",
	)
	require.Error(t, tokenAction(ctx))
}
