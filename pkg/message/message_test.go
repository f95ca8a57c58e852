package message_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	"github.com/stretchr/testify/require"
)

func address(b byte) vaa.Address {
	var a vaa.Address
	a[31] = b
	return a
}

func TestFastMarketOrder(t *testing.T) {
	order := &message.FastMarketOrder{
		AmountIn:        50_000_000_000,
		MinAmountOut:    49_000_000_000,
		TargetChain:     23,
		Redeemer:        address(1),
		Sender:          address(2),
		RefundAddress:   address(3),
		MaxFee:          10_000,
		InitAuctionFee:  100,
		Deadline:        1_700_000_000,
		RedeemerMessage: []byte("hello"),
	}

	parsed, err := message.ParseFastMarketOrder(order.Serialize())
	require.NoError(t, err)
	require.Equal(t, order, parsed)
}

func TestDepositWithSlowOrderResponse(t *testing.T) {
	response := &message.SlowOrderResponse{BaseFee: 420}
	deposit := &message.Deposit{
		TokenAddress:          address(9),
		Amount:                50_000_000_000,
		SourceCctpDomain:      3,
		DestinationCctpDomain: 5,
		CctpNonce:             77,
		BurnSource:            address(4),
		MintRecipient:         address(5),
		Payload:               response.Serialize(),
	}

	raw, err := deposit.Serialize()
	require.NoError(t, err)
	parsed, err := message.ParseDeposit(raw)
	require.NoError(t, err)
	require.Equal(t, deposit, parsed)

	parsedResponse, err := message.ParseSlowOrderResponse(parsed.Payload)
	require.NoError(t, err)
	require.Equal(t, response, parsedResponse)

	_, err = message.ParseFill(parsed.Payload)
	require.ErrorIs(t, err, message.ErrInvalidPayloadID)
}

func TestFastFill(t *testing.T) {
	fill := &message.FastFill{
		Fill: message.Fill{
			SourceChain: 2,
			OrderSender: address(6),
			Redeemer:    address(7),
		},
		Amount: 1234,
	}

	parsed, err := message.ParseFastFill(fill.Serialize())
	require.NoError(t, err)
	require.Equal(t, fill, parsed)
}

func TestParseFailing(t *testing.T) {
	order := (&message.FastMarketOrder{RedeemerMessage: []byte("abc")}).Serialize()
	oversized := (&message.FastMarketOrder{
		RedeemerMessage: make([]byte, message.MaxRedeemerMessageLen+1),
	}).Serialize()
	deposit, err := (&message.Deposit{Amount: 1}).Serialize()
	require.NoError(t, err)
	overflowing := append([]byte{}, deposit...)
	overflowing[33] = 1

	tests := []struct {
		name          string
		parse         func([]byte) error
		payload       []byte
		expectedError error
	}{
		{
			name:          "empty",
			parse:         func(b []byte) error { _, err := message.ParseFastMarketOrder(b); return err },
			payload:       nil,
			expectedError: message.ErrEmptyPayload,
		},
		{
			name:          "wrong id",
			parse:         func(b []byte) error { _, err := message.ParseFastFill(b); return err },
			payload:       order,
			expectedError: message.ErrInvalidPayloadID,
		},
		{
			name:          "truncated",
			parse:         func(b []byte) error { _, err := message.ParseFastMarketOrder(b); return err },
			payload:       order[:len(order)-1],
			expectedError: message.ErrMalformedPayload,
		},
		{
			name:          "trailing bytes",
			parse:         func(b []byte) error { _, err := message.ParseFastMarketOrder(b); return err },
			payload:       append(append([]byte{}, order...), 0),
			expectedError: message.ErrTrailingBytes,
		},
		{
			name:          "redeemer message too large",
			parse:         func(b []byte) error { _, err := message.ParseFastMarketOrder(b); return err },
			payload:       oversized,
			expectedError: message.ErrPayloadTooLarge,
		},
		{
			name:          "amount overflow",
			parse:         func(b []byte) error { _, err := message.ParseDeposit(b); return err },
			payload:       overflowing,
			expectedError: message.ErrAmountOverflow,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tt.parse(tt.payload), tt.expectedError)
		})
	}
}

func TestRedeemerMessageLimit(t *testing.T) {
	order := &message.FastMarketOrder{
		RedeemerMessage: make([]byte, message.MaxRedeemerMessageLen),
	}
	parsed, err := message.ParseFastMarketOrder(order.Serialize())
	require.NoError(t, err)

	// The largest accepted message still travels inside a deposit.
	fill := &message.Fill{RedeemerMessage: parsed.RedeemerMessage}
	raw, err := (&message.Deposit{Payload: fill.Serialize()}).Serialize()
	require.NoError(t, err)
	deposit, err := message.ParseDeposit(raw)
	require.NoError(t, err)
	delivered, err := message.ParseFill(deposit.Payload)
	require.NoError(t, err)
	require.Len(t, delivered.RedeemerMessage, message.MaxRedeemerMessageLen)

	fill.RedeemerMessage = make([]byte, 70_000)
	_, err = (&message.Deposit{Payload: fill.Serialize()}).Serialize()
	require.ErrorIs(t, err, message.ErrPayloadTooLarge)
}
