package application_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/cctp"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	"github.com/stretchr/testify/require"
)

func TestPrepareOrderResponse(t *testing.T) {
	e := newTestEngine(t)
	relayer := randomAddress()
	o := e.newOrder(targetChain, 1_000)

	response, err := e.settlement.PrepareOrderResponse(e.ctx, relayer, o.prepare)
	require.NoError(t, err)
	require.Equal(t, o.hash, response.FastVaaHash)
	require.Equal(t, relayer, response.PreparedBy)
	require.Equal(t, sourceChain, response.SourceChain)
	require.Equal(t, targetChain, response.TargetChain)
	require.Equal(t, uint64(1_000), response.BaseFee)
	require.Equal(t, amountIn, response.AmountIn)
	require.Equal(t, domain.PreparedCustodyToken(o.hash), response.CustodyToken)
	require.Equal(t, amountIn, e.balance(response.CustodyToken))

	// Preparing again returns the stored response and mints nothing.
	again, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), o.prepare)
	require.NoError(t, err)
	require.Equal(t, relayer, again.PreparedBy)
	require.Equal(t, amountIn, e.balance(response.CustodyToken))

	stored, err := e.settlement.GetPreparedOrderResponse(e.ctx, o.hash)
	require.NoError(t, err)
	require.Equal(t, response.CustodyToken, stored.CustodyToken)
	require.Equal(t, response.Redeemer, stored.Redeemer)
	require.Equal(t, relayer, stored.PreparedBy)

	require.Equal(t, []string{application.TopicOrderResponsePrepared}, e.events.topics())
}

func TestPrepareOrderResponseFailing(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name          string
		mutate        func(o *testOrder)
		expectedError error
	}{
		{
			name: "finalized vaa sequence",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(v *vaa.VAA, _ *message.Deposit) {
					v.Sequence++
				})
			},
			expectedError: domain.ErrVaaMismatch,
		},
		{
			name: "finalized vaa emitter",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(v *vaa.VAA, _ *message.Deposit) {
					v.EmitterAddress = randomAddress()
				})
			},
			expectedError: domain.ErrVaaMismatch,
		},
		{
			name: "deposit amount",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(_ *vaa.VAA, d *message.Deposit) {
					d.Amount--
				})
			},
			expectedError: domain.ErrDepositAmountMismatch,
		},
		{
			name: "deposit source domain",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(_ *vaa.VAA, d *message.Deposit) {
					d.SourceCctpDomain = targetDomain
				})
			},
			expectedError: domain.ErrCctpMessageMismatch,
		},
		{
			name: "not a slow order response",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(_ *vaa.VAA, d *message.Deposit) {
					d.Payload = (&message.Fill{SourceChain: sourceChain}).Serialize()
				})
			},
			expectedError: domain.ErrNotSlowOrderResponse,
		},
		{
			name: "not a deposit",
			mutate: func(o *testOrder) {
				o.prepare.FinalizedVaa = e.withPayload(
					o.prepare.FinalizedVaa, o.order.Serialize(),
				)
			},
			expectedError: domain.ErrInvalidDeposit,
		},
		{
			name: "fast vaa from unknown router",
			mutate: func(o *testOrder) {
				emitter := randomAddress()
				o.mutate(t, func(v *vaa.VAA) { v.EmitterAddress = emitter })
				o.mutateFinalized(t, func(v *vaa.VAA, _ *message.Deposit) {
					v.EmitterAddress = emitter
				})
			},
			expectedError: domain.ErrInvalidSourceRouter,
		},
		{
			name: "insufficient attestation",
			mutate: func(o *testOrder) {
				attestation, err := cctp.Attest(o.prepare.CctpMessage, e.attesters[0])
				require.NoError(t, err)
				o.prepare.CctpAttestation = attestation
			},
			expectedError: cctp.ErrInvalidAttestation,
		},
		{
			name: "cctp nonce",
			mutate: func(o *testOrder) {
				nonce := e.nextCctpNonce + 1_000
				o.prepare.CctpMessage, o.prepare.CctpAttestation = e.attestedMessage(
					nonce, amountIn, domain.CctpMintRecipient(e.engineProgramID),
				)
			},
			expectedError: domain.ErrCctpMessageMismatch,
		},
		{
			name: "cctp mint recipient",
			mutate: func(o *testOrder) {
				o.mutateFinalized(t, func(_ *vaa.VAA, d *message.Deposit) {
					d.CctpNonce = e.nextCctpNonce + 2_000
				})
				o.prepare.CctpMessage, o.prepare.CctpAttestation = e.attestedMessage(
					e.nextCctpNonce+2_000, amountIn, randomAddress(),
				)
			},
			expectedError: domain.ErrInvalidMintRecipient,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			o := e.newOrder(targetChain, 0)
			tt.mutate(o)

			_, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), o.prepare)
			require.ErrorIs(t, err, tt.expectedError)

			_, err = e.settlement.GetPreparedOrderResponse(e.ctx, o.hash)
			require.ErrorIs(t, err, domain.ErrPreparedOrderResponseNotFound)
			e.requireClosed(domain.PreparedCustodyToken(o.hash))
		})
	}
	require.Empty(t, e.events.topics())
}

func TestPrepareOrderResponseCctpNonce(t *testing.T) {
	e := newTestEngine(t)

	t.Run("mismatched message is not consumed", func(t *testing.T) {
		victim := e.newOrder(targetChain, 0)
		other := e.newOrder(targetChain, 0)
		other.prepare.CctpMessage = victim.prepare.CctpMessage
		other.prepare.CctpAttestation = victim.prepare.CctpAttestation

		_, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), other.prepare)
		require.ErrorIs(t, err, domain.ErrCctpMessageMismatch)

		_, err = e.repoManager.UsedCctpNonceRepository().GetUsedCctpNonce(
			e.ctx, sourceDomain, victim.cctpNonce,
		)
		require.ErrorIs(t, err, domain.ErrCctpNonceNotFound)

		response, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), victim.prepare)
		require.NoError(t, err)
		require.Equal(t, amountIn, e.balance(response.CustodyToken))

		used, err := e.repoManager.UsedCctpNonceRepository().GetUsedCctpNonce(
			e.ctx, sourceDomain, victim.cctpNonce,
		)
		require.NoError(t, err)
		require.Equal(t, victim.hash, used.FastVaaHash)
	})

	t.Run("message backs a single order", func(t *testing.T) {
		first := e.newOrder(targetChain, 0)
		_, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), first.prepare)
		require.NoError(t, err)

		second := e.newOrder(targetChain, 0)
		second.mutateFinalized(t, func(_ *vaa.VAA, d *message.Deposit) {
			d.CctpNonce = first.cctpNonce
		})
		second.prepare.CctpMessage = first.prepare.CctpMessage
		second.prepare.CctpAttestation = first.prepare.CctpAttestation

		_, err = e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), second.prepare)
		require.ErrorIs(t, err, domain.ErrCctpNonceAlreadyUsed)
		e.requireClosed(domain.PreparedCustodyToken(second.hash))
	})
}

// TestSettleAuctionComplete runs the reference scenario: A opens, B improves
// and executes in time, the slow transfer repays B.
func TestSettleAuctionComplete(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(targetChain, 0)
	relayer := randomAddress()

	solverA, solverB := randomAddress(), randomAddress()
	tokenA := e.newFundedAccount(solverA)
	tokenB := e.newFundedAccount(solverB)

	_, err := e.placeInitialOffer(o, solverA, tokenA, maxFee)
	require.NoError(t, err)
	e.advanceSlots(2)
	_, err = e.improveOffer(o, solverB, tokenB, tokenA, 9_499)
	require.NoError(t, err)

	// The slow transfer can land before the auction is executed.
	_, err = e.settlement.PrepareOrderResponse(e.ctx, relayer, o.prepare)
	require.NoError(t, err)

	args := application.SettleAuctionCompleteArgs{
		FastVaaHash:    o.hash,
		ExecutorToken:  tokenB,
		BestOfferToken: tokenB,
	}
	_, err = e.settlement.SettleAuctionComplete(e.ctx, relayer, args)
	require.ErrorIs(t, err, domain.ErrAuctionNotCompleted)

	e.advanceSlots(3)
	_, err = e.execute(o, solverB, tokenB)
	require.NoError(t, err)

	t.Run("token mismatch", func(t *testing.T) {
		tests := []struct {
			name          string
			args          application.SettleAuctionCompleteArgs
			expectedError error
		}{
			{
				name: "executor",
				args: application.SettleAuctionCompleteArgs{
					FastVaaHash:    o.hash,
					ExecutorToken:  tokenA,
					BestOfferToken: tokenB,
				},
				expectedError: domain.ErrExecutorTokenMismatch,
			},
			{
				name: "best offer",
				args: application.SettleAuctionCompleteArgs{
					FastVaaHash:    o.hash,
					ExecutorToken:  tokenB,
					BestOfferToken: tokenA,
				},
				expectedError: domain.ErrBestOfferTokenMismatch,
			},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.settlement.SettleAuctionComplete(e.ctx, relayer, tt.args)
				require.ErrorIs(t, err, tt.expectedError)
			})
		}
	})

	reply, err := e.settlement.SettleAuctionComplete(e.ctx, relayer, args)
	require.NoError(t, err)
	require.Equal(t, domain.AuctionStatusSettled, reply.Auction.Status.Code)
	require.Zero(t, reply.Auction.Status.Settled.Fee)
	require.Nil(t, reply.Auction.Status.Settled.TotalPenalty)
	require.Equal(t, []domain.Payout{{Token: tokenB, Amount: amountIn}}, reply.Payouts)

	require.Equal(t, initialFunds+9_499, e.balance(tokenB))
	require.Equal(t, initialFunds+initAuctionFee, e.balance(tokenA))
	e.requireClosed(domain.PreparedCustodyToken(o.hash))
	_, err = e.settlement.GetPreparedOrderResponse(e.ctx, o.hash)
	require.ErrorIs(t, err, domain.ErrPreparedOrderResponseNotFound)

	t.Run("settle twice", func(t *testing.T) {
		_, err := e.settlement.SettleAuctionComplete(e.ctx, relayer, args)
		require.ErrorIs(t, err, domain.ErrPreparedOrderResponseNotFound)
	})

	t.Run("prepare after settlement", func(t *testing.T) {
		_, err := e.settlement.PrepareOrderResponse(e.ctx, relayer, o.prepare)
		require.ErrorIs(t, err, domain.ErrOrderAlreadySettled)
	})

	require.Equal(t, []string{
		application.TopicAuctionStarted,
		application.TopicOfferImproved,
		application.TopicOrderResponsePrepared,
		application.TopicOrderExecuted,
		application.TopicAuctionSettled,
	}, e.events.topics())
	settled := e.events.last()
	require.Equal(t, "complete", settled.Payload["path"])
	require.Equal(t, o.hash.String(), settled.Payload["vaa_hash"])
}

func TestSettleAuctionNoneCctp(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(targetChain, 1_000)
	relayer := randomAddress()

	_, err := e.settlement.PrepareOrderResponse(e.ctx, relayer, o.prepare)
	require.NoError(t, err)

	args := application.SettleAuctionNoneArgs{
		FastVaaHash:       o.hash,
		FeeRecipientToken: e.feeRecipientToken,
	}

	t.Run("wrong fee recipient", func(t *testing.T) {
		_, err := e.settlement.SettleAuctionNoneCctp(e.ctx, relayer, application.SettleAuctionNoneArgs{
			FastVaaHash:       o.hash,
			FeeRecipientToken: randomAddress(),
		})
		require.ErrorIs(t, err, domain.ErrFeeRecipientTokenMismatch)
	})

	t.Run("wrong path", func(t *testing.T) {
		_, err := e.settlement.SettleAuctionNoneLocal(e.ctx, relayer, args)
		require.ErrorIs(t, err, domain.ErrInvalidTargetRouter)
	})

	reply, err := e.settlement.SettleAuctionNoneCctp(e.ctx, relayer, args)
	require.NoError(t, err)
	require.Equal(t, amountIn-1_000, reply.UserAmount)
	require.Equal(t, []domain.Payout{{Token: e.feeRecipientToken, Amount: 1_000}}, reply.Payouts)
	require.Equal(t, uint64(1_000), e.balance(e.feeRecipientToken))
	e.requireClosed(domain.PreparedCustodyToken(o.hash))

	burns := e.transmitter.Burns()
	require.Len(t, burns, 1)
	require.Equal(t, amountIn-1_000, burns[0].Amount)
	require.Equal(t, targetDomain, burns[0].DestinationDomain)

	published := e.publishedMessage(reply.Sequence)
	deposit, err := message.ParseDeposit(published.Payload)
	require.NoError(t, err)
	require.Equal(t, amountIn-1_000, deposit.Amount)
	fill, err := message.ParseFill(deposit.Payload)
	require.NoError(t, err)
	require.Equal(t, o.order.Redeemer, fill.Redeemer)

	auction, err := e.auctions.GetAuction(e.ctx, o.hash)
	require.NoError(t, err)
	require.Equal(t, domain.AuctionStatusSettled, auction.Status.Code)
	require.Equal(t, uint64(1_000), auction.Status.Settled.Fee)
	require.Nil(t, auction.Status.Settled.TotalPenalty)
	require.Nil(t, auction.Info)
	require.Equal(t, domain.MessageProtocolCctp, auction.TargetProtocol.Type)

	t.Run("auction after settlement", func(t *testing.T) {
		solver := randomAddress()
		token := e.newFundedAccount(solver)
		_, err := e.placeInitialOffer(o, solver, token, maxFee)
		require.ErrorIs(t, err, domain.ErrAuctionAlreadyStarted)
		require.Equal(t, initialFunds, e.balance(token))
	})

	t.Run("settle twice", func(t *testing.T) {
		_, err := e.settlement.SettleAuctionNoneCctp(e.ctx, relayer, args)
		require.ErrorIs(t, err, domain.ErrAuctionAlreadyStarted)
	})

	t.Run("prepare after settlement", func(t *testing.T) {
		_, err := e.settlement.PrepareOrderResponse(e.ctx, relayer, o.prepare)
		require.ErrorIs(t, err, domain.ErrOrderAlreadySettled)
	})

	settled := e.events.last()
	require.Equal(t, application.TopicAuctionSettled, settled.Topic)
	require.Equal(t, "none_cctp", settled.Payload["path"])
}

func TestSettleAuctionNoneLocal(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(localChain, 1_000)
	relayer := randomAddress()
	localCustody := domain.LocalCustodyToken(e.tokenRouterProgramID)

	t.Run("wrong path", func(t *testing.T) {
		prepare := o.prepare
		_, err := e.settlement.SettleAuctionNoneCctp(e.ctx, relayer, application.SettleAuctionNoneArgs{
			FastVaaHash:       o.hash,
			FeeRecipientToken: e.feeRecipientToken,
			Prepare:           &prepare,
		})
		require.ErrorIs(t, err, domain.ErrInvalidTargetRouter)
		e.requireClosed(domain.PreparedCustodyToken(o.hash))
	})

	t.Run("hash mismatch", func(t *testing.T) {
		prepare := o.prepare
		_, err := e.settlement.SettleAuctionNoneLocal(e.ctx, relayer, application.SettleAuctionNoneArgs{
			FastVaaHash:       domain.Hash{0x01},
			FeeRecipientToken: e.feeRecipientToken,
			Prepare:           &prepare,
		})
		require.ErrorIs(t, err, domain.ErrVaaHashMismatch)
	})

	t.Run("not prepared", func(t *testing.T) {
		_, err := e.settlement.SettleAuctionNoneLocal(e.ctx, relayer, application.SettleAuctionNoneArgs{
			FastVaaHash:       o.hash,
			FeeRecipientToken: e.feeRecipientToken,
		})
		require.ErrorIs(t, err, domain.ErrPreparedOrderResponseNotFound)
	})

	require.Empty(t, e.events.topics())

	// Prepared and settled at once.
	prepare := o.prepare
	reply, err := e.settlement.SettleAuctionNoneLocal(e.ctx, relayer, application.SettleAuctionNoneArgs{
		FastVaaHash:       o.hash,
		FeeRecipientToken: e.feeRecipientToken,
		Prepare:           &prepare,
	})
	require.NoError(t, err)
	require.Equal(t, amountIn-1_000, reply.UserAmount)
	require.Equal(t, uint64(1_000), e.balance(e.feeRecipientToken))
	require.Equal(t, amountIn-1_000, e.balance(localCustody))
	require.Empty(t, e.transmitter.Burns())
	e.requireClosed(domain.PreparedCustodyToken(o.hash))

	published := e.publishedMessage(reply.Sequence)
	fastFill, err := message.ParseFastFill(published.Payload)
	require.NoError(t, err)
	require.Equal(t, amountIn-1_000, fastFill.Amount)
	require.Equal(t, o.order.Redeemer, fastFill.Fill.Redeemer)
	require.Equal(t, sourceChain, fastFill.Fill.SourceChain)

	auction, err := e.auctions.GetAuction(e.ctx, o.hash)
	require.NoError(t, err)
	require.Equal(t, domain.MessageProtocolLocal, auction.TargetProtocol.Type)

	require.Equal(t, []string{
		application.TopicOrderResponsePrepared,
		application.TopicAuctionSettled,
	}, e.events.topics())
	require.Equal(t, "none_local", e.events.last().Payload["path"])
}

func TestSettleAuctionNoneAfterAuction(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(targetChain, 0)
	solver := randomAddress()
	token := e.newFundedAccount(solver)

	_, err := e.placeInitialOffer(o, solver, token, maxFee)
	require.NoError(t, err)
	_, err = e.settlement.PrepareOrderResponse(e.ctx, solver, o.prepare)
	require.NoError(t, err)

	_, err = e.settlement.SettleAuctionNoneCctp(e.ctx, solver, application.SettleAuctionNoneArgs{
		FastVaaHash:       o.hash,
		FeeRecipientToken: e.feeRecipientToken,
	})
	require.ErrorIs(t, err, domain.ErrAuctionAlreadyStarted)
	require.Equal(t, amountIn, e.balance(domain.PreparedCustodyToken(o.hash)))
}
