package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestRepoManagerImplementations(t *testing.T) {
	repoManagers := createRepoManagers(t)

	for i := range repoManagers {
		repoManager := repoManagers[i]

		t.Run(repoManager.Name, func(t *testing.T) {
			t.Run("custodian", func(t *testing.T) {
				testCustodian(t, repoManager)
			})
			t.Run("auction_configs", func(t *testing.T) {
				testAuctionConfigs(t, repoManager)
			})
			t.Run("proposals", func(t *testing.T) {
				testProposals(t, repoManager)
			})
			t.Run("router_endpoints", func(t *testing.T) {
				testRouterEndpoints(t, repoManager)
			})
			t.Run("auctions", func(t *testing.T) {
				testAuctions(t, repoManager)
			})
			t.Run("prepared_order_responses", func(t *testing.T) {
				testPreparedOrderResponses(t, repoManager)
			})
			t.Run("redeemed_fast_fills", func(t *testing.T) {
				testRedeemedFastFills(t, repoManager)
			})
			t.Run("payer_sequences", func(t *testing.T) {
				testPayerSequences(t, repoManager)
			})
			t.Run("token_accounts", func(t *testing.T) {
				testTokenAccounts(t, repoManager)
			})
			t.Run("used_cctp_nonces", func(t *testing.T) {
				testUsedCctpNonces(t, repoManager)
			})
			t.Run("transaction_rollback", func(t *testing.T) {
				testTransactionRollback(t, repoManager)
			})
		})
	}
}

func testCustodian(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.CustodianRepository()

	_, err := repo.GetCustodian(ctx)
	require.ErrorIs(t, err, domain.ErrCustodianNotInitialized)

	custodian, err := domain.NewCustodian(randomAddress(), randomAddress(), randomAddress())
	require.NoError(t, err)
	require.NoError(t, repo.AddCustodian(ctx, custodian))
	require.ErrorIs(t, repo.AddCustodian(ctx, custodian), domain.ErrCustodianAlreadyInitialized)

	newOwner := randomAddress()
	err = repo.UpdateCustodian(ctx, func(c *domain.Custodian) (*domain.Custodian, error) {
		if err := c.SubmitOwnershipTransfer(c.Owner, newOwner); err != nil {
			return nil, err
		}
		c.TakeProposalID()
		return c, nil
	})
	require.NoError(t, err)

	got, err := repo.GetCustodian(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.PendingOwner)
	require.Equal(t, newOwner, *got.PendingOwner)
	require.Equal(t, uint64(1), got.NextProposalID)

	// Mutating a returned entity does not affect the stored one.
	got.Paused = true
	got, err = repo.GetCustodian(ctx)
	require.NoError(t, err)
	require.False(t, got.Paused)
}

func testAuctionConfigs(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.AuctionConfigRepository()

	config := &domain.AuctionConfig{
		ID: 0,
		Parameters: domain.AuctionParameters{
			Duration: 2, GracePeriod: 5, PenaltyPeriod: 10,
			MinOfferDeltaBps: 20_000, SecurityDepositBase: 4_200_000,
		},
	}
	require.NoError(t, repo.AddAuctionConfig(ctx, config))
	require.ErrorIs(t, repo.AddAuctionConfig(ctx, config), domain.ErrAuctionConfigAlreadyExists)

	got, err := repo.GetAuctionConfig(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, config, got)

	_, err = repo.GetAuctionConfig(ctx, 1)
	require.ErrorIs(t, err, domain.ErrAuctionConfigNotFound)
}

func testProposals(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.ProposalRepository()

	for _, id := range []uint64{2, 0, 1} {
		proposal := &domain.Proposal{
			ID: id,
			Action: domain.ProposalAction{
				Type:                    domain.ProposalActionUpdateAuctionParameters,
				UpdateAuctionParameters: &domain.AuctionConfig{ID: 1},
			},
			By:            randomAddress(),
			Owner:         randomAddress(),
			Slot:          10,
			EnactableSlot: 10 + domain.SlotsPerEpoch,
		}
		require.NoError(t, repo.AddProposal(ctx, proposal))
	}

	proposals, err := repo.GetAllProposals(ctx)
	require.NoError(t, err)
	require.Len(t, proposals, 3)
	for i, p := range proposals {
		require.Equal(t, uint64(i), p.ID)
	}

	enactedAt := uint64(500_000)
	err = repo.UpdateProposal(ctx, 1, func(p *domain.Proposal) (*domain.Proposal, error) {
		p.SlotEnactedAt = &enactedAt
		return p, nil
	})
	require.NoError(t, err)

	got, err := repo.GetProposal(ctx, 1)
	require.NoError(t, err)
	require.True(t, got.IsEnacted())
	require.Equal(t, enactedAt, *got.SlotEnactedAt)
	require.Equal(t, uint32(1), got.Action.UpdateAuctionParameters.ID)

	require.NoError(t, repo.DeleteProposal(ctx, 1))
	_, err = repo.GetProposal(ctx, 1)
	require.ErrorIs(t, err, domain.ErrProposalNotFound)
	require.ErrorIs(t, repo.DeleteProposal(ctx, 1), domain.ErrProposalNotFound)
}

func testRouterEndpoints(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.RouterEndpointRepository()

	for _, chain := range []domain.ChainID{23, 2, 6} {
		endpoint, err := domain.NewRouterEndpoint(
			1, chain, randomAddress(), randomAddress(), domain.CctpProtocol(uint32(chain)),
		)
		require.NoError(t, err)
		require.NoError(t, repo.AddRouterEndpoint(ctx, endpoint))
		require.ErrorIs(t, repo.AddRouterEndpoint(ctx, endpoint), domain.ErrRouterEndpointAlreadyExists)
	}

	endpoints, err := repo.GetAllRouterEndpoints(ctx)
	require.NoError(t, err)
	require.Len(t, endpoints, 3)
	require.Equal(t, domain.ChainID(2), endpoints[0].Chain)
	require.Equal(t, domain.ChainID(23), endpoints[2].Chain)

	err = repo.UpdateRouterEndpoint(ctx, 6, func(e *domain.RouterEndpoint) (*domain.RouterEndpoint, error) {
		e.Disable()
		return e, nil
	})
	require.NoError(t, err)

	got, err := repo.GetRouterEndpoint(ctx, 6)
	require.NoError(t, err)
	require.False(t, got.IsEnabled())

	_, err = repo.GetRouterEndpoint(ctx, 99)
	require.ErrorIs(t, err, domain.ErrRouterEndpointNotFound)
}

func testAuctions(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.AuctionRepository()

	late, early, middle := newActiveAuction(300), newActiveAuction(100), newActiveAuction(200)
	for _, a := range []*domain.Auction{late, early, middle} {
		require.NoError(t, repo.AddAuction(ctx, a))
	}
	require.ErrorIs(t, repo.AddAuction(ctx, domain.NewAuction(early.VaaHash)), domain.ErrAuctionAlreadyStarted)

	got, err := repo.GetAuction(ctx, early.VaaHash)
	require.NoError(t, err)
	require.Equal(t, early, got)

	active, err := repo.GetActiveAuctions(ctx, 250)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, early.VaaHash, active[0].VaaHash)
	require.Equal(t, middle.VaaHash, active[1].VaaHash)

	penalty := uint64(77)
	err = repo.UpdateAuction(ctx, early.VaaHash, func(a *domain.Auction) (*domain.Auction, error) {
		a.Status = domain.AuctionStatus{
			Code: domain.AuctionStatusCompleted,
			Completed: &domain.CompletedStatus{
				Slot: 120, ExecutePenalty: &penalty, ExecutorToken: randomAddress(),
			},
		}
		return a, nil
	})
	require.NoError(t, err)

	active, err = repo.GetActiveAuctions(ctx, 1_000)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, middle.VaaHash, active[0].VaaHash)
	require.Equal(t, late.VaaHash, active[1].VaaHash)

	completed, err := repo.GetAuctionsByStatus(ctx, domain.AuctionStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, penalty, *completed[0].Status.Completed.ExecutePenalty)

	failing := errors.New("failing update")
	err = repo.UpdateAuction(ctx, late.VaaHash, func(a *domain.Auction) (*domain.Auction, error) {
		return nil, failing
	})
	require.ErrorIs(t, err, failing)

	_, err = repo.GetAuction(ctx, randomHash())
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)

	tombstone := domain.NewSettledNoneAuction(randomHash(), 1, domain.CctpProtocol(3), 10)
	require.NoError(t, repo.AddAuction(ctx, tombstone))
	got, err = repo.GetAuction(ctx, tombstone.VaaHash)
	require.NoError(t, err)
	require.Nil(t, got.Info)
	require.Equal(t, uint64(10), got.Status.Settled.Fee)
}

func testPreparedOrderResponses(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.PreparedOrderResponseRepository()

	hash := randomHash()
	response := &domain.PreparedOrderResponse{
		FastVaaHash:     hash,
		PreparedBy:      randomAddress(),
		SourceChain:     6,
		BaseFee:         1_000,
		CustodyToken:    domain.PreparedCustodyToken(hash),
		AmountIn:        1_000_000,
		TargetChain:     2,
		Sender:          randomAddress(),
		Redeemer:        randomAddress(),
		RedeemerMessage: []byte("gm"),
	}
	require.NoError(t, repo.AddPreparedOrderResponse(ctx, response))
	require.ErrorIs(t, repo.AddPreparedOrderResponse(ctx, response), domain.ErrPreparedOrderResponseAlreadyExists)

	got, err := repo.GetPreparedOrderResponse(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, response, got)

	require.NoError(t, repo.DeletePreparedOrderResponse(ctx, hash))
	_, err = repo.GetPreparedOrderResponse(ctx, hash)
	require.ErrorIs(t, err, domain.ErrPreparedOrderResponseNotFound)
	require.ErrorIs(t, repo.DeletePreparedOrderResponse(ctx, hash), domain.ErrPreparedOrderResponseNotFound)
}

func testRedeemedFastFills(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.RedeemedFastFillRepository()

	fill := &domain.RedeemedFastFill{
		VaaHash: randomHash(), Sequence: 3, Redeemer: randomAddress(), Amount: 10,
	}
	require.NoError(t, repo.AddRedeemedFastFill(ctx, fill))
	require.ErrorIs(t, repo.AddRedeemedFastFill(ctx, fill), domain.ErrFastFillAlreadyRedeemed)

	got, err := repo.GetRedeemedFastFill(ctx, fill.VaaHash)
	require.NoError(t, err)
	require.Equal(t, fill, got)

	_, err = repo.GetRedeemedFastFill(ctx, randomHash())
	require.ErrorIs(t, err, domain.ErrRedeemedFastFillNotFound)
}

func testUsedCctpNonces(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.UsedCctpNonceRepository()

	nonce := &domain.UsedCctpNonce{SourceDomain: 3, Nonce: 42, FastVaaHash: randomHash()}
	require.NoError(t, repo.AddUsedCctpNonce(ctx, nonce))

	replayed := &domain.UsedCctpNonce{SourceDomain: 3, Nonce: 42, FastVaaHash: randomHash()}
	require.ErrorIs(t, repo.AddUsedCctpNonce(ctx, replayed), domain.ErrCctpNonceAlreadyUsed)

	got, err := repo.GetUsedCctpNonce(ctx, 3, 42)
	require.NoError(t, err)
	require.Equal(t, nonce, got)

	// Same nonce from another domain is a different message.
	require.NoError(t, repo.AddUsedCctpNonce(ctx, &domain.UsedCctpNonce{SourceDomain: 4, Nonce: 42}))

	_, err = repo.GetUsedCctpNonce(ctx, 3, 43)
	require.ErrorIs(t, err, domain.ErrCctpNonceNotFound)
}

func testPayerSequences(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.PayerSequenceRepository()
	payer := randomAddress()

	seq, err := repo.GetPayerSequence(ctx, payer)
	require.NoError(t, err)
	require.Zero(t, seq.Value)

	for i := uint64(0); i < 3; i++ {
		var taken uint64
		err := repo.UpdatePayerSequence(ctx, payer, func(s *domain.PayerSequence) (*domain.PayerSequence, error) {
			taken = s.TakeAndUprank()
			return s, nil
		})
		require.NoError(t, err)
		require.Equal(t, i, taken)
	}

	seq, err = repo.GetPayerSequence(ctx, payer)
	require.NoError(t, err)
	require.Equal(t, uint64(3), seq.Value)
}

func testTokenAccounts(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	repo := repoManager.TokenAccountRepository()

	account, err := domain.NewTokenAccount(randomAddress(), randomAddress())
	require.NoError(t, err)
	require.NoError(t, repo.AddTokenAccount(ctx, account))

	err = repo.UpdateTokenAccount(ctx, account.Address, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
		return a, a.Credit(100)
	})
	require.NoError(t, err)

	// Adding an existing account fails and keeps its owner and balance.
	squatter, err := domain.NewTokenAccount(account.Address, randomAddress())
	require.NoError(t, err)
	require.ErrorIs(t, repo.AddTokenAccount(ctx, squatter), domain.ErrTokenAccountAlreadyExists)
	got, err := repo.GetTokenAccount(ctx, account.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got.Balance)
	require.Equal(t, account.Owner, got.Owner)

	err = repo.UpdateTokenAccount(ctx, account.Address, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
		return a, a.Debit(101)
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(t, repo.DeleteTokenAccount(ctx, account.Address))
	_, err = repo.GetTokenAccount(ctx, account.Address)
	require.ErrorIs(t, err, domain.ErrTokenAccountNotFound)

	err = repo.UpdateTokenAccount(ctx, account.Address, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
		return a, nil
	})
	require.ErrorIs(t, err, domain.ErrTokenAccountNotFound)
}

func testTransactionRollback(t *testing.T, repoManager repoManager) {
	ctx := context.Background()
	accounts := repoManager.TokenAccountRepository()

	account, err := domain.NewTokenAccount(randomAddress(), randomAddress())
	require.NoError(t, err)
	account.Balance = 1_000
	require.NoError(t, accounts.AddTokenAccount(ctx, account))

	auction := newActiveAuction(10)
	failing := errors.New("failing handler")

	_, err = repoManager.RunTransaction(ctx, false, func(ctx context.Context) (interface{}, error) {
		err := accounts.UpdateTokenAccount(ctx, account.Address, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			return a, a.Debit(400)
		})
		if err != nil {
			return nil, err
		}
		if err := repoManager.AuctionRepository().AddAuction(ctx, auction); err != nil {
			return nil, err
		}
		if err := repoManager.UsedCctpNonceRepository().AddUsedCctpNonce(
			ctx, &domain.UsedCctpNonce{SourceDomain: 9, Nonce: 1},
		); err != nil {
			return nil, err
		}
		return nil, failing
	})
	require.ErrorIs(t, err, failing)

	got, err := accounts.GetTokenAccount(ctx, account.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), got.Balance)

	_, err = repoManager.AuctionRepository().GetAuction(ctx, auction.VaaHash)
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)

	_, err = repoManager.UsedCctpNonceRepository().GetUsedCctpNonce(ctx, 9, 1)
	require.ErrorIs(t, err, domain.ErrCctpNonceNotFound)

	res, err := repoManager.RunTransaction(ctx, false, func(ctx context.Context) (interface{}, error) {
		err := accounts.UpdateTokenAccount(ctx, account.Address, func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			return a, a.Debit(400)
		})
		return "done", err
	})
	require.NoError(t, err)
	require.Equal(t, "done", res)

	got, err = accounts.GetTokenAccount(ctx, account.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(600), got.Balance)
}
