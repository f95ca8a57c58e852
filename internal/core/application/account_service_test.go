package application_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestOpenTokenAccount(t *testing.T) {
	e := newTestEngine(t)
	owner, address := randomAddress(), randomAddress()

	account, err := e.accounts.OpenTokenAccount(
		e.ctx, owner, application.OpenTokenAccountArgs{Address: address},
	)
	require.NoError(t, err)
	require.Equal(t, address, account.Address)
	require.Equal(t, owner, account.Owner)
	require.Zero(t, account.Balance)

	// Opening again is a no-op for the owner.
	account, err = e.accounts.OpenTokenAccount(
		e.ctx, owner, application.OpenTokenAccountArgs{Address: address},
	)
	require.NoError(t, err)
	require.Equal(t, owner, account.Owner)

	_, err = e.accounts.OpenTokenAccount(
		e.ctx, randomAddress(), application.OpenTokenAccountArgs{Address: address},
	)
	require.ErrorIs(t, err, domain.ErrTokenOwnerMismatch)

	_, err = e.accounts.OpenTokenAccount(
		e.ctx, owner, application.OpenTokenAccountArgs{},
	)
	require.ErrorIs(t, err, domain.ErrMalformedAddress)

	hash := domain.Hash{0x01}
	for _, derived := range []domain.Address{
		domain.AuctionCustodyToken(hash),
		domain.PreparedCustodyToken(hash),
		domain.LocalCustodyToken(e.tokenRouterProgramID),
		domain.CctpMintRecipient(e.engineProgramID),
	} {
		_, err = e.accounts.OpenTokenAccount(
			e.ctx, owner, application.OpenTokenAccountArgs{Address: derived},
		)
		require.ErrorIs(t, err, domain.ErrDerivedAddress, derived.String())
	}
}

func TestCustodyAccountsCannotBeClaimed(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(targetChain, 0)
	attacker, solver := randomAddress(), randomAddress()
	solverToken := e.newFundedAccount(solver)

	auctionCustody := domain.AuctionCustodyToken(o.hash)
	preparedCustody := domain.PreparedCustodyToken(o.hash)
	for _, custody := range []domain.Address{auctionCustody, preparedCustody} {
		_, err := e.accounts.OpenTokenAccount(
			e.ctx, attacker, application.OpenTokenAccountArgs{Address: custody},
		)
		require.ErrorIs(t, err, domain.ErrDerivedAddress)
		e.requireClosed(custody)
	}

	// An escrow already held by someone else is never reused.
	accounts := e.repoManager.TokenAccountRepository()
	for _, custody := range []domain.Address{auctionCustody, preparedCustody} {
		squatted, err := domain.NewTokenAccount(custody, attacker)
		require.NoError(t, err)
		require.NoError(t, accounts.AddTokenAccount(e.ctx, squatted))
	}

	_, err := e.placeInitialOffer(o, solver, solverToken, maxFee)
	require.ErrorIs(t, err, domain.ErrTokenAccountAlreadyExists)
	require.Equal(t, initialFunds, e.balance(solverToken))
	require.Zero(t, e.balance(auctionCustody))

	_, err = e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), o.prepare)
	require.ErrorIs(t, err, domain.ErrTokenAccountAlreadyExists)
	require.Zero(t, e.balance(preparedCustody))

	for _, custody := range []domain.Address{auctionCustody, preparedCustody} {
		require.NoError(t, accounts.DeleteTokenAccount(e.ctx, custody))
	}

	auction, err := e.placeInitialOffer(o, solver, solverToken, maxFee)
	require.NoError(t, err)
	require.Equal(t, auctionCustody, auction.Info.CustodyToken)
	require.Equal(t, stake, e.balance(auctionCustody))

	custody, err := accounts.GetTokenAccount(e.ctx, auctionCustody)
	require.NoError(t, err)
	require.Equal(t, e.engineProgramID, custody.Owner)

	// The failed prepare did not consume the cctp message.
	response, err := e.settlement.PrepareOrderResponse(e.ctx, randomAddress(), o.prepare)
	require.NoError(t, err)
	require.Equal(t, amountIn, e.balance(response.CustodyToken))
}

func TestMint(t *testing.T) {
	e := newTestEngine(t)
	token := e.newAccount(randomAddress())

	tests := []struct {
		name          string
		signer        domain.Address
		args          application.MintArgs
		expectedError error
	}{
		{
			name:          "not the owner",
			signer:        e.assistant,
			args:          application.MintArgs{To: token, Amount: 1},
			expectedError: domain.ErrOwnerOnly,
		},
		{
			name:          "zero amount",
			signer:        e.owner,
			args:          application.MintArgs{To: token},
			expectedError: domain.ErrZeroAmount,
		},
		{
			name:          "unknown account",
			signer:        e.owner,
			args:          application.MintArgs{To: randomAddress(), Amount: 1},
			expectedError: domain.ErrTokenAccountNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := e.accounts.Mint(e.ctx, tt.signer, tt.args)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	require.NoError(t, e.accounts.Mint(e.ctx, e.owner, application.MintArgs{
		To: token, Amount: 42,
	}))
	require.Equal(t, uint64(42), e.balance(token))

	t.Run("faucet disabled", func(t *testing.T) {
		cfg := &application.Config{
			RepoManager:          e.repoManager,
			Clock:                e.slotClock,
			CctpTransmitter:      e.transmitter,
			MessagePublisher:     e.publisher,
			LocalChain:           localChain,
			UpgradeAuthority:     e.owner,
			EngineProgramID:      e.engineProgramID,
			TokenRouterProgramID: e.tokenRouterProgramID,
		}
		err := cfg.AccountService().Mint(e.ctx, e.owner, application.MintArgs{
			To: token, Amount: 1,
		})
		require.ErrorIs(t, err, application.ErrFaucetDisabled)
		require.Equal(t, uint64(42), e.balance(token))
	})
}

func TestTransfer(t *testing.T) {
	e := newTestEngine(t)
	owner := randomAddress()
	from := e.newFundedAccount(owner)
	to := e.newAccount(randomAddress())

	tests := []struct {
		name          string
		signer        domain.Address
		args          application.TransferArgs
		expectedError error
	}{
		{
			name:          "not the owner",
			signer:        randomAddress(),
			args:          application.TransferArgs{From: from, To: to, Amount: 1},
			expectedError: domain.ErrTokenOwnerMismatch,
		},
		{
			name:          "zero amount",
			signer:        owner,
			args:          application.TransferArgs{From: from, To: to},
			expectedError: domain.ErrZeroAmount,
		},
		{
			name:          "insufficient funds",
			signer:        owner,
			args:          application.TransferArgs{From: from, To: to, Amount: initialFunds + 1},
			expectedError: domain.ErrInsufficientFunds,
		},
		{
			name:          "unknown recipient",
			signer:        owner,
			args:          application.TransferArgs{From: from, To: randomAddress(), Amount: 1},
			expectedError: domain.ErrTokenAccountNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := e.accounts.Transfer(e.ctx, tt.signer, tt.args)
			require.ErrorIs(t, err, tt.expectedError)
			require.Equal(t, initialFunds, e.balance(from))
		})
	}

	require.NoError(t, e.accounts.Transfer(e.ctx, owner, application.TransferArgs{
		From: from, To: to, Amount: 1_000,
	}))
	require.Equal(t, initialFunds-1_000, e.balance(from))
	require.Equal(t, uint64(1_000), e.balance(to))
}
