package application

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// AccountService defines the methods of the application layer for the token
// accounts that bidders, executors and the fee recipient use on the engine
// ledger.
type AccountService interface {
	OpenTokenAccount(
		ctx context.Context, signer domain.Address, args OpenTokenAccountArgs,
	) (*domain.TokenAccount, error)
	GetTokenAccount(ctx context.Context, address domain.Address) (*domain.TokenAccount, error)
	Transfer(ctx context.Context, signer domain.Address, args TransferArgs) error
	// Mint credits test tokens. Only the owner can mint and only if the
	// faucet is enabled.
	Mint(ctx context.Context, signer domain.Address, args MintArgs) error
}

type accountService struct {
	*engine
	faucetEnabled bool
}

func newAccountService(engine *engine, faucetEnabled bool) AccountService {
	return &accountService{engine, faucetEnabled}
}

func (s *accountService) OpenTokenAccount(
	ctx context.Context, signer domain.Address, args OpenTokenAccountArgs,
) (*domain.TokenAccount, error) {
	if domain.IsDerivedAddress(args.Address) {
		return nil, domain.ErrDerivedAddress
	}
	res, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		if err := s.ensureAccount(ctx, args.Address, signer); err != nil {
			return nil, err
		}
		return s.repoManager.TokenAccountRepository().GetTokenAccount(ctx, args.Address)
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.TokenAccount), nil
}

func (s *accountService) GetTokenAccount(
	ctx context.Context, address domain.Address,
) (*domain.TokenAccount, error) {
	return s.repoManager.TokenAccountRepository().GetTokenAccount(ctx, address)
}

func (s *accountService) Transfer(
	ctx context.Context, signer domain.Address, args TransferArgs,
) error {
	if args.Amount == 0 {
		return domain.ErrZeroAmount
	}
	_, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		if err := s.requireTokenOwner(ctx, args.From, signer); err != nil {
			return nil, err
		}
		return nil, s.transfer(ctx, args.From, args.To, args.Amount)
	})
	return err
}

func (s *accountService) Mint(
	ctx context.Context, signer domain.Address, args MintArgs,
) error {
	if !s.faucetEnabled {
		return ErrFaucetDisabled
	}
	if args.Amount == 0 {
		return domain.ErrZeroAmount
	}
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if !custodian.IsOwner(signer) {
			return nil, domain.ErrOwnerOnly
		}
		return nil, s.mint(ctx, args.To, args.Amount)
	}); err != nil {
		return err
	}

	log.Debugf("minted %d to %s", args.Amount, args.To)
	return nil
}
