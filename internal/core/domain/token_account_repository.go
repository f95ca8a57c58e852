package domain

import "context"

// TokenAccountRepository is the ledger of token balances touched by the
// engine.
type TokenAccountRepository interface {
	// AddTokenAccount returns ErrTokenAccountAlreadyExists if the account
	// already exists.
	AddTokenAccount(ctx context.Context, account *TokenAccount) error
	// GetTokenAccount returns ErrTokenAccountNotFound if missing.
	GetTokenAccount(ctx context.Context, address Address) (*TokenAccount, error)
	UpdateTokenAccount(
		ctx context.Context, address Address,
		updateFn func(a *TokenAccount) (*TokenAccount, error),
	) error
	DeleteTokenAccount(ctx context.Context, address Address) error
}
