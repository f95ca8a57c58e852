package domain

import "github.com/fastfill-network/matching-engine/pkg/mathutil"

// TokenAccount is a balance of the bridged token held by an owner. Engine
// custody accounts are owned by the engine program itself.
type TokenAccount struct {
	Address Address
	Owner   Address
	Balance uint64
}

// NewTokenAccount ...
func NewTokenAccount(address, owner Address) (*TokenAccount, error) {
	if IsZeroAddress(address) {
		return nil, ErrMalformedAddress
	}
	return &TokenAccount{Address: address, Owner: owner}, nil
}

// Credit ...
func (a *TokenAccount) Credit(amount uint64) error {
	balance, overflow := mathutil.CheckedAdd(a.Balance, amount)
	if overflow {
		return ErrAmountOverflow
	}
	a.Balance = balance
	return nil
}

// Debit ...
func (a *TokenAccount) Debit(amount uint64) error {
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}
