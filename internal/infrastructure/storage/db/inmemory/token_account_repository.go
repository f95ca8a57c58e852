package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type tokenAccountRepositoryImpl struct {
	store *store
}

func newTokenAccountRepositoryImpl(store *store) domain.TokenAccountRepository {
	return &tokenAccountRepositoryImpl{store}
}

func (r *tokenAccountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.tokenAccounts[account.Address]; ok {
		return domain.ErrTokenAccountAlreadyExists
	}
	r.store.data.tokenAccounts[account.Address] = cloneTokenAccount(account)
	return nil
}

func (r *tokenAccountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address domain.Address,
) (*domain.TokenAccount, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	account, ok := r.store.data.tokenAccounts[address]
	if !ok {
		return nil, domain.ErrTokenAccountNotFound
	}
	return cloneTokenAccount(account), nil
}

func (r *tokenAccountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context, address domain.Address,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	account, ok := r.store.data.tokenAccounts[address]
	if !ok {
		return domain.ErrTokenAccountNotFound
	}
	updated, err := updateFn(cloneTokenAccount(account))
	if err != nil {
		return err
	}
	r.store.data.tokenAccounts[address] = cloneTokenAccount(updated)
	return nil
}

func (r *tokenAccountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address domain.Address,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	delete(r.store.data.tokenAccounts, address)
	return nil
}
