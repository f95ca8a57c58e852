package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	if err := r.store.insert(ctx, account.Address.String(), *account); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrTokenAccountAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tokenAccountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address domain.Address,
) (*domain.TokenAccount, error) {
	var account domain.TokenAccount
	if err := r.store.get(ctx, address.String(), &account); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTokenAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *tokenAccountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context, address domain.Address,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	account, err := r.GetTokenAccount(ctx, address)
	if err != nil {
		return err
	}
	updated, err := updateFn(account)
	if err != nil {
		return err
	}
	return r.store.update(ctx, address.String(), *updated)
}

func (r *tokenAccountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address domain.Address,
) error {
	err := r.store.delete(ctx, address.String(), domain.TokenAccount{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return err
	}
	return nil
}
