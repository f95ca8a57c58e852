package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const custodianKey = "custodian"

type custodianRepositoryImpl struct {
	store *store
}

func newCustodianRepositoryImpl(store *store) domain.CustodianRepository {
	return &custodianRepositoryImpl{store}
}

func (r *custodianRepositoryImpl) GetCustodian(
	ctx context.Context,
) (*domain.Custodian, error) {
	var custodian domain.Custodian
	if err := r.store.get(ctx, custodianKey, &custodian); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCustodianNotInitialized
		}
		return nil, err
	}
	return &custodian, nil
}

func (r *custodianRepositoryImpl) AddCustodian(
	ctx context.Context, custodian *domain.Custodian,
) error {
	if err := r.store.insert(ctx, custodianKey, *custodian); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrCustodianAlreadyInitialized
		}
		return err
	}
	return nil
}

func (r *custodianRepositoryImpl) UpdateCustodian(
	ctx context.Context,
	updateFn func(c *domain.Custodian) (*domain.Custodian, error),
) error {
	custodian, err := r.GetCustodian(ctx)
	if err != nil {
		return err
	}
	updated, err := updateFn(custodian)
	if err != nil {
		return err
	}
	return r.store.update(ctx, custodianKey, *updated)
}
