package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type custodianRepositoryImpl struct {
	store *store
}

func newCustodianRepositoryImpl(store *store) domain.CustodianRepository {
	return &custodianRepositoryImpl{store}
}

func (r *custodianRepositoryImpl) GetCustodian(
	ctx context.Context,
) (*domain.Custodian, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.data.custodian == nil {
		return nil, domain.ErrCustodianNotInitialized
	}
	return cloneCustodian(r.store.data.custodian), nil
}

func (r *custodianRepositoryImpl) AddCustodian(
	ctx context.Context, custodian *domain.Custodian,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.data.custodian != nil {
		return domain.ErrCustodianAlreadyInitialized
	}
	r.store.data.custodian = cloneCustodian(custodian)
	return nil
}

func (r *custodianRepositoryImpl) UpdateCustodian(
	ctx context.Context,
	updateFn func(c *domain.Custodian) (*domain.Custodian, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.data.custodian == nil {
		return domain.ErrCustodianNotInitialized
	}
	updated, err := updateFn(cloneCustodian(r.store.data.custodian))
	if err != nil {
		return err
	}
	r.store.data.custodian = cloneCustodian(updated)
	return nil
}
