package inmemory

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type payerSequenceRepositoryImpl struct {
	store *store
}

func newPayerSequenceRepositoryImpl(store *store) domain.PayerSequenceRepository {
	return &payerSequenceRepositoryImpl{store}
}

func (r *payerSequenceRepositoryImpl) GetPayerSequence(
	ctx context.Context, payer domain.Address,
) (*domain.PayerSequence, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	return r.getOrCreate(payer), nil
}

func (r *payerSequenceRepositoryImpl) UpdatePayerSequence(
	ctx context.Context, payer domain.Address,
	updateFn func(s *domain.PayerSequence) (*domain.PayerSequence, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	updated, err := updateFn(r.getOrCreate(payer))
	if err != nil {
		return err
	}
	r.store.data.payerSequences[payer] = clonePayerSequence(updated)
	return nil
}

func (r *payerSequenceRepositoryImpl) getOrCreate(
	payer domain.Address,
) *domain.PayerSequence {
	if seq, ok := r.store.data.payerSequences[payer]; ok {
		return clonePayerSequence(seq)
	}
	return &domain.PayerSequence{Payer: payer}
}
