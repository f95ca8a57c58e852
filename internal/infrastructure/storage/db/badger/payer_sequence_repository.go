package dbbadger

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	var seq domain.PayerSequence
	if err := r.store.get(ctx, payer.String(), &seq); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &domain.PayerSequence{Payer: payer}, nil
		}
		return nil, err
	}
	return &seq, nil
}

func (r *payerSequenceRepositoryImpl) UpdatePayerSequence(
	ctx context.Context, payer domain.Address,
	updateFn func(s *domain.PayerSequence) (*domain.PayerSequence, error),
) error {
	seq, err := r.GetPayerSequence(ctx, payer)
	if err != nil {
		return err
	}
	updated, err := updateFn(seq)
	if err != nil {
		return err
	}
	return r.store.upsert(ctx, payer.String(), *updated)
}
