package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type proposalRepositoryImpl struct {
	store *store
}

func newProposalRepositoryImpl(store *store) domain.ProposalRepository {
	return &proposalRepositoryImpl{store}
}

func (r *proposalRepositoryImpl) AddProposal(
	ctx context.Context, proposal *domain.Proposal,
) error {
	return r.store.upsert(ctx, proposal.ID, *proposal)
}

func (r *proposalRepositoryImpl) GetProposal(
	ctx context.Context, id uint64,
) (*domain.Proposal, error) {
	var proposal domain.Proposal
	if err := r.store.get(ctx, id, &proposal); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepositoryImpl) GetAllProposals(
	ctx context.Context,
) ([]*domain.Proposal, error) {
	var proposals []domain.Proposal
	if err := r.store.find(ctx, &proposals, nil); err != nil {
		return nil, err
	}

	res := make([]*domain.Proposal, 0, len(proposals))
	for i := range proposals {
		res = append(res, &proposals[i])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (r *proposalRepositoryImpl) UpdateProposal(
	ctx context.Context, id uint64,
	updateFn func(p *domain.Proposal) (*domain.Proposal, error),
) error {
	proposal, err := r.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	updated, err := updateFn(proposal)
	if err != nil {
		return err
	}
	return r.store.update(ctx, id, *updated)
}

func (r *proposalRepositoryImpl) DeleteProposal(
	ctx context.Context, id uint64,
) error {
	if err := r.store.delete(ctx, id, domain.Proposal{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrProposalNotFound
		}
		return err
	}
	return nil
}
