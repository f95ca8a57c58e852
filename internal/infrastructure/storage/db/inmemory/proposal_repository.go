package inmemory

import (
	"context"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
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
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.data.proposals[proposal.ID] = cloneProposal(proposal)
	return nil
}

func (r *proposalRepositoryImpl) GetProposal(
	ctx context.Context, id uint64,
) (*domain.Proposal, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	proposal, ok := r.store.data.proposals[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (r *proposalRepositoryImpl) GetAllProposals(
	ctx context.Context,
) ([]*domain.Proposal, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	proposals := make([]*domain.Proposal, 0, len(r.store.data.proposals))
	for _, p := range r.store.data.proposals {
		proposals = append(proposals, cloneProposal(p))
	}
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].ID < proposals[j].ID
	})
	return proposals, nil
}

func (r *proposalRepositoryImpl) UpdateProposal(
	ctx context.Context, id uint64,
	updateFn func(p *domain.Proposal) (*domain.Proposal, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	proposal, ok := r.store.data.proposals[id]
	if !ok {
		return domain.ErrProposalNotFound
	}
	updated, err := updateFn(cloneProposal(proposal))
	if err != nil {
		return err
	}
	r.store.data.proposals[id] = cloneProposal(updated)
	return nil
}

func (r *proposalRepositoryImpl) DeleteProposal(
	ctx context.Context, id uint64,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.proposals[id]; !ok {
		return domain.ErrProposalNotFound
	}
	delete(r.store.data.proposals, id)
	return nil
}
