package domain

import "context"

// ProposalRepository ...
type ProposalRepository interface {
	AddProposal(ctx context.Context, proposal *Proposal) error
	// GetProposal returns ErrProposalNotFound if missing.
	GetProposal(ctx context.Context, id uint64) (*Proposal, error)
	GetAllProposals(ctx context.Context) ([]*Proposal, error)
	UpdateProposal(
		ctx context.Context, id uint64,
		updateFn func(p *Proposal) (*Proposal, error),
	) error
	DeleteProposal(ctx context.Context, id uint64) error
}
