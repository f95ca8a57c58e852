package inmemory

import "github.com/fastfill-network/matching-engine/internal/core/domain"

func cloneUint64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneCustodian(c *domain.Custodian) *domain.Custodian {
	clone := *c
	if c.PendingOwner != nil {
		pendingOwner := *c.PendingOwner
		clone.PendingOwner = &pendingOwner
	}
	return &clone
}

func cloneAuctionConfig(c *domain.AuctionConfig) *domain.AuctionConfig {
	clone := *c
	return &clone
}

func cloneProposal(p *domain.Proposal) *domain.Proposal {
	clone := *p
	if p.Action.UpdateAuctionParameters != nil {
		clone.Action.UpdateAuctionParameters = cloneAuctionConfig(
			p.Action.UpdateAuctionParameters,
		)
	}
	clone.SlotEnactedAt = cloneUint64(p.SlotEnactedAt)
	return &clone
}

func cloneRouterEndpoint(e *domain.RouterEndpoint) *domain.RouterEndpoint {
	clone := *e
	return &clone
}

func cloneAuction(a *domain.Auction) *domain.Auction {
	clone := *a
	if a.Info != nil {
		info := *a.Info
		clone.Info = &info
	}
	if a.Status.Completed != nil {
		completed := *a.Status.Completed
		completed.ExecutePenalty = cloneUint64(completed.ExecutePenalty)
		clone.Status.Completed = &completed
	}
	if a.Status.Settled != nil {
		settled := *a.Status.Settled
		settled.TotalPenalty = cloneUint64(settled.TotalPenalty)
		clone.Status.Settled = &settled
	}
	return &clone
}

func clonePreparedOrderResponse(
	p *domain.PreparedOrderResponse,
) *domain.PreparedOrderResponse {
	clone := *p
	if p.RedeemerMessage != nil {
		clone.RedeemerMessage = append([]byte{}, p.RedeemerMessage...)
	}
	return &clone
}

func cloneRedeemedFastFill(f *domain.RedeemedFastFill) *domain.RedeemedFastFill {
	clone := *f
	return &clone
}

func clonePayerSequence(s *domain.PayerSequence) *domain.PayerSequence {
	clone := *s
	return &clone
}

func cloneTokenAccount(a *domain.TokenAccount) *domain.TokenAccount {
	clone := *a
	return &clone
}
