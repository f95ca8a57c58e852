package grpchandler

import (
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type auctionParameters domain.AuctionParameters

func (p auctionParameters) toApi() api.AuctionParameters {
	return api.AuctionParameters{
		UserPenaltyRewardBps: p.UserPenaltyRewardBps,
		InitialPenaltyBps:    p.InitialPenaltyBps,
		Duration:             p.Duration,
		GracePeriod:          p.GracePeriod,
		PenaltyPeriod:        p.PenaltyPeriod,
		MinOfferDeltaBps:     p.MinOfferDeltaBps,
		SecurityDepositBase:  p.SecurityDepositBase,
		SecurityDepositBps:   p.SecurityDepositBps,
	}
}

type auctionConfigInfo domain.AuctionConfig

func (c auctionConfigInfo) toApi() api.AuctionConfig {
	return api.AuctionConfig{
		ID:         c.ID,
		Parameters: auctionParameters(c.Parameters).toApi(),
	}
}

type custodianInfo domain.Custodian

func (c custodianInfo) toApi() api.Custodian {
	custodian := api.Custodian{
		Owner:             c.Owner.String(),
		OwnerAssistant:    c.OwnerAssistant.String(),
		FeeRecipientToken: c.FeeRecipientToken.String(),
		Paused:            c.Paused,
		PausedSetBy:       c.PausedSetBy.String(),
		AuctionConfigID:   c.AuctionConfigID,
		NextProposalID:    c.NextProposalID,
	}
	if c.PendingOwner != nil {
		custodian.PendingOwner = c.PendingOwner.String()
	}
	return custodian
}

type routerEndpointInfo domain.RouterEndpoint

func (e routerEndpointInfo) toApi() api.RouterEndpoint {
	endpoint := api.RouterEndpoint{
		Chain:         uint16(e.Chain),
		Address:       e.Address.String(),
		MintRecipient: e.MintRecipient.String(),
		Protocol:      e.Protocol.Type.String(),
	}
	switch e.Protocol.Type {
	case domain.MessageProtocolLocal:
		endpoint.ProgramID = e.Protocol.ProgramID.String()
	case domain.MessageProtocolCctp:
		endpoint.Domain = e.Protocol.Domain
	}
	return endpoint
}

type routerEndpointList []*domain.RouterEndpoint

func (l routerEndpointList) toApi() []api.RouterEndpoint {
	list := make([]api.RouterEndpoint, 0, len(l))
	for _, e := range l {
		list = append(list, routerEndpointInfo(*e).toApi())
	}
	return list
}

type proposalInfo domain.Proposal

func (p proposalInfo) toApi() api.Proposal {
	proposal := api.Proposal{
		ID:            p.ID,
		Action:        "none",
		By:            p.By.String(),
		Owner:         p.Owner.String(),
		Slot:          p.Slot,
		EnactableSlot: p.EnactableSlot,
		SlotEnactedAt: p.SlotEnactedAt,
	}
	if p.Action.Type == domain.ProposalActionUpdateAuctionParameters &&
		p.Action.UpdateAuctionParameters != nil {
		params := auctionParameters(p.Action.UpdateAuctionParameters.Parameters).toApi()
		proposal.Action = "update_auction_parameters"
		proposal.ConfigID = p.Action.UpdateAuctionParameters.ID
		proposal.Parameters = &params
	}
	return proposal
}

type proposalList []*domain.Proposal

func (l proposalList) toApi() []api.Proposal {
	list := make([]api.Proposal, 0, len(l))
	for _, p := range l {
		list = append(list, proposalInfo(*p).toApi())
	}
	return list
}

type auctionInfo domain.Auction

func (a auctionInfo) toApi() api.Auction {
	auction := api.Auction{
		VaaHash:      a.VaaHash.String(),
		VaaTimestamp: a.VaaTimestamp,
		TargetProtocol: api.RouterProtocol{
			Type: a.TargetProtocol.Type.String(),
		},
		Status: api.AuctionStatus{Code: a.Status.Code.String()},
	}
	switch a.TargetProtocol.Type {
	case domain.MessageProtocolLocal:
		auction.TargetProtocol.ProgramID = a.TargetProtocol.ProgramID.String()
	case domain.MessageProtocolCctp:
		auction.TargetProtocol.Domain = a.TargetProtocol.Domain
	}
	if c := a.Status.Completed; c != nil {
		auction.Status.Completed = &api.CompletedStatus{
			Slot:           c.Slot,
			ExecutePenalty: c.ExecutePenalty,
			ExecutorToken:  c.ExecutorToken.String(),
		}
	}
	if s := a.Status.Settled; s != nil {
		auction.Status.Settled = &api.SettledStatus{
			Fee:          s.Fee,
			TotalPenalty: s.TotalPenalty,
		}
	}
	if i := a.Info; i != nil {
		auction.Info = &api.AuctionInfo{
			ConfigID:          i.ConfigID,
			CustodyToken:      i.CustodyToken.String(),
			VaaSequence:       i.VaaSequence,
			SourceChain:       uint16(i.SourceChain),
			BestOfferToken:    i.BestOfferToken.String(),
			InitialOfferToken: i.InitialOfferToken.String(),
			StartSlot:         i.StartSlot,
			AmountIn:          i.AmountIn,
			SecurityDeposit:   i.SecurityDeposit,
			OfferPrice:        i.OfferPrice,
			AmountOut:         i.AmountOut,
		}
	}
	return auction
}

type auctionList []*domain.Auction

func (l auctionList) toApi() []api.Auction {
	list := make([]api.Auction, 0, len(l))
	for _, a := range l {
		list = append(list, auctionInfo(*a).toApi())
	}
	return list
}

type preparedOrderResponseInfo domain.PreparedOrderResponse

func (r preparedOrderResponseInfo) toApi() api.PreparedOrderResponse {
	return api.PreparedOrderResponse{
		FastVaaHash:      r.FastVaaHash.String(),
		FastVaaTimestamp: r.FastVaaTimestamp,
		PreparedBy:       r.PreparedBy.String(),
		SourceChain:      uint16(r.SourceChain),
		BaseFee:          r.BaseFee,
		CustodyToken:     r.CustodyToken.String(),
		AmountIn:         r.AmountIn,
		InitAuctionFee:   r.InitAuctionFee,
		TargetChain:      uint16(r.TargetChain),
		Sender:           r.Sender.String(),
		Redeemer:         r.Redeemer.String(),
		RedeemerMessage:  r.RedeemerMessage,
	}
}

type payoutList []domain.Payout

func (l payoutList) toApi() []api.Payout {
	list := make([]api.Payout, 0, len(l))
	for _, p := range l {
		list = append(list, api.Payout{Token: p.Token.String(), Amount: p.Amount})
	}
	return list
}

type redeemedFastFillInfo domain.RedeemedFastFill

func (f redeemedFastFillInfo) toApi() api.RedeemedFastFill {
	return api.RedeemedFastFill{
		VaaHash:  f.VaaHash.String(),
		Sequence: f.Sequence,
		Redeemer: f.Redeemer.String(),
		Amount:   f.Amount,
	}
}

type tokenAccountInfo domain.TokenAccount

func (a tokenAccountInfo) toApi() api.TokenAccount {
	return api.TokenAccount{
		Address: a.Address.String(),
		Owner:   a.Owner.String(),
		Balance: a.Balance,
	}
}

type webhookList []ports.Subscription

func (l webhookList) toApi() []api.Webhook {
	list := make([]api.Webhook, 0, len(l))
	for _, s := range l {
		list = append(list, api.Webhook{
			Id:        s.Id(),
			Topic:     s.Topic(),
			Endpoint:  s.NotifyAt(),
			IsSecured: s.IsSecured(),
		})
	}
	return list
}
