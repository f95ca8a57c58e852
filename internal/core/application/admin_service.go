package application

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/mathutil"
	log "github.com/sirupsen/logrus"
)

// AdminService defines the methods of the application layer for the
// administration of the engine: global configuration, router registry and
// auction parameters governance, plus their read model.
type AdminService interface {
	Initialize(ctx context.Context, signer domain.Address, args InitializeArgs) error
	SetPause(ctx context.Context, signer domain.Address, paused bool) error
	SubmitOwnershipTransferRequest(
		ctx context.Context, signer, newOwner domain.Address,
	) error
	ConfirmOwnershipTransferRequest(ctx context.Context, signer domain.Address) error
	CancelOwnershipTransferRequest(ctx context.Context, signer domain.Address) error
	UpdateOwnerAssistant(ctx context.Context, signer, newAssistant domain.Address) error
	UpdateFeeRecipient(ctx context.Context, signer, newFeeRecipientToken domain.Address) error

	AddRouterEndpoint(
		ctx context.Context, signer domain.Address, args RouterEndpointArgs,
	) (*domain.RouterEndpoint, error)
	UpdateRouterEndpoint(
		ctx context.Context, signer domain.Address, args RouterEndpointArgs,
	) (*domain.RouterEndpoint, error)
	DisableRouterEndpoint(
		ctx context.Context, signer domain.Address, chain domain.ChainID,
	) error

	ProposeAuctionParameters(
		ctx context.Context, signer domain.Address, params domain.AuctionParameters,
	) (*domain.Proposal, error)
	UpdateAuctionParameters(
		ctx context.Context, signer domain.Address, proposalID uint64,
	) (*domain.AuctionConfig, error)
	CloseProposal(ctx context.Context, signer domain.Address, proposalID uint64) error

	GetCustodian(ctx context.Context) (*domain.Custodian, error)
	GetAuctionConfig(ctx context.Context, id uint32) (*domain.AuctionConfig, error)
	GetActiveAuctionConfig(ctx context.Context) (*domain.AuctionConfig, error)
	GetRouterEndpoint(ctx context.Context, chain domain.ChainID) (*domain.RouterEndpoint, error)
	ListRouterEndpoints(ctx context.Context) ([]*domain.RouterEndpoint, error)
	GetProposal(ctx context.Context, id uint64) (*domain.Proposal, error)
	ListProposals(ctx context.Context) ([]*domain.Proposal, error)
}

type adminService struct {
	*engine
}

func newAdminService(engine *engine) AdminService {
	return &adminService{engine}
}

func (s *adminService) Initialize(
	ctx context.Context, signer domain.Address, args InitializeArgs,
) error {
	if signer != s.upgradeAuthority {
		return domain.ErrNotUpgradeAuthority
	}
	if err := args.AuctionParameters.Validate(); err != nil {
		return err
	}

	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := domain.NewCustodian(
			signer, args.OwnerAssistant, args.FeeRecipientToken,
		)
		if err != nil {
			return nil, err
		}
		if err := s.requireTokenAccount(ctx, args.FeeRecipientToken); err != nil {
			return nil, fmt.Errorf("fee recipient: %w", err)
		}
		if err := s.repoManager.CustodianRepository().AddCustodian(
			ctx, custodian,
		); err != nil {
			return nil, err
		}
		return nil, s.repoManager.AuctionConfigRepository().AddAuctionConfig(
			ctx, &domain.AuctionConfig{
				ID:         custodian.AuctionConfigID,
				Parameters: args.AuctionParameters,
			},
		)
	}); err != nil {
		return err
	}

	log.Infof("engine initialized by %s", signer)
	s.emit(TopicCustodianUpdated, map[string]interface{}{
		"action": "initialize",
		"owner":  signer.String(),
	})
	return nil
}

func (s *adminService) SetPause(
	ctx context.Context, signer domain.Address, paused bool,
) error {
	return s.updateCustodian(ctx, "set_pause", func(c *domain.Custodian) error {
		return c.SetPause(signer, paused)
	})
}

func (s *adminService) SubmitOwnershipTransferRequest(
	ctx context.Context, signer, newOwner domain.Address,
) error {
	return s.updateCustodian(
		ctx, "submit_ownership_transfer", func(c *domain.Custodian) error {
			return c.SubmitOwnershipTransfer(signer, newOwner)
		},
	)
}

func (s *adminService) ConfirmOwnershipTransferRequest(
	ctx context.Context, signer domain.Address,
) error {
	return s.updateCustodian(
		ctx, "confirm_ownership_transfer", func(c *domain.Custodian) error {
			return c.ConfirmOwnershipTransfer(signer)
		},
	)
}

func (s *adminService) CancelOwnershipTransferRequest(
	ctx context.Context, signer domain.Address,
) error {
	return s.updateCustodian(
		ctx, "cancel_ownership_transfer", func(c *domain.Custodian) error {
			return c.CancelOwnershipTransfer(signer)
		},
	)
}

func (s *adminService) UpdateOwnerAssistant(
	ctx context.Context, signer, newAssistant domain.Address,
) error {
	return s.updateCustodian(
		ctx, "update_owner_assistant", func(c *domain.Custodian) error {
			return c.UpdateOwnerAssistant(signer, newAssistant)
		},
	)
}

func (s *adminService) UpdateFeeRecipient(
	ctx context.Context, signer, newFeeRecipientToken domain.Address,
) error {
	return s.updateCustodian(
		ctx, "update_fee_recipient", func(c *domain.Custodian) error {
			if err := c.UpdateFeeRecipient(signer, newFeeRecipientToken); err != nil {
				return err
			}
			return s.requireTokenAccount(ctx, newFeeRecipientToken)
		},
	)
}

func (s *adminService) AddRouterEndpoint(
	ctx context.Context, signer domain.Address, args RouterEndpointArgs,
) (*domain.RouterEndpoint, error) {
	res, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if !custodian.IsOwnerOrAssistant(signer) {
			return nil, domain.ErrOwnerOrAssistantOnly
		}

		endpoint, err := domain.NewRouterEndpoint(
			s.localChain, args.Chain, args.Address, args.MintRecipient, args.Protocol,
		)
		if err != nil {
			return nil, err
		}
		if err := s.openLocalCustody(ctx, endpoint); err != nil {
			return nil, err
		}
		if err := s.repoManager.RouterEndpointRepository().AddRouterEndpoint(
			ctx, endpoint,
		); err != nil {
			return nil, err
		}
		return endpoint, nil
	})
	if err != nil {
		return nil, err
	}

	endpoint := res.(*domain.RouterEndpoint)
	log.Debugf("added %s router endpoint for chain %d", endpoint.Protocol.Type, endpoint.Chain)
	s.emitEndpoint("add", endpoint)
	return endpoint, nil
}

func (s *adminService) UpdateRouterEndpoint(
	ctx context.Context, signer domain.Address, args RouterEndpointArgs,
) (*domain.RouterEndpoint, error) {
	var endpoint *domain.RouterEndpoint
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if !custodian.IsOwner(signer) {
			return nil, domain.ErrOwnerOnly
		}

		return nil, s.repoManager.RouterEndpointRepository().UpdateRouterEndpoint(
			ctx, args.Chain,
			func(e *domain.RouterEndpoint) (*domain.RouterEndpoint, error) {
				if err := e.Update(
					s.localChain, args.Address, args.MintRecipient, args.Protocol,
				); err != nil {
					return nil, err
				}
				if err := s.openLocalCustody(ctx, e); err != nil {
					return nil, err
				}
				endpoint = e
				return e, nil
			},
		)
	}); err != nil {
		return nil, err
	}

	log.Debugf("updated router endpoint for chain %d", endpoint.Chain)
	s.emitEndpoint("update", endpoint)
	return endpoint, nil
}

func (s *adminService) DisableRouterEndpoint(
	ctx context.Context, signer domain.Address, chain domain.ChainID,
) error {
	var endpoint *domain.RouterEndpoint
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		if !custodian.IsOwner(signer) {
			return nil, domain.ErrOwnerOnly
		}

		return nil, s.repoManager.RouterEndpointRepository().UpdateRouterEndpoint(
			ctx, chain,
			func(e *domain.RouterEndpoint) (*domain.RouterEndpoint, error) {
				e.Disable()
				endpoint = e
				return e, nil
			},
		)
	}); err != nil {
		return err
	}

	log.Debugf("disabled router endpoint for chain %d", chain)
	s.emitEndpoint("disable", endpoint)
	return nil
}

func (s *adminService) ProposeAuctionParameters(
	ctx context.Context, signer domain.Address, params domain.AuctionParameters,
) (*domain.Proposal, error) {
	slot := s.clock.CurrentSlot()

	var proposal *domain.Proposal
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		if err := s.repoManager.CustodianRepository().UpdateCustodian(
			ctx, func(c *domain.Custodian) (*domain.Custodian, error) {
				p, err := domain.NewUpdateAuctionParametersProposal(
					c, signer, params, slot, s.enactDelay,
				)
				if err != nil {
					return nil, err
				}
				proposal = p
				return c, nil
			},
		); err != nil {
			return nil, err
		}
		return nil, s.repoManager.ProposalRepository().AddProposal(ctx, proposal)
	}); err != nil {
		return nil, err
	}

	log.Debugf(
		"proposal %d created, enactable at slot %d", proposal.ID, proposal.EnactableSlot,
	)
	s.emit(TopicProposalCreated, map[string]interface{}{
		"id":             proposal.ID,
		"by":             proposal.By.String(),
		"config_id":      proposal.Action.UpdateAuctionParameters.ID,
		"slot":           proposal.Slot,
		"enactable_slot": proposal.EnactableSlot,
		"parameters":     parametersPayload(params),
	})
	return proposal, nil
}

func (s *adminService) UpdateAuctionParameters(
	ctx context.Context, signer domain.Address, proposalID uint64,
) (*domain.AuctionConfig, error) {
	slot := s.clock.CurrentSlot()

	var config *domain.AuctionConfig
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		proposals := s.repoManager.ProposalRepository()
		proposal, err := proposals.GetProposal(ctx, proposalID)
		if err != nil {
			return nil, err
		}

		if err := s.repoManager.CustodianRepository().UpdateCustodian(
			ctx, func(c *domain.Custodian) (*domain.Custodian, error) {
				cfg, err := proposal.Enact(c, signer, slot)
				if err != nil {
					return nil, err
				}
				config = cfg
				return c, nil
			},
		); err != nil {
			return nil, err
		}

		if err := proposals.UpdateProposal(
			ctx, proposalID, func(p *domain.Proposal) (*domain.Proposal, error) {
				return proposal, nil
			},
		); err != nil {
			return nil, err
		}
		return nil, s.repoManager.AuctionConfigRepository().AddAuctionConfig(ctx, config)
	}); err != nil {
		return nil, err
	}

	log.Infof("auction parameters version %d enacted at slot %d", config.ID, slot)
	s.emit(TopicProposalEnacted, map[string]interface{}{
		"id":         proposalID,
		"config_id":  config.ID,
		"slot":       slot,
		"parameters": parametersPayload(config.Parameters),
	})
	return config, nil
}

func (s *adminService) CloseProposal(
	ctx context.Context, signer domain.Address, proposalID uint64,
) error {
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		custodian, err := s.repoManager.CustodianRepository().GetCustodian(ctx)
		if err != nil {
			return nil, err
		}
		proposals := s.repoManager.ProposalRepository()
		proposal, err := proposals.GetProposal(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		if err := proposal.CanClose(custodian, signer); err != nil {
			return nil, err
		}
		return nil, proposals.DeleteProposal(ctx, proposalID)
	}); err != nil {
		return err
	}

	s.emit(TopicProposalClosed, map[string]interface{}{"id": proposalID})
	return nil
}

func (s *adminService) GetCustodian(ctx context.Context) (*domain.Custodian, error) {
	return s.repoManager.CustodianRepository().GetCustodian(ctx)
}

func (s *adminService) GetAuctionConfig(
	ctx context.Context, id uint32,
) (*domain.AuctionConfig, error) {
	return s.getAuctionConfig(ctx, id)
}

func (s *adminService) GetActiveAuctionConfig(
	ctx context.Context,
) (*domain.AuctionConfig, error) {
	custodian, err := s.GetCustodian(ctx)
	if err != nil {
		return nil, err
	}
	return s.getAuctionConfig(ctx, custodian.AuctionConfigID)
}

func (s *adminService) GetRouterEndpoint(
	ctx context.Context, chain domain.ChainID,
) (*domain.RouterEndpoint, error) {
	return s.repoManager.RouterEndpointRepository().GetRouterEndpoint(ctx, chain)
}

func (s *adminService) ListRouterEndpoints(
	ctx context.Context,
) ([]*domain.RouterEndpoint, error) {
	return s.repoManager.RouterEndpointRepository().GetAllRouterEndpoints(ctx)
}

func (s *adminService) GetProposal(
	ctx context.Context, id uint64,
) (*domain.Proposal, error) {
	return s.repoManager.ProposalRepository().GetProposal(ctx, id)
}

func (s *adminService) ListProposals(ctx context.Context) ([]*domain.Proposal, error) {
	return s.repoManager.ProposalRepository().GetAllProposals(ctx)
}

func (s *adminService) updateCustodian(
	ctx context.Context, action string, fn func(c *domain.Custodian) error,
) error {
	if _, err := s.runTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, s.repoManager.CustodianRepository().UpdateCustodian(
			ctx, func(c *domain.Custodian) (*domain.Custodian, error) {
				if err := fn(c); err != nil {
					return nil, err
				}
				return c, nil
			},
		)
	}); err != nil {
		return err
	}

	log.Debugf("custodian updated: %s", action)
	s.emit(TopicCustodianUpdated, map[string]interface{}{"action": action})
	return nil
}

// openLocalCustody opens the custody account receiving the fast fills of a
// local endpoint. Other protocols need no account.
func (s *adminService) openLocalCustody(
	ctx context.Context, endpoint *domain.RouterEndpoint,
) error {
	if endpoint.Protocol.Type != domain.MessageProtocolLocal {
		return nil
	}
	return s.ensureAccount(ctx, endpoint.MintRecipient, endpoint.Protocol.ProgramID)
}

func (s *adminService) emitEndpoint(action string, endpoint *domain.RouterEndpoint) {
	s.emit(TopicRouterEndpointUpdated, map[string]interface{}{
		"action":         action,
		"chain":          endpoint.Chain,
		"address":        endpoint.Address.String(),
		"mint_recipient": endpoint.MintRecipient.String(),
		"protocol":       endpoint.Protocol.Type.String(),
	})
}

func parametersPayload(params domain.AuctionParameters) map[string]interface{} {
	return map[string]interface{}{
		"user_penalty_reward":   mathutil.BpsToPercentage(params.UserPenaltyRewardBps),
		"initial_penalty":       mathutil.BpsToPercentage(params.InitialPenaltyBps),
		"duration":              params.Duration,
		"grace_period":          params.GracePeriod,
		"penalty_period":        params.PenaltyPeriod,
		"min_offer_delta":       mathutil.BpsToPercentage(params.MinOfferDeltaBps),
		"security_deposit_base": params.SecurityDepositBase,
		"security_deposit_bps":  params.SecurityDepositBps,
	}
}
