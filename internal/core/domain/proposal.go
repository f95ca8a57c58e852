package domain

// SlotsPerEpoch is the minimum delay between proposing and enacting new
// auction parameters.
const SlotsPerEpoch = uint64(432_000)

const (
	// ProposalActionNone is the zero action, it can never be enacted.
	ProposalActionNone ProposalActionType = iota
	// ProposalActionUpdateAuctionParameters replaces the auction parameters
	// in force with a new version.
	ProposalActionUpdateAuctionParameters
)

// ProposalActionType ...
type ProposalActionType uint8

// ProposalAction is the change a proposal applies once enacted.
type ProposalAction struct {
	Type ProposalActionType
	// Set for ProposalActionUpdateAuctionParameters.
	UpdateAuctionParameters *AuctionConfig
}

// Proposal is a time-locked change to the engine configuration.
type Proposal struct {
	ID            uint64
	Action        ProposalAction
	By            Address
	Owner         Address
	Slot          uint64
	EnactableSlot uint64
	SlotEnactedAt *uint64
}

// NewUpdateAuctionParametersProposal validates the given parameters and
// returns a proposal targeting the next parameters version. The proposal id
// is taken from the custodian counter.
func NewUpdateAuctionParametersProposal(
	custodian *Custodian, signer Address, params AuctionParameters,
	slot, enactDelay uint64,
) (*Proposal, error) {
	if !custodian.IsOwnerOrAssistant(signer) {
		return nil, ErrOwnerOrAssistantOnly
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if enactDelay < SlotsPerEpoch {
		enactDelay = SlotsPerEpoch
	}

	return &Proposal{
		ID: custodian.TakeProposalID(),
		Action: ProposalAction{
			Type: ProposalActionUpdateAuctionParameters,
			UpdateAuctionParameters: &AuctionConfig{
				ID:         custodian.AuctionConfigID + 1,
				Parameters: params,
			},
		},
		By:            signer,
		Owner:         custodian.Owner,
		Slot:          slot,
		EnactableSlot: slot + enactDelay,
	}, nil
}

// IsEnacted ...
func (p *Proposal) IsEnacted() bool {
	return p.SlotEnactedAt != nil
}

// Enact applies the proposal to the custodian and returns the auction config
// that becomes active.
func (p *Proposal) Enact(
	custodian *Custodian, signer Address, slot uint64,
) (*AuctionConfig, error) {
	if !custodian.IsOwner(signer) {
		return nil, ErrOwnerOnly
	}
	if p.IsEnacted() {
		return nil, ErrProposalAlreadyEnacted
	}
	if slot < p.EnactableSlot {
		return nil, ErrProposalDelayNotExpired
	}

	switch p.Action.Type {
	case ProposalActionUpdateAuctionParameters:
		config := p.Action.UpdateAuctionParameters
		if config == nil {
			return nil, ErrInvalidProposalAction
		}
		if config.ID != custodian.AuctionConfigID+1 {
			return nil, ErrAuctionConfigMismatch
		}
		custodian.AuctionConfigID = config.ID
		p.SlotEnactedAt = &slot
		return &AuctionConfig{ID: config.ID, Parameters: config.Parameters}, nil
	case ProposalActionNone:
		return nil, ErrInvalidProposalAction
	default:
		return nil, ErrInvalidProposalAction
	}
}

// CanClose returns whether the signer is allowed to close the proposal.
func (p *Proposal) CanClose(custodian *Custodian, signer Address) error {
	if !custodian.IsOwner(signer) {
		return ErrOwnerOnly
	}
	return nil
}
