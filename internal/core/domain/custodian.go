package domain

// Custodian is the singleton holding the global configuration of the engine:
// who administers it, whether bidding is paused, where protocol fees go and
// which auction parameters are in force.
type Custodian struct {
	Owner             Address
	PendingOwner      *Address
	OwnerAssistant    Address
	FeeRecipientToken Address
	Paused            bool
	PausedSetBy       Address
	AuctionConfigID   uint32
	NextProposalID    uint64
}

// NewCustodian returns the configuration of a freshly initialized engine.
// The deployer becomes the owner.
func NewCustodian(
	owner, ownerAssistant, feeRecipientToken Address,
) (*Custodian, error) {
	if IsZeroAddress(owner) {
		return nil, ErrInvalidNewOwner
	}
	if IsZeroAddress(ownerAssistant) {
		return nil, ErrAssistantZeroAddress
	}
	if IsZeroAddress(feeRecipientToken) {
		return nil, ErrFeeRecipientZeroAddress
	}
	return &Custodian{
		Owner:             owner,
		OwnerAssistant:    ownerAssistant,
		FeeRecipientToken: feeRecipientToken,
	}, nil
}

// IsOwner ...
func (c *Custodian) IsOwner(signer Address) bool {
	return signer == c.Owner
}

// IsOwnerOrAssistant ...
func (c *Custodian) IsOwnerOrAssistant(signer Address) bool {
	return signer == c.Owner || signer == c.OwnerAssistant
}

// RequireNotPaused ...
func (c *Custodian) RequireNotPaused() error {
	if c.Paused {
		return ErrPaused
	}
	return nil
}

// SetPause toggles the pause switch. Either admin role can flip it.
func (c *Custodian) SetPause(signer Address, paused bool) error {
	if !c.IsOwnerOrAssistant(signer) {
		return ErrOwnerOrAssistantOnly
	}
	c.Paused = paused
	c.PausedSetBy = signer
	return nil
}

// SubmitOwnershipTransfer starts the two-step handover of ownership. A new
// submission replaces any pending one.
func (c *Custodian) SubmitOwnershipTransfer(signer, newOwner Address) error {
	if !c.IsOwner(signer) {
		return ErrOwnerOnly
	}
	if IsZeroAddress(newOwner) {
		return ErrInvalidNewOwner
	}
	if newOwner == c.Owner {
		return ErrAlreadyOwner
	}
	c.PendingOwner = &newOwner
	return nil
}

// ConfirmOwnershipTransfer completes the handover. Only the pending owner can
// confirm.
func (c *Custodian) ConfirmOwnershipTransfer(signer Address) error {
	if c.PendingOwner == nil {
		return ErrNoTransferOwnershipRequest
	}
	if signer != *c.PendingOwner {
		return ErrNotPendingOwner
	}
	c.Owner = signer
	c.PendingOwner = nil
	return nil
}

// CancelOwnershipTransfer ...
func (c *Custodian) CancelOwnershipTransfer(signer Address) error {
	if !c.IsOwner(signer) {
		return ErrOwnerOnly
	}
	if c.PendingOwner == nil {
		return ErrNoTransferOwnershipRequest
	}
	c.PendingOwner = nil
	return nil
}

// UpdateOwnerAssistant ...
func (c *Custodian) UpdateOwnerAssistant(signer, newAssistant Address) error {
	if !c.IsOwner(signer) {
		return ErrOwnerOnly
	}
	if IsZeroAddress(newAssistant) {
		return ErrAssistantZeroAddress
	}
	c.OwnerAssistant = newAssistant
	return nil
}

// UpdateFeeRecipient ...
func (c *Custodian) UpdateFeeRecipient(signer, newFeeRecipientToken Address) error {
	if !c.IsOwnerOrAssistant(signer) {
		return ErrOwnerOrAssistantOnly
	}
	if IsZeroAddress(newFeeRecipientToken) {
		return ErrFeeRecipientZeroAddress
	}
	c.FeeRecipientToken = newFeeRecipientToken
	return nil
}

// TakeProposalID returns the id for the next proposal and increments the
// counter.
func (c *Custodian) TakeProposalID() uint64 {
	id := c.NextProposalID
	c.NextProposalID++
	return id
}
