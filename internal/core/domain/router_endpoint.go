package domain

const (
	// MessageProtocolNone marks a disabled endpoint.
	MessageProtocolNone MessageProtocolType = iota
	// MessageProtocolLocal is the token router deployed on the engine chain,
	// reached without a CCTP hop.
	MessageProtocolLocal
	// MessageProtocolCctp is a remote token router reached through a CCTP
	// burn and mint.
	MessageProtocolCctp
)

// MessageProtocolType ...
type MessageProtocolType uint8

// String ...
func (t MessageProtocolType) String() string {
	switch t {
	case MessageProtocolNone:
		return "none"
	case MessageProtocolLocal:
		return "local"
	case MessageProtocolCctp:
		return "cctp"
	default:
		return "unknown"
	}
}

// MessageProtocol describes how funds reach a router. ProgramID is only
// meaningful for local endpoints, Domain only for CCTP ones.
type MessageProtocol struct {
	Type      MessageProtocolType
	ProgramID Address
	Domain    uint32
}

// NoneProtocol ...
func NoneProtocol() MessageProtocol {
	return MessageProtocol{Type: MessageProtocolNone}
}

// LocalProtocol ...
func LocalProtocol(programID Address) MessageProtocol {
	return MessageProtocol{Type: MessageProtocolLocal, ProgramID: programID}
}

// CctpProtocol ...
func CctpProtocol(domain uint32) MessageProtocol {
	return MessageProtocol{Type: MessageProtocolCctp, Domain: domain}
}

// RouterEndpoint is the registered token router of a chain.
type RouterEndpoint struct {
	Chain         ChainID
	Address       Address
	MintRecipient Address
	Protocol      MessageProtocol
}

// NewRouterEndpoint validates and returns an enabled endpoint. localChain is
// the chain the engine runs on.
func NewRouterEndpoint(
	localChain, chain ChainID, address, mintRecipient Address,
	protocol MessageProtocol,
) (*RouterEndpoint, error) {
	e := &RouterEndpoint{
		Chain:         chain,
		Address:       address,
		MintRecipient: mintRecipient,
		Protocol:      protocol,
	}
	if err := e.validate(localChain); err != nil {
		return nil, err
	}
	return e, nil
}

// IsEnabled ...
func (e *RouterEndpoint) IsEnabled() bool {
	return e.Protocol.Type != MessageProtocolNone
}

// Update replaces address, mint recipient and protocol of the endpoint.
func (e *RouterEndpoint) Update(
	localChain ChainID, address, mintRecipient Address,
	protocol MessageProtocol,
) error {
	updated := &RouterEndpoint{
		Chain:         e.Chain,
		Address:       address,
		MintRecipient: mintRecipient,
		Protocol:      protocol,
	}
	if err := updated.validate(localChain); err != nil {
		return err
	}
	*e = *updated
	return nil
}

// Disable switches the endpoint off. Address and mint recipient are kept so
// the endpoint history stays readable.
func (e *RouterEndpoint) Disable() {
	e.Protocol = NoneProtocol()
}

// RequireEnabled ...
func (e *RouterEndpoint) RequireEnabled() error {
	if !e.IsEnabled() {
		return ErrEndpointDisabled
	}
	return nil
}

func (e *RouterEndpoint) validate(localChain ChainID) error {
	if e.Chain == 0 {
		return ErrChainNotAllowed
	}
	if IsZeroAddress(e.Address) {
		return ErrInvalidEndpoint
	}

	switch e.Protocol.Type {
	case MessageProtocolLocal:
		if e.Chain != localChain {
			return ErrChainNotAllowed
		}
		if IsZeroAddress(e.Protocol.ProgramID) {
			return ErrInvalidEndpoint
		}
		if e.MintRecipient != LocalCustodyToken(e.Protocol.ProgramID) {
			return ErrInvalidMintRecipient
		}
	case MessageProtocolCctp:
		if e.Chain == localChain {
			return ErrChainNotAllowed
		}
		if IsZeroAddress(e.MintRecipient) {
			return ErrInvalidMintRecipient
		}
	case MessageProtocolNone:
		return ErrEndpointDisabled
	default:
		return ErrUnknownProtocol
	}
	return nil
}
