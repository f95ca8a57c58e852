package ports

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

// CctpMint describes the funds minted by a received CCTP message.
type CctpMint struct {
	SourceDomain  uint32
	Nonce         uint64
	BurnToken     domain.Address
	MintRecipient domain.Address
	Amount        uint64
	Sender        domain.Address
}

// CctpBurn describes the funds to burn towards another CCTP domain.
type CctpBurn struct {
	Amount            uint64
	DestinationDomain uint32
	MintRecipient     domain.Address
	DestinationCaller domain.Address
	BurnSource        domain.Address
}

// CctpTransmitter is the circle bridge the engine mints from and burns to.
type CctpTransmitter interface {
	// LocalDomain returns the CCTP domain of the engine chain.
	LocalDomain() uint32
	// BurnToken returns the universal address of the bridged token.
	BurnToken() domain.Address
	// VerifyMessage verifies the attestation of a CCTP message and returns
	// what it mints. It does not mark the message as received.
	VerifyMessage(
		ctx context.Context, message, attestation []byte,
	) (*CctpMint, error)
	// DepositForBurn burns the given amount and returns the nonce of the
	// emitted CCTP message.
	DepositForBurn(ctx context.Context, burn CctpBurn) (uint64, error)
}
