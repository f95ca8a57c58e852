package grpchandler

import (
	"context"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// signerFromContext returns the signer the auth interceptor authenticated
// the request for.
func signerFromContext(ctx context.Context) (domain.Address, error) {
	signer, ok := permissions.SignerFromContext(ctx)
	if !ok {
		return domain.Address{}, status.Error(codes.Unauthenticated, "missing signer")
	}
	return signer, nil
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func parseAddress(name, str string) (domain.Address, error) {
	if len(str) <= 0 {
		return domain.Address{}, fmt.Errorf("missing %s", name)
	}
	addr, err := domain.ParseAddress(str)
	if err != nil {
		return domain.Address{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return addr, nil
}

func parseHash(name, str string) (domain.Hash, error) {
	if len(str) <= 0 {
		return domain.Hash{}, fmt.Errorf("missing %s", name)
	}
	hash, err := domain.ParseHash(str)
	if err != nil {
		return domain.Hash{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return hash, nil
}

func parseBytes(name string, b []byte) ([]byte, error) {
	if len(b) <= 0 {
		return nil, fmt.Errorf("missing %s", name)
	}
	return b, nil
}

func parseAmount(amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, domain.ErrZeroAmount
	}
	return amount, nil
}

func parseChain(chain uint16) (domain.ChainID, error) {
	if chain == 0 {
		return 0, fmt.Errorf("missing chain")
	}
	return domain.ChainID(chain), nil
}

func parseAuctionParameters(p api.AuctionParameters) domain.AuctionParameters {
	return domain.AuctionParameters{
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

func parseProtocol(e api.RouterEndpoint) (domain.MessageProtocol, error) {
	switch e.Protocol {
	case domain.MessageProtocolLocal.String():
		programID, err := parseAddress("program id", e.ProgramID)
		if err != nil {
			return domain.MessageProtocol{}, err
		}
		return domain.LocalProtocol(programID), nil
	case domain.MessageProtocolCctp.String():
		return domain.CctpProtocol(e.Domain), nil
	case domain.MessageProtocolNone.String():
		return domain.NoneProtocol(), nil
	default:
		return domain.MessageProtocol{}, domain.ErrUnknownProtocol
	}
}

func parseAuctionStatus(str string) (domain.AuctionStatusCode, error) {
	for _, code := range []domain.AuctionStatusCode{
		domain.AuctionStatusNotStarted,
		domain.AuctionStatusActive,
		domain.AuctionStatusCompleted,
		domain.AuctionStatusSettled,
	} {
		if code.String() == str {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown auction status %q", str)
}
