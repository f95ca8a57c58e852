package interceptor

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/cctp"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/pubsub"
	"github.com/fastfill-network/matching-engine/pkg/mathutil"
	"github.com/fastfill-network/matching-engine/pkg/message"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	code codes.Code
	errs []error
}{
	{codes.PermissionDenied, []error{
		domain.ErrOwnerOnly,
		domain.ErrOwnerOrAssistantOnly,
		domain.ErrNotPendingOwner,
		domain.ErrNotUpgradeAuthority,
		domain.ErrTokenOwnerMismatch,
		domain.ErrDerivedAddress,
		domain.ErrInvalidRedeemer,
		application.ErrFaucetDisabled,
	}},
	{codes.NotFound, []error{
		domain.ErrProposalNotFound,
		domain.ErrAuctionConfigNotFound,
		domain.ErrRouterEndpointNotFound,
		domain.ErrAuctionNotFound,
		domain.ErrPreparedOrderResponseNotFound,
		domain.ErrRedeemedFastFillNotFound,
		domain.ErrTokenAccountNotFound,
		application.ErrPublishedMessageNotFound,
		pubsub.ErrSubscriptionNotFound,
	}},
	{codes.AlreadyExists, []error{
		domain.ErrCustodianAlreadyInitialized,
		domain.ErrAuctionConfigAlreadyExists,
		domain.ErrRouterEndpointAlreadyExists,
		domain.ErrAuctionAlreadyStarted,
		domain.ErrPreparedOrderResponseAlreadyExists,
		domain.ErrFastFillAlreadyRedeemed,
		domain.ErrCctpNonceAlreadyUsed,
		domain.ErrTokenAccountAlreadyExists,
	}},
	{codes.Aborted, []error{
		domain.ErrBestOfferTokenMismatch,
	}},
	{codes.FailedPrecondition, []error{
		domain.ErrCustodianNotInitialized,
		domain.ErrNoTransferOwnershipRequest,
		domain.ErrProposalAlreadyEnacted,
		domain.ErrProposalDelayNotExpired,
		domain.ErrEndpointDisabled,
		domain.ErrAuctionNotActive,
		domain.ErrAuctionNotCompleted,
		domain.ErrOrderAlreadySettled,
		domain.ErrPaused,
		domain.ErrAuctionPeriodExpired,
		domain.ErrAuctionPeriodNotExpired,
		domain.ErrFastMarketOrderExpired,
		domain.ErrExecutorNotBestOffer,
		domain.ErrInsufficientFunds,
	}},
	{codes.Unavailable, []error{
		application.ErrPubSubNotInitialized,
	}},
	{codes.Internal, []error{
		application.ErrCustodyNotEmpty,
	}},
	{codes.InvalidArgument, []error{
		domain.ErrAssistantZeroAddress,
		domain.ErrFeeRecipientZeroAddress,
		domain.ErrInvalidNewOwner,
		domain.ErrAlreadyOwner,
		domain.ErrUserPenaltyRewardBpsTooLarge,
		domain.ErrInitialPenaltyBpsTooLarge,
		domain.ErrMinOfferDeltaBpsTooLarge,
		domain.ErrSecurityDepositBpsTooLarge,
		domain.ErrZeroDuration,
		domain.ErrZeroPenaltyPeriod,
		domain.ErrInvalidGracePeriod,
		domain.ErrMalformedAddress,
		domain.ErrMalformedHash,
		domain.ErrInvalidProposalAction,
		domain.ErrAuctionConfigMismatch,
		domain.ErrChainNotAllowed,
		domain.ErrInvalidEndpoint,
		domain.ErrInvalidMintRecipient,
		domain.ErrUnknownProtocol,
		domain.ErrInvalidSourceRouter,
		domain.ErrInvalidTargetRouter,
		domain.ErrOfferPriceTooHigh,
		domain.ErrOfferPriceNotImproved,
		domain.ErrAmountOverflow,
		domain.ErrFeesExceedAmount,
		domain.ErrZeroAmount,
		domain.ErrNotFastMarketOrder,
		domain.ErrInvalidDeposit,
		domain.ErrNotSlowOrderResponse,
		domain.ErrVaaMismatch,
		domain.ErrDepositAmountMismatch,
		domain.ErrCctpMessageMismatch,
		domain.ErrInvalidEmitterForFastFill,
		domain.ErrFastFillNotPublished,
		domain.ErrNotFastFill,
		domain.ErrExecutorTokenMismatch,
		domain.ErrFeeRecipientTokenMismatch,
		domain.ErrVaaHashMismatch,
		application.ErrUnknownTopic,
		cctp.ErrMalformedMessage,
		cctp.ErrAmountOverflow,
		cctp.ErrInvalidAttestation,
		cctp.ErrInvalidDestinationDomain,
		cctp.ErrInvalidBurnToken,
		vaa.ErrMalformedVaa,
		vaa.ErrUnsupportedVersion,
		message.ErrEmptyPayload,
		message.ErrInvalidPayloadID,
		message.ErrMalformedPayload,
		message.ErrTrailingBytes,
		message.ErrPayloadTooLarge,
		message.ErrAmountOverflow,
		mathutil.ErrNegativePercentage,
		mathutil.ErrPercentageTooLarge,
	}},
}

// toStatus converts an error returned by the application layer into a gRPC
// status error. Errors that already carry a status are returned untouched.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	for _, e := range errorCodes {
		for _, target := range e.errs {
			if errors.Is(err, target) {
				return status.Error(e.code, err.Error())
			}
		}
	}
	log.WithError(err).Warn("unexpected error")
	return status.Error(codes.Internal, err.Error())
}

func unaryErrorHandler(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	res, err := handler(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return res, nil
}
