package domain

import "errors"

// Authorization errors.
var (
	// ErrOwnerOnly is returned if the signer is not the owner.
	ErrOwnerOnly = errors.New("signer must be the owner")
	// ErrOwnerOrAssistantOnly is returned if the signer is neither the owner
	// nor the owner assistant.
	ErrOwnerOrAssistantOnly = errors.New("signer must be the owner or the owner assistant")
	// ErrNotPendingOwner ...
	ErrNotPendingOwner = errors.New("signer must be the pending owner")
	// ErrNotUpgradeAuthority is returned if someone else than the deployer
	// tries to initialize the engine.
	ErrNotUpgradeAuthority = errors.New("signer must be the upgrade authority")
	// ErrTokenOwnerMismatch is returned if the signer does not own the token
	// account it is spending from.
	ErrTokenOwnerMismatch = errors.New("token account is not owned by signer")
	// ErrInvalidRedeemer ...
	ErrInvalidRedeemer = errors.New("signer is not the redeemer of the fill")
)

// Configuration errors.
var (
	// ErrCustodianNotInitialized ...
	ErrCustodianNotInitialized = errors.New("engine is not initialized")
	// ErrCustodianAlreadyInitialized ...
	ErrCustodianAlreadyInitialized = errors.New("engine is already initialized")
	// ErrAssistantZeroAddress ...
	ErrAssistantZeroAddress = errors.New("owner assistant must not be the zero address")
	// ErrFeeRecipientZeroAddress ...
	ErrFeeRecipientZeroAddress = errors.New("fee recipient must not be the zero address")
	// ErrInvalidNewOwner ...
	ErrInvalidNewOwner = errors.New("new owner must not be the zero address")
	// ErrAlreadyOwner ...
	ErrAlreadyOwner = errors.New("new owner is already the owner")
	// ErrNoTransferOwnershipRequest ...
	ErrNoTransferOwnershipRequest = errors.New("no ownership transfer pending")
	// ErrUserPenaltyRewardBpsTooLarge ...
	ErrUserPenaltyRewardBpsTooLarge = errors.New("user penalty reward bps exceeds max precision")
	// ErrInitialPenaltyBpsTooLarge ...
	ErrInitialPenaltyBpsTooLarge = errors.New("initial penalty bps exceeds max precision")
	// ErrMinOfferDeltaBpsTooLarge ...
	ErrMinOfferDeltaBpsTooLarge = errors.New("min offer delta bps exceeds max precision")
	// ErrSecurityDepositBpsTooLarge ...
	ErrSecurityDepositBpsTooLarge = errors.New("security deposit bps exceeds max precision")
	// ErrZeroDuration ...
	ErrZeroDuration = errors.New("auction duration must be greater than zero")
	// ErrZeroPenaltyPeriod ...
	ErrZeroPenaltyPeriod = errors.New("penalty period must be greater than zero")
	// ErrInvalidGracePeriod ...
	ErrInvalidGracePeriod = errors.New("grace period must not be shorter than auction duration")
	// ErrMalformedAddress ...
	ErrMalformedAddress = errors.New("malformed address")
	// ErrMalformedHash ...
	ErrMalformedHash = errors.New("malformed hash")
)

// Governance errors.
var (
	// ErrProposalNotFound ...
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrProposalAlreadyEnacted ...
	ErrProposalAlreadyEnacted = errors.New("proposal already enacted")
	// ErrProposalDelayNotExpired ...
	ErrProposalDelayNotExpired = errors.New("proposal enact delay not expired")
	// ErrInvalidProposalAction ...
	ErrInvalidProposalAction = errors.New("proposal action cannot be enacted")
	// ErrAuctionConfigMismatch is returned if a proposal targets a parameters
	// version that is not the next one.
	ErrAuctionConfigMismatch = errors.New("proposal does not target the next auction config")
	// ErrAuctionConfigNotFound ...
	ErrAuctionConfigNotFound = errors.New("auction config not found")
	// ErrAuctionConfigAlreadyExists ...
	ErrAuctionConfigAlreadyExists = errors.New("auction config already exists")
)

// Routing errors.
var (
	// ErrChainNotAllowed ...
	ErrChainNotAllowed = errors.New("chain not allowed")
	// ErrInvalidEndpoint is returned for endpoints with a zero address.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrInvalidMintRecipient ...
	ErrInvalidMintRecipient = errors.New("invalid mint recipient")
	// ErrUnknownProtocol ...
	ErrUnknownProtocol = errors.New("unknown message protocol")
	// ErrEndpointDisabled ...
	ErrEndpointDisabled = errors.New("router endpoint is disabled")
	// ErrInvalidSourceRouter is returned if a message was not emitted by the
	// router registered for its source chain.
	ErrInvalidSourceRouter = errors.New("invalid source router")
	// ErrInvalidTargetRouter is returned if the destination of an order has no
	// usable endpoint for the requested transport.
	ErrInvalidTargetRouter = errors.New("invalid target router")
	// ErrRouterEndpointNotFound ...
	ErrRouterEndpointNotFound = errors.New("router endpoint not found")
	// ErrRouterEndpointAlreadyExists ...
	ErrRouterEndpointAlreadyExists = errors.New("router endpoint already exists")
)

// State machine errors.
var (
	// ErrAuctionNotFound ...
	ErrAuctionNotFound = errors.New("auction not found")
	// ErrAuctionAlreadyStarted is returned by any attempt to open an auction
	// for an order that already has one, including settled tombstones.
	ErrAuctionAlreadyStarted = errors.New("auction already started")
	// ErrAuctionNotActive ...
	ErrAuctionNotActive = errors.New("auction is not active")
	// ErrAuctionNotCompleted ...
	ErrAuctionNotCompleted = errors.New("auction is not completed")
	// ErrOrderAlreadySettled is returned when preparing the response of an
	// order whose funds were already released.
	ErrOrderAlreadySettled = errors.New("order already settled")
	// ErrPreparedOrderResponseNotFound ...
	ErrPreparedOrderResponseNotFound = errors.New("prepared order response not found")
	// ErrPreparedOrderResponseAlreadyExists ...
	ErrPreparedOrderResponseAlreadyExists = errors.New("prepared order response already exists")
	// ErrFastFillAlreadyRedeemed ...
	ErrFastFillAlreadyRedeemed = errors.New("fast fill already redeemed")
	// ErrRedeemedFastFillNotFound ...
	ErrRedeemedFastFillNotFound = errors.New("redeemed fast fill not found")
	// ErrTokenAccountNotFound ...
	ErrTokenAccountNotFound = errors.New("token account not found")
	// ErrTokenAccountAlreadyExists ...
	ErrTokenAccountAlreadyExists = errors.New("token account already exists")
	// ErrCctpNonceAlreadyUsed is returned when a CCTP message was already
	// received by the engine.
	ErrCctpNonceAlreadyUsed = errors.New("cctp message nonce already used")
	// ErrCctpNonceNotFound ...
	ErrCctpNonceNotFound = errors.New("cctp message nonce not found")
	// ErrPaused is returned by bidding operations while the engine is paused.
	ErrPaused = errors.New("engine is paused")
)

// Timing errors.
var (
	// ErrAuctionPeriodExpired is returned by improvements after the bidding
	// window closed.
	ErrAuctionPeriodExpired = errors.New("auction period expired")
	// ErrAuctionPeriodNotExpired is returned by executions before the bidding
	// window closed.
	ErrAuctionPeriodNotExpired = errors.New("auction period not expired")
	// ErrFastMarketOrderExpired ...
	ErrFastMarketOrderExpired = errors.New("fast market order expired")
	// ErrExecutorNotBestOffer is returned if someone else than the best offer
	// tries to execute during the grace period.
	ErrExecutorNotBestOffer = errors.New("only the best offer can execute during the grace period")
)

// Economic errors.
var (
	// ErrOfferPriceTooHigh ...
	ErrOfferPriceTooHigh = errors.New("offer price exceeds max fee")
	// ErrOfferPriceNotImproved is returned if an offer does not beat the
	// current best one by at least the min offer delta.
	ErrOfferPriceNotImproved = errors.New("offer price not improved")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAmountOverflow ...
	ErrAmountOverflow = errors.New("amount overflow")
	// ErrFeesExceedAmount is returned if the order fees leave nothing for the
	// user.
	ErrFeesExceedAmount = errors.New("max fee and init auction fee exceed amount in")
	// ErrZeroAmount ...
	ErrZeroAmount = errors.New("amount must be greater than zero")
)

// Message validity errors.
var (
	// ErrNotFastMarketOrder ...
	ErrNotFastMarketOrder = errors.New("vaa is not a fast market order")
	// ErrInvalidDeposit ...
	ErrInvalidDeposit = errors.New("invalid deposit message")
	// ErrNotSlowOrderResponse ...
	ErrNotSlowOrderResponse = errors.New("deposit is not a slow order response")
	// ErrVaaMismatch is returned if a finalized VAA does not belong to the
	// given fast VAA.
	ErrVaaMismatch = errors.New("finalized vaa does not match fast vaa")
	// ErrDepositAmountMismatch ...
	ErrDepositAmountMismatch = errors.New("deposit amount does not match order amount")
	// ErrCctpMessageMismatch is returned if the CCTP message does not back the
	// deposit it is submitted with.
	ErrCctpMessageMismatch = errors.New("cctp message does not match deposit")
	// ErrInvalidEmitterForFastFill ...
	ErrInvalidEmitterForFastFill = errors.New("fast fill not emitted by the matching engine")
	// ErrFastFillNotPublished is returned if a fast fill VAA differs from
	// the message the engine published with the same sequence.
	ErrFastFillNotPublished = errors.New("fast fill was not published by the matching engine")
	// ErrNotFastFill ...
	ErrNotFastFill = errors.New("vaa is not a fast fill")
)

// Concurrency and account binding errors.
var (
	// ErrBestOfferTokenMismatch is returned if the best offer changed since
	// the caller observed it, or a settlement names a different best offer.
	ErrBestOfferTokenMismatch = errors.New("best offer token mismatch")
	// ErrExecutorTokenMismatch ...
	ErrExecutorTokenMismatch = errors.New("executor token mismatch")
	// ErrFeeRecipientTokenMismatch ...
	ErrFeeRecipientTokenMismatch = errors.New("fee recipient token mismatch")
	// ErrVaaHashMismatch is returned if the supplied VAA is not the one the
	// auction was opened with.
	ErrVaaHashMismatch = errors.New("vaa hash mismatch")
	// ErrDerivedAddress is returned when opening a token account at an
	// address reserved to the engine custody accounts.
	ErrDerivedAddress = errors.New("address is reserved to the engine")
)
