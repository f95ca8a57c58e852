package application

import "errors"

var (
	// ErrFaucetDisabled is returned when minting test tokens on an engine
	// that was not started with the faucet enabled.
	ErrFaucetDisabled = errors.New("faucet is disabled")
	// ErrCustodyNotEmpty is returned if a custody account still holds funds
	// when it should be closed. It signals a broken conservation invariant.
	ErrCustodyNotEmpty = errors.New("custody account is not empty")
	// ErrUnknownTopic ...
	ErrUnknownTopic = errors.New("unknown event topic")
	// ErrPubSubNotInitialized is returned when managing webhooks of an
	// engine started without a pubsub service.
	ErrPubSubNotInitialized = errors.New("pubsub service is not initialized")
	// ErrPublishedMessageNotFound ...
	ErrPublishedMessageNotFound = errors.New("published message not found")
)
