package message

import "errors"

var (
	// ErrEmptyPayload ...
	ErrEmptyPayload = errors.New("empty payload")
	// ErrInvalidPayloadID is returned if the payload id does not match the
	// expected message type.
	ErrInvalidPayloadID = errors.New("invalid payload id")
	// ErrMalformedPayload is returned if the payload is truncated.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrTrailingBytes ...
	ErrTrailingBytes = errors.New("payload has trailing bytes")
	// ErrPayloadTooLarge is returned if a variable length field does not fit
	// its length prefix.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrAmountOverflow is returned if a 256-bit amount does not fit 64 bits.
	ErrAmountOverflow = errors.New("amount exceeds 64 bits")
)
