package vaa

import "errors"

var (
	// ErrMalformedVaa is returned if the envelope is truncated.
	ErrMalformedVaa = errors.New("malformed vaa")
	// ErrUnsupportedVersion ...
	ErrUnsupportedVersion = errors.New("unsupported vaa version")
)
