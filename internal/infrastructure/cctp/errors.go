package cctp

import "errors"

var (
	// ErrMalformedMessage ...
	ErrMalformedMessage = errors.New("malformed cctp message")
	// ErrAmountOverflow is returned if a burn amount does not fit 64 bits.
	ErrAmountOverflow = errors.New("burn amount overflows")
	// ErrInvalidAttestation is returned if the attestation is not signed by
	// enough distinct attesters.
	ErrInvalidAttestation = errors.New("invalid attestation")
	// ErrInvalidDestinationDomain ...
	ErrInvalidDestinationDomain = errors.New("message is not for the local domain")
	// ErrInvalidBurnToken ...
	ErrInvalidBurnToken = errors.New("message burns an unsupported token")
)
