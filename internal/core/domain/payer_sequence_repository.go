package domain

import "context"

// PayerSequenceRepository ...
type PayerSequenceRepository interface {
	// GetPayerSequence returns a zero sequence for unknown payers.
	GetPayerSequence(ctx context.Context, payer Address) (*PayerSequence, error)
	// UpdatePayerSequence creates the sequence if missing.
	UpdatePayerSequence(
		ctx context.Context, payer Address,
		updateFn func(s *PayerSequence) (*PayerSequence, error),
	) error
}
