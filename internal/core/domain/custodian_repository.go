package domain

import "context"

// CustodianRepository persists the engine singleton configuration.
type CustodianRepository interface {
	// GetCustodian returns ErrCustodianNotInitialized if the engine was never
	// initialized.
	GetCustodian(ctx context.Context) (*Custodian, error)
	// AddCustodian returns ErrCustodianAlreadyInitialized if called twice.
	AddCustodian(ctx context.Context, custodian *Custodian) error
	UpdateCustodian(
		ctx context.Context,
		updateFn func(c *Custodian) (*Custodian, error),
	) error
}
