package mathutil

import "errors"

var (
	// ErrNegativePercentage ...
	ErrNegativePercentage = errors.New("percentage must not be negative")
	// ErrPercentageTooLarge ...
	ErrPercentageTooLarge = errors.New("percentage must not exceed 100")
)
