package domain

// RedeemedFastFill marks a fast fill VAA as consumed by the local token
// router.
type RedeemedFastFill struct {
	VaaHash  Hash
	Sequence uint64
	Redeemer Address
	Amount   uint64
}
