package domain

import "github.com/fastfill-network/matching-engine/pkg/mathutil"

// FeePrecisionMax is the denominator of every bps field of the parameters.
const FeePrecisionMax = uint32(mathutil.FeePrecisionMax)

// AuctionParameters tunes the economics and timing of auctions. Durations
// are expressed in slots, rates in units of 1/FeePrecisionMax.
type AuctionParameters struct {
	UserPenaltyRewardBps uint32
	InitialPenaltyBps    uint32
	Duration             uint16
	GracePeriod          uint16
	PenaltyPeriod        uint16
	MinOfferDeltaBps     uint32
	SecurityDepositBase  uint64
	SecurityDepositBps   uint32
}

// AuctionConfig is an immutable, versioned set of auction parameters.
// Auctions keep referencing the version they were opened with.
type AuctionConfig struct {
	ID         uint32
	Parameters AuctionParameters
}

// DepositPenalty splits the share of the security deposit withheld from a
// late best offer: Penalty goes to the executor, UserReward to the user.
type DepositPenalty struct {
	Penalty    uint64
	UserReward uint64
}

// Validate checks the invariants of the parameters.
func (p AuctionParameters) Validate() error {
	if p.UserPenaltyRewardBps > FeePrecisionMax {
		return ErrUserPenaltyRewardBpsTooLarge
	}
	if p.InitialPenaltyBps > FeePrecisionMax {
		return ErrInitialPenaltyBpsTooLarge
	}
	if p.MinOfferDeltaBps > FeePrecisionMax {
		return ErrMinOfferDeltaBpsTooLarge
	}
	if p.SecurityDepositBps > FeePrecisionMax {
		return ErrSecurityDepositBpsTooLarge
	}
	if p.Duration == 0 {
		return ErrZeroDuration
	}
	if p.GracePeriod < p.Duration {
		return ErrInvalidGracePeriod
	}
	if p.PenaltyPeriod == 0 {
		return ErrZeroPenaltyPeriod
	}
	return nil
}

// NotionalSecurityDeposit returns the part of the security deposit that
// scales with the order size.
func (p AuctionParameters) NotionalSecurityDeposit(amountIn uint64) uint64 {
	return mathutil.SaturatingAdd(
		p.SecurityDepositBase, mathutil.MulBps(amountIn, p.SecurityDepositBps),
	)
}

// MinOfferDelta returns the minimum amount by which a new offer must
// undercut the given one.
func (p AuctionParameters) MinOfferDelta(offerPrice uint64) uint64 {
	return mathutil.MulBps(offerPrice, p.MinOfferDeltaBps)
}

// AuctionEndSlot is the first slot at which bidding is closed.
func (p AuctionParameters) AuctionEndSlot(startSlot uint64) uint64 {
	return startSlot + uint64(p.Duration)
}

// GracePeriodEndSlot is the last slot at which only the best offer may
// execute without penalty.
func (p AuctionParameters) GracePeriodEndSlot(startSlot uint64) uint64 {
	return startSlot + uint64(p.GracePeriod)
}

// ComputeDepositPenalty returns the penalty applied to the given security
// deposit when executing at the given slot. Nothing is withheld up to the end
// of the grace period, then the penalty starts at InitialPenaltyBps of the
// deposit and grows linearly to the whole deposit over PenaltyPeriod slots.
func (p AuctionParameters) ComputeDepositPenalty(
	startSlot, securityDeposit, slot uint64,
) DepositPenalty {
	graceEnd := p.GracePeriodEndSlot(startSlot)
	if slot <= graceEnd {
		return DepositPenalty{}
	}

	late := slot - graceEnd
	var penalty uint64
	if late >= uint64(p.PenaltyPeriod) || p.InitialPenaltyBps == FeePrecisionMax {
		penalty = securityDeposit
	} else {
		base := mathutil.MulBps(securityDeposit, p.InitialPenaltyBps)
		penalty = base + mathutil.MulDiv(
			securityDeposit-base, late, uint64(p.PenaltyPeriod),
		)
	}

	userReward := mathutil.MulBps(penalty, p.UserPenaltyRewardBps)
	return DepositPenalty{
		Penalty:    penalty - userReward,
		UserReward: userReward,
	}
}
