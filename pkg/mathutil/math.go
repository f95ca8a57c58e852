package mathutil

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// FeePrecisionMax is the denominator of every fractional parameter of the
// engine (penalty, reward, delta and deposit rates). A value of
// FeePrecisionMax represents 100%.
const FeePrecisionMax = uint64(1_000_000)

var (
	feePrecisionMax        = uint256.NewInt(FeePrecisionMax)
	feePrecisionMaxDecimal = decimal.NewFromInt(int64(FeePrecisionMax))
	hundred                = decimal.NewFromInt(100)
)

// MulDiv returns x*y/d rounded down. The product is computed on 256 bits so it
// never wraps; a quotient that does not fit 64 bits saturates to MaxUint64.
// A zero divisor returns 0.
func MulDiv(x, y, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	z, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(d),
	)
	if overflow || !z.IsUint64() {
		return math.MaxUint64
	}
	return z.Uint64()
}

// MulBps returns amount*bps/FeePrecisionMax rounded down.
func MulBps(amount uint64, bps uint32) uint64 {
	z, _ := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(amount), uint256.NewInt(uint64(bps)), feePrecisionMax,
	)
	// bps is not bounded here, the result may exceed amount.
	if !z.IsUint64() {
		return math.MaxUint64
	}
	return z.Uint64()
}

// SaturatingAdd returns x+y or MaxUint64 on overflow.
func SaturatingAdd(x, y uint64) uint64 {
	if z := x + y; z >= x {
		return z
	}
	return math.MaxUint64
}

// SaturatingSub returns x-y or 0 if y > x.
func SaturatingSub(x, y uint64) uint64 {
	if y > x {
		return 0
	}
	return x - y
}

// CheckedAdd returns x+y and whether the sum overflowed.
func CheckedAdd(x, y uint64) (uint64, bool) {
	z := x + y
	return z, z < x
}

// BpsToPercentage formats a fee-precision rate as a percentage string,
// ie. 50000 -> "5".
func BpsToPercentage(bps uint32) string {
	return decimal.NewFromInt(int64(bps)).
		Div(feePrecisionMaxDecimal).Mul(hundred).String()
}

// PercentageToBps parses a percentage string into a fee-precision rate,
// ie. "0.25" -> 2500. Fractions below the precision are truncated.
func PercentageToBps(percentage string) (uint32, error) {
	d, err := decimal.NewFromString(percentage)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, ErrNegativePercentage
	}
	bps := d.Div(hundred).Mul(feePrecisionMaxDecimal).Truncate(0)
	if bps.GreaterThan(feePrecisionMaxDecimal) {
		return 0, ErrPercentageTooLarge
	}
	return uint32(bps.IntPart()), nil
}
