// Package arith implements the arithmetic primitives the processing
// element is built from: the segment multiplier, exponent comparator,
// positional aligner, sign negator, adder tree and leading-one locator.
//
// Each primitive is a pure function over fixed-width values. Hardware bus
// widths (61-bit aligned magnitudes, 66-bit accumulator) are carried in
// int64/uint64; realizable values stay below 2^53, so the wider types are
// exact.
package arith

import "math/bits"

const (
	// SegBits is the width of one significand segment.
	SegBits = 12

	// SegMask selects one significand segment.
	SegMask = 1<<SegBits - 1

	// AccBits is the accumulator bus width.
	AccBits = 66

	// NoShiftPos is the leading-one position of a full-scale product that
	// needs no normalization shift (bit 46 of the accumulator field). A
	// result whose leading one sits here keeps the comparator maximum as
	// its exponent unchanged.
	NoShiftPos = 20
)

// Mul12 returns the unsigned product of two 12-bit segments. Inputs are
// masked to 12 bits.
func Mul12(a, b uint32) uint32 {
	return (a & SegMask) * (b & SegMask)
}

// ExpPair is one comparator input slot: the biased exponents of a lane's
// two operands. Unused slots are left zero.
type ExpPair struct {
	A, B uint32
}

// CompareExponents computes the combined exponent a+b-bias for every slot,
// the maximum over all slots, and each slot's distance below the maximum.
// An all-zero slot yields combined -127, which never wins the maximum
// against a lane of finite normalized operands.
func CompareExponents(pairs []ExpPair) (max int32, diffs []uint32) {
	combined := make([]int32, len(pairs))
	for i, p := range pairs {
		combined[i] = int32(p.A) + int32(p.B) - 127
		if i == 0 || combined[i] > max {
			max = combined[i]
		}
	}
	diffs = make([]uint32, len(pairs))
	for i, c := range combined {
		diffs[i] = uint32(max - c)
	}
	return max, diffs
}

// Align places a raw partial product at its segment offset and right-shifts
// it down to the common exponent. Bits shifted off the low end are
// truncated, not rounded.
func Align(product uint32, place, shift uint32) uint64 {
	v := uint64(product) << place
	if shift >= 64 {
		return 0
	}
	return v >> shift
}

// NegateIf two's-complements the aligned magnitude when negate is set.
func NegateIf(mag uint64, negate bool) int64 {
	if negate {
		return -int64(mag)
	}
	return int64(mag)
}

// Reduce sums the sign-extended terms and one feedback value, returning
// the signed total and its sign bit.
func Reduce(terms []int64, feedback int64) (sum int64, negative bool) {
	sum = feedback
	for _, t := range terms {
		sum += t
	}
	return sum, sum < 0
}

// LeadingOnePosition returns the position of the most-significant set bit
// of mag, counted from the top of the 66-bit accumulator field: bit 46
// maps to NoShiftPos, bit 0 to 66. A zero magnitude returns AccBits;
// callers handle exact zero before normalizing.
func LeadingOnePosition(mag uint64) uint32 {
	if mag == 0 {
		return AccBits
	}
	return uint32(AccBits + 1 - bits.Len64(mag))
}
