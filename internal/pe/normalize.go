package pe

import (
	"math/bits"

	"github.com/example/go-pe-sim/internal/arith"
	"github.com/example/go-pe-sim/internal/fp32"
)

// normRecord is the registered output of the normalize stage: the mantissa
// candidate with its guard/round/sticky bits, one edge before rounding and
// packing.
type normRecord struct {
	mant     uint32 // 23-bit candidate
	guard    bool
	round    bool
	sticky   bool
	pos      uint32
	zero     bool
	negative bool
	maxExp   int32
}

// normalize locates the accumulator's leading one and slices the mantissa
// candidate and G/R/S bits below it. The sign comes from the registered
// reduction sign, not from the magnitude, so an exact-zero result keeps
// whatever sign the reduction produced.
func normalize(acc int64, negative bool, maxExp int32) normRecord {
	if acc == 0 {
		return normRecord{zero: true, negative: negative, maxExp: maxExp}
	}

	mag := uint64(acc)
	if acc < 0 {
		mag = uint64(-acc)
	}

	pos := arith.LeadingOnePosition(mag)

	// Park the leading one at bit 63; the mantissa candidate sits in
	// bits 62..40, guard at 39, round at 38, sticky below.
	norm := mag << (63 - uint32(bits.Len64(mag)-1))

	return normRecord{
		mant:     uint32(norm>>40) & fp32.FracMask,
		guard:    norm>>39&1 == 1,
		round:    norm>>38&1 == 1,
		sticky:   norm&(1<<38-1) != 0,
		pos:      pos,
		negative: negative,
		maxExp:   maxExp,
	}
}

// roundPack applies round-to-nearest-even to the normalize record and
// packs the 32-bit result. A zero magnitude or an underflowed exponent
// forces the exponent and mantissa fields to zero while keeping the
// registered sign.
func roundPack(n normRecord) uint32 {
	var out uint32
	if n.negative {
		out = 1 << 31
	}
	if n.zero {
		return out
	}

	m := n.mant
	if n.guard && (n.round || n.sticky || m&1 == 1) {
		m++
	}

	exp := n.maxExp + arith.NoShiftPos - int32(n.pos)
	if m == fp32.ImplicitOne {
		// Rounding carried out of the mantissa; the fraction bits are
		// all zero and the exponent steps up.
		exp++
	}
	if exp <= 0 {
		// The corrected exponent fell below the normalized range.
		// Subnormal outputs are not represented, so the result
		// flushes to zero keeping the registered sign.
		return out
	}

	out |= uint32(exp&0xFF) << fp32.FracBits
	out |= m & fp32.FracMask
	return out
}
