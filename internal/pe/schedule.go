package pe

import (
	"github.com/example/go-pe-sim/internal/arith"
	"github.com/example/go-pe-sim/internal/fp32"
)

// Segment placement offsets for the shift-and-sum recombination of the
// 24x24 significand product. Phase 0 multiplies both A segments against
// B's low segment (weights 2^0 and 2^12); phase 1 repeats them against
// B's high segment (weights 2^12 and 2^24).
var placements = [2][2]uint32{
	{0, arith.SegBits},
	{arith.SegBits, 2 * arith.SegBits},
}

// laneTerms returns the two aligned, sign-adjusted partial products one
// lane contributes in the given phase. Both reuse the lane's exponent
// shift; only the placement differs.
func laneTerms(a, b operand, phase bool, shift uint32) [2]int64 {
	negate := a.sign != b.sign

	seg := segLo(b.sig)
	place := placements[0]
	if phase {
		seg = segHi(b.sig)
		place = placements[1]
	}

	lo := arith.Mul12(segLo(a.sig), seg)
	hi := arith.Mul12(segHi(a.sig), seg)

	return [2]int64{
		arith.NegateIf(arith.Align(lo, place[0], shift), negate),
		arith.NegateIf(arith.Align(hi, place[1], shift), negate),
	}
}

// reduceTerms sums one pass's ten terms with the feedback value.
func reduceTerms(terms [2 * fp32.Lanes]int64, feedback int64) (int64, bool) {
	return arith.Reduce(terms[:], feedback)
}

// scheduleTerms produces the ten partial-product terms of one multiply
// pass. Their meaning depends entirely on the phase bit.
func scheduleTerms(la, lb [fp32.Lanes]operand, phase bool, shifts [fp32.Lanes]uint32) [2 * fp32.Lanes]int64 {
	var terms [2 * fp32.Lanes]int64
	for i := range la {
		t := laneTerms(la[i], lb[i], phase, shifts[i])
		terms[2*i] = t[0]
		terms[2*i+1] = t[1]
	}
	return terms
}
