package pe

import (
	"github.com/example/go-pe-sim/internal/arith"
	"github.com/example/go-pe-sim/internal/fp32"
)

// operand is one decoded lane: unpacked fields plus the 24-bit significand.
type operand struct {
	sign bool
	exp  uint32
	frac uint32
	sig  uint32
}

// decodeBus splits a 160-bit bus into five decoded lanes. Every bit
// pattern is accepted; there is no error path here.
func decodeBus(b fp32.Bus) [fp32.Lanes]operand {
	var out [fp32.Lanes]operand
	for i, bits := range b {
		l := fp32.Split(bits)
		out[i] = operand{
			sign: l.Sign,
			exp:  l.Exp,
			frac: l.Frac,
			sig:  l.Significand(),
		}
	}
	return out
}

// segLo and segHi split the 24-bit significand into its multiplier
// segments. The high segment carries the implicit leading one.
func segLo(sig uint32) uint32 { return sig & arith.SegMask }
func segHi(sig uint32) uint32 { return sig >> arith.SegBits }

// laneExponents feeds the 10-slot comparator: five active pairs, five
// slots tied to zero. It returns the global maximum combined exponent and
// each lane's alignment shift below it.
func laneExponents(la, lb [fp32.Lanes]operand) (maxExp int32, shifts [fp32.Lanes]uint32) {
	pairs := make([]arith.ExpPair, 2*fp32.Lanes)
	for i := range la {
		pairs[i] = arith.ExpPair{A: la[i].exp, B: lb[i].exp}
	}
	max, diffs := arith.CompareExponents(pairs)
	copy(shifts[:], diffs[:fp32.Lanes])
	return max, shifts
}
