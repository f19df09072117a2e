// Package ref provides the floating-point reference model the pipeline is
// checked against: inputs quantized to float32, accumulation in float64,
// one rounding back to float32 at the end.
package ref

import "math"

// Dot5 computes the 5-lane dot product with a single final rounding.
// Inputs are float32 already, so each product is exact in float64; the
// only binary32 rounding happens on the way out.
func Dot5(a, b [5]float32) float32 {
	var acc float64
	for i := range a {
		acc += float64(a[i]) * float64(b[i])
	}
	return float32(acc)
}

// Dot5Bits is Dot5 on raw lane bit patterns, returning the packed result.
func Dot5Bits(a, b [5]uint32) uint32 {
	var af, bf [5]float32
	for i := range a {
		af[i] = math.Float32frombits(a[i])
		bf[i] = math.Float32frombits(b[i])
	}
	return math.Float32bits(Dot5(af, bf))
}

// BitsEqualLenientZero reports whether two packed results match, treating
// +0 and -0 as equal. The pipeline's sign bit on an exact-zero magnitude
// follows its reduction sign register, so zero results are compared by
// magnitude only.
func BitsEqualLenientZero(got, want uint32) bool {
	if got&0x7FFFFFFF == 0 && want&0x7FFFFFFF == 0 {
		return true
	}
	return got == want
}
