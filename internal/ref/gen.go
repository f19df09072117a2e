package ref

import (
	"fmt"
	"math"
	"math/rand"
)

// Profile selects the exponent range of randomly generated operands.
type Profile string

const (
	ProfileNormal Profile = "normal" // exponents around unity
	ProfileSmall  Profile = "small"  // deep negative exponents
	ProfileLarge  Profile = "large"  // large positive exponents
	ProfileMixed  Profile = "mixed"  // per-lane mix of the above
)

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileNormal, ProfileSmall, ProfileLarge, ProfileMixed:
		return Profile(s), nil
	case "":
		return ProfileNormal, nil
	default:
		return "", fmt.Errorf("unknown profile %q (want normal|small|large|mixed)", s)
	}
}

// f32Round quantizes to binary32 and back.
func f32Round(x float64) float32 { return float32(x) }

func randNormalValue(r *rand.Rand, small, large bool) float32 {
	sign := 1.0
	if r.Float64() < 0.5 {
		sign = -1.0
	}

	var e int
	switch {
	case small:
		e = -126 + r.Intn(47) // [-126, -80]
	case large:
		e = 20 + r.Intn(41) // [20, 60]
	default:
		e = -20 + r.Intn(41) // [-20, 20]
	}

	mant := 1.0 + r.Float64()
	return f32Round(sign * mant * math.Pow(2, float64(e)))
}

// RandVec draws one 5-lane operand vector under the given profile.
func RandVec(r *rand.Rand, p Profile) [5]float32 {
	var out [5]float32
	for i := range out {
		switch p {
		case ProfileSmall:
			out[i] = randNormalValue(r, true, false)
		case ProfileLarge:
			out[i] = randNormalValue(r, false, true)
		case ProfileMixed:
			x := r.Float64()
			out[i] = randNormalValue(r, x < 0.33, x >= 0.33 && x < 0.66)
		default:
			out[i] = randNormalValue(r, false, false)
		}
	}
	return out
}

func isFinite32(x float32) bool {
	exp := math.Float32bits(x) >> 23 & 0xFF
	return exp != 0xFF
}

func allFinite(v [5]float32) bool {
	for _, x := range v {
		if !isFinite32(x) {
			return false
		}
	}
	return true
}

// SampleVecs draws operand vectors whose exact dot product stays finite in
// binary32, rejecting overflowing draws. It returns the vectors and the
// expected result.
func SampleVecs(r *rand.Rand, p Profile, maxTries int) (a, b [5]float32, expected float32, err error) {
	for try := 0; try < maxTries; try++ {
		a = RandVec(r, p)
		b = RandVec(r, p)
		if !allFinite(a) || !allFinite(b) {
			continue
		}
		expected = Dot5(a, b)
		if !isFinite32(expected) {
			continue
		}
		return a, b, expected, nil
	}
	return a, b, 0, fmt.Errorf("no finite dot product after %d tries (profile %s)", maxTries, p)
}
