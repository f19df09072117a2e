package pe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/example/go-pe-sim/internal/fp32"
	"github.com/example/go-pe-sim/internal/ref"
	"github.com/example/go-pe-sim/internal/testutil"
)

// TestRunReferenceSweep drives a large randomized corpus through every
// operand profile against the reference model. Gated on PESIM_SWEEP; the
// short per-profile check lives in TestRunMatchesReferenceProfiles.
func TestRunReferenceSweep(t *testing.T) {
	testutil.RequireSweep(t)

	const casesPerProfile = 20000

	profiles := []ref.Profile{
		ref.ProfileNormal, ref.ProfileSmall, ref.ProfileLarge, ref.ProfileMixed,
	}
	for _, p := range profiles {
		t.Run(string(p), func(t *testing.T) {
			r := rand.New(rand.NewSource(99))
			for i := 0; i < casesPerProfile; i++ {
				av, bv, expected, err := ref.SampleVecs(r, p, 1000)
				if err != nil {
					t.Fatalf("case %d: %v", i, err)
				}
				if refSubnormal(expected) {
					continue
				}
				a := fp32.PackBus(av)
				b := fp32.PackBus(bv)
				got := Run(a, b)
				want := math.Float32bits(expected)
				if !ref.BitsEqualLenientZero(got, want) {
					t.Fatalf("case %d: a=%s b=%s: got %#08x (%v), want %#08x (%v)",
						i, a, b, got, math.Float32frombits(got), want, expected)
				}
			}
		})
	}
}
