package doctor

import (
	"fmt"
	"math"

	"github.com/example/go-pe-sim/internal/fp32"
	"github.com/example/go-pe-sim/internal/pe"
	"github.com/example/go-pe-sim/internal/ref"
)

func checkDecodeRoundTrip() error {
	patterns := []uint32{0, 0x80000000, 0x3F800000, 0xBF800000, 0x7F7FFFFF, 0x00400000}
	for _, bits := range patterns {
		if got := fp32.Split(bits).Pack(); got != bits {
			return fmt.Errorf("split/pack of %#08x gave %#08x", bits, got)
		}
	}
	return nil
}

func checkWorkedExample() error {
	ones := fp32.PackBus([5]float32{1, 1, 1, 1, 1})
	got := pe.Run(ones, ones)
	if got != 0x40A00000 {
		return fmt.Errorf("dot(ones, ones) = %#08x, want 0x40a00000", got)
	}
	return nil
}

func checkPerLaneProducts() error {
	for lane := 0; lane < fp32.Lanes; lane++ {
		var a, b [5]float32
		a[lane] = 1.5
		b[lane] = 1.5
		got := pe.Run(fp32.PackBus(a), fp32.PackBus(b))
		if got != math.Float32bits(2.25) {
			return fmt.Errorf("lane %d: 1.5*1.5 = %#08x", lane, got)
		}
	}
	return nil
}

func checkCancellation() error {
	got := pe.Run(
		fp32.PackBus([5]float32{2, -2, 0, 0, 0}),
		fp32.PackBus([5]float32{1, 1, 0, 0, 0}),
	)
	if got&0x7FFFFFFF != 0 {
		return fmt.Errorf("cancellation left magnitude %#08x", got&0x7FFFFFFF)
	}
	return nil
}

func checkRounding() error {
	tiny := float32(math.Pow(2, -12))
	step := float32(math.Pow(2, -11))

	// 1 + 2^-24 is a tie: round to even keeps 1.0.
	got := pe.Run(
		fp32.PackBus([5]float32{1, tiny, 0, 0, 0}),
		fp32.PackBus([5]float32{1, tiny, 0, 0, 0}),
	)
	if got != math.Float32bits(1) {
		return fmt.Errorf("tie 1+2^-24 = %#08x, want 1.0", got)
	}

	// 1 + 2^-23 is exact: one ulp above 1.0.
	got = pe.Run(
		fp32.PackBus([5]float32{1, step, 0, 0, 0}),
		fp32.PackBus([5]float32{1, tiny, 0, 0, 0}),
	)
	if got != math.Float32bits(1)+1 {
		return fmt.Errorf("step 1+2^-23 = %#08x, want %#08x", got, math.Float32bits(1)+1)
	}
	return nil
}

func checkLatencyWindow() error {
	ones := fp32.PackBus([5]float32{1, 1, 1, 1, 1})
	s := pe.New()
	s = s.Tick(pe.EdgeInput{A: ones, B: ones, Phase: false})
	s = s.Tick(pe.EdgeInput{A: ones, B: ones, Phase: true})

	idle := pe.EdgeInput{A: ones, B: ones}
	for i := 1; i < pe.ResultLatency; i++ {
		s = s.Tick(idle)
		if s.ResultValid() {
			return fmt.Errorf("result valid %d edges after phase high", i)
		}
	}
	s = s.Tick(idle)
	if !s.ResultValid() {
		return fmt.Errorf("result not valid %d edges after phase high", pe.ResultLatency)
	}
	return nil
}

func checkReferenceAgreement() error {
	r := newCheckRand()
	for i := 0; i < 50; i++ {
		a, b, expected, err := ref.SampleVecs(r, ref.ProfileNormal, 1000)
		if err != nil {
			return err
		}
		got := pe.Run(fp32.PackBus(a), fp32.PackBus(b))
		if !ref.BitsEqualLenientZero(got, math.Float32bits(expected)) {
			return fmt.Errorf("case %d: a=%v b=%v: got %#08x, want %#08x",
				i, a, b, got, math.Float32bits(expected))
		}
	}
	return nil
}
