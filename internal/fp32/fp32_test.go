package fp32

import (
	"math"
	"math/rand"
	"testing"
)

func TestSplitPackRoundTrip(t *testing.T) {
	patterns := []uint32{
		0x00000000, // +0
		0x80000000, // -0
		0x3F800000, // 1.0
		0xBF800000, // -1.0
		0x40A00000, // 5.0
		0x00400000, // subnormal encoding
		0x7F7FFFFF, // max finite
		0x00800000, // min normal
		0x7F800000, // inf encoding (accepted, not interpreted)
		0xFFFFFFFF,
	}
	for _, bits := range patterns {
		if got := Split(bits).Pack(); got != bits {
			t.Errorf("Split(%#08x).Pack() = %#08x", bits, got)
		}
	}

	r := rand.New(rand.NewSource(7))
	for n := 0; n < 1000; n++ {
		bits := r.Uint32()
		if got := Split(bits).Pack(); got != bits {
			t.Errorf("Split(%#08x).Pack() = %#08x", bits, got)
		}
	}
}

func TestSignificand(t *testing.T) {
	tests := []struct {
		name string
		bits uint32
		want uint32
	}{
		{name: "one", bits: math.Float32bits(1.0), want: ImplicitOne},
		{name: "one point five", bits: math.Float32bits(1.5), want: ImplicitOne | 1<<22},
		{name: "zero", bits: 0, want: 0},
		{name: "negative zero", bits: 0x80000000, want: 0},
		{name: "power of two keeps implicit one", bits: math.Float32bits(8.0), want: ImplicitOne},
		{name: "subnormal encoding gets implicit one", bits: 0x00000001, want: ImplicitOne | 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Split(tt.bits).Significand(); got != tt.want {
				t.Errorf("Significand() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestBusPackFloats(t *testing.T) {
	vals := [Lanes]float32{1, -2, 0.5, 0, 3.25}
	b := PackBus(vals)
	if got := b.Floats(); got != vals {
		t.Errorf("Floats() = %v, want %v", got, vals)
	}
	if b[0] != math.Float32bits(1) || b[4] != math.Float32bits(3.25) {
		t.Errorf("lane placement wrong: %v", b)
	}
}

func TestBusString(t *testing.T) {
	b := PackBus([Lanes]float32{1, 1, 1, 1, 1})
	want := "0x3f8000003f8000003f8000003f8000003f800000"
	if got := b.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestParseBus(t *testing.T) {
	b := PackBus([Lanes]float32{1, -2, 0.5, 0, 3.25})
	got, err := ParseBus(b.String())
	if err != nil {
		t.Fatalf("ParseBus: %v", err)
	}
	if got != b {
		t.Errorf("ParseBus(String()) = %v, want %v", got, b)
	}

	// Prefix is optional.
	if _, err := ParseBus(b.String()[2:]); err != nil {
		t.Errorf("ParseBus without prefix: %v", err)
	}

	for _, bad := range []string{"", "0x1234", "0x" + "zz000000" + "00000000" + "00000000" + "00000000" + "00000000"} {
		if _, err := ParseBus(bad); err == nil {
			t.Errorf("ParseBus(%q): expected error", bad)
		}
	}
}
