package arith

import "testing"

func TestMul12(t *testing.T) {
	tests := []struct {
		name string
		a, b uint32
		want uint32
	}{
		{name: "zero", a: 0, b: 0xFFF, want: 0},
		{name: "identity segments", a: 1, b: 1, want: 1},
		{name: "full scale", a: 0xFFF, b: 0xFFF, want: 0xFFE001},
		{name: "inputs masked to 12 bits", a: 0x1001, b: 0x1001, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mul12(tt.a, tt.b); got != tt.want {
				t.Errorf("Mul12(%#x, %#x) = %#x, want %#x", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareExponents(t *testing.T) {
	pairs := []ExpPair{
		{A: 127, B: 127}, // combined 127
		{A: 128, B: 128}, // combined 129
		{A: 100, B: 120}, // combined 93
		{},               // tied to zero: combined -127
	}
	max, diffs := CompareExponents(pairs)
	if max != 129 {
		t.Fatalf("max = %d, want 129", max)
	}
	want := []uint32{2, 0, 36, 256}
	for i, d := range diffs {
		if d != want[i] {
			t.Errorf("diffs[%d] = %d, want %d", i, d, want[i])
		}
	}
}

func TestCompareExponents_zeroSlotNeverWins(t *testing.T) {
	// Minimum combined exponent of two finite normalized operands is
	// 1+1-127 = -125, above the tied-to-zero slot value of -127.
	pairs := []ExpPair{{A: 1, B: 1}, {}}
	max, _ := CompareExponents(pairs)
	if max != -125 {
		t.Errorf("max = %d, want -125", max)
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name         string
		product      uint32
		place, shift uint32
		want         uint64
	}{
		{name: "no shift", product: 0xABC, want: 0xABC},
		{name: "placement only", product: 1, place: 24, want: 1 << 24},
		{name: "truncates shifted-off bits", product: 0b11, shift: 1, want: 1},
		{name: "placement then shift", product: 0xFFF, place: 12, shift: 4, want: 0xFFF00},
		{name: "shift beyond width clears", product: 0xFFFFFF, place: 24, shift: 70, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Align(tt.product, tt.place, tt.shift); got != tt.want {
				t.Errorf("Align(%#x, %d, %d) = %#x, want %#x", tt.product, tt.place, tt.shift, got, tt.want)
			}
		})
	}
}

func TestNegateIf(t *testing.T) {
	if got := NegateIf(5, false); got != 5 {
		t.Errorf("NegateIf(5, false) = %d", got)
	}
	if got := NegateIf(5, true); got != -5 {
		t.Errorf("NegateIf(5, true) = %d", got)
	}
	if got := NegateIf(0, true); got != 0 {
		t.Errorf("NegateIf(0, true) = %d", got)
	}
}

func TestReduce(t *testing.T) {
	sum, neg := Reduce([]int64{1, 2, 3, -4}, 10)
	if sum != 12 || neg {
		t.Errorf("Reduce = (%d, %v), want (12, false)", sum, neg)
	}

	sum, neg = Reduce([]int64{-5, -6}, 1)
	if sum != -10 || !neg {
		t.Errorf("Reduce = (%d, %v), want (-10, true)", sum, neg)
	}

	sum, neg = Reduce([]int64{2, -2}, 0)
	if sum != 0 || neg {
		t.Errorf("Reduce = (%d, %v), want (0, false)", sum, neg)
	}
}

func TestLeadingOnePosition(t *testing.T) {
	tests := []struct {
		name string
		mag  uint64
		want uint32
	}{
		{name: "unshifted product scale", mag: 1 << 46, want: NoShiftPos},
		{name: "one bit above", mag: 1 << 47, want: NoShiftPos - 1},
		{name: "one bit below", mag: 1 << 45, want: NoShiftPos + 1},
		{name: "lowest bit", mag: 1, want: 66},
		{name: "zero magnitude", mag: 0, want: 66},
		{name: "non power of two uses msb", mag: 5 << 46, want: NoShiftPos - 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeadingOnePosition(tt.mag); got != tt.want {
				t.Errorf("LeadingOnePosition(%#x) = %d, want %d", tt.mag, got, tt.want)
			}
		})
	}
}
