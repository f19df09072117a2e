// Package fp32 provides single-precision bit utilities and the 160-bit
// 5-lane operand bus used by the processing element.
//
// Lane encoding is the usual {sign[31], exponent[30:23], fraction[22:0]}
// layout. The significand rule deliberately deviates from IEEE-754: any
// lane whose exponent or fraction is nonzero gets an implicit leading one,
// so subnormal encodings are read as small normal values. Only a lane with
// both fields zero decodes to a zero significand.
package fp32

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// ExpBias is the binary32 exponent bias.
	ExpBias = 127

	// FracBits is the stored fraction width.
	FracBits = 23

	// SigBits is the significand width including the implicit one.
	SigBits = 24

	// FracMask selects the stored fraction field.
	FracMask = 1<<FracBits - 1

	// ImplicitOne is the hidden leading significand bit.
	ImplicitOne = 1 << FracBits

	// Lanes is the number of operands packed into one bus.
	Lanes = 5
)

// Lane holds the unpacked fields of one 32-bit operand.
type Lane struct {
	Sign bool
	Exp  uint32 // biased, 8 bits
	Frac uint32 // 23 bits
}

// Split unpacks the sign, exponent and fraction fields of a 32-bit value.
func Split(bits uint32) Lane {
	return Lane{
		Sign: bits>>31 == 1,
		Exp:  bits >> FracBits & 0xFF,
		Frac: bits & FracMask,
	}
}

// Pack is the inverse of Split.
func (l Lane) Pack() uint32 {
	bits := l.Exp&0xFF<<FracBits | l.Frac&FracMask
	if l.Sign {
		bits |= 1 << 31
	}
	return bits
}

// IsZero reports whether both the exponent and fraction fields are zero.
func (l Lane) IsZero() bool { return l.Exp == 0 && l.Frac == 0 }

// Significand returns the 24-bit significand: {1, fraction} unless the
// lane is all-zero, in which case the significand is zero.
func (l Lane) Significand() uint32 {
	if l.IsZero() {
		return 0
	}
	return ImplicitOne | l.Frac
}

// Bus is one 160-bit operand bus. Lane k occupies word k, matching bit
// offset 32k of the hardware port.
type Bus [Lanes]uint32

// PackBus builds a bus from five float32 lane values.
func PackBus(vals [Lanes]float32) Bus {
	var b Bus
	for i, v := range vals {
		b[i] = math.Float32bits(v)
	}
	return b
}

// Floats returns the lane values interpreted as float32.
func (b Bus) Floats() [Lanes]float32 {
	var out [Lanes]float32
	for i, bits := range b {
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// String formats the bus as 0x-prefixed hex, 40 digits, lane 4 high.
func (b Bus) String() string {
	var sb strings.Builder
	sb.WriteString("0x")
	for i := Lanes - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%08x", b[i])
	}
	return sb.String()
}

// ParseBus parses the format produced by String. The 0x prefix is optional.
func ParseBus(s string) (Bus, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(hex) != 8*Lanes {
		return Bus{}, fmt.Errorf("bus literal %q: want %d hex digits, got %d", s, 8*Lanes, len(hex))
	}
	var b Bus
	for i := 0; i < Lanes; i++ {
		word := hex[8*i : 8*i+8]
		v, err := strconv.ParseUint(word, 16, 32)
		if err != nil {
			return Bus{}, fmt.Errorf("bus literal %q: lane word %q: %w", s, word, err)
		}
		b[Lanes-1-i] = uint32(v)
	}
	return b, nil
}
