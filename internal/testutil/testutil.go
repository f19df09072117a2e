// Package testutil provides shared helpers for tests across packages:
// operand bus builders and a skip gate for the long randomized sweeps.
//
// Typical usage:
//
//	func TestMySweep(t *testing.T) {
//	    testutil.RequireSweep(t)
//	    a := testutil.Bus(t, 1, 1, 1, 1, 1)
//	    ...
//	}
package testutil

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/example/go-pe-sim/internal/fp32"
)

// Bus builds a 5-lane operand bus from float lane values.
func Bus(tb testing.TB, vals ...float32) fp32.Bus {
	tb.Helper()

	if len(vals) != fp32.Lanes {
		tb.Fatalf("Bus: want %d lane values, got %d", fp32.Lanes, len(vals))
	}
	var lanes [fp32.Lanes]float32
	copy(lanes[:], vals)
	return fp32.PackBus(lanes)
}

// BusBits builds a 5-lane operand bus from raw lane bit patterns.
func BusBits(tb testing.TB, bits ...uint32) fp32.Bus {
	tb.Helper()

	if len(bits) != fp32.Lanes {
		tb.Fatalf("BusBits: want %d lane values, got %d", fp32.Lanes, len(bits))
	}
	var b fp32.Bus
	copy(b[:], bits)
	return b
}

// MustParseBits parses a 0x-prefixed 32-bit hex literal, failing the test
// on malformed input.
func MustParseBits(tb testing.TB, s string) uint32 {
	tb.Helper()

	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), 16, 32)
	if err != nil {
		tb.Fatalf("MustParseBits(%q): %v", s, err)
	}
	return uint32(v)
}

// RequireSweep skips the test unless PESIM_SWEEP is set, keeping the long
// randomized sweeps out of the default test run.
func RequireSweep(tb testing.TB) {
	tb.Helper()

	if os.Getenv("PESIM_SWEEP") == "" {
		tb.Skip("long randomized sweep disabled; set PESIM_SWEEP=1 to enable")
	}
}
