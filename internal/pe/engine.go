// Package pe models one processing element of the dot-product array: a
// fixed-latency pipeline computing a 5-lane single-precision dot product
// with a two-phase time-multiplexed 12x12 significand multiply.
//
// The pipeline is fully synchronous. State is the complete register file;
// Tick consumes one State and the port values sampled at a rising clock
// edge and returns the next State. Because State is a plain value,
// independent instances are just independent values and every run is
// bit-for-bit deterministic.
//
// Protocol: present both buses, hold the phase bit low for one edge, high
// for exactly one edge, then low again. The packed result is registered
// four edges after the phase-high edge and the valid flag is set for that
// single edge. Exactly one operation may be in flight; there is no error
// channel, every input pattern produces some deterministic output.
package pe

import "github.com/example/go-pe-sim/internal/fp32"

// ResultLatency is the number of edges from the phase-high edge to the
// edge on which the result register is written.
const ResultLatency = 4

// EdgeInput carries the top-level port values sampled at one rising edge.
type EdgeInput struct {
	A, B  fp32.Bus
	Phase bool
}

// State is the register file of one processing element.
type State struct {
	// Stage 1: aligned, sign-adjusted partial products of the pass
	// presented at the previous edge, with the comparator maximum.
	terms   [2 * fp32.Lanes]int64
	maxExp1 int32
	f1      bool

	// Stage 2: running reduction. Holds the phase-0 sum for one edge;
	// after the phase-1 pass it holds the full 10-term total.
	sum     int64
	sumNeg  bool
	maxExp2 int32
	f2      bool

	// Stage 3: accumulator latch feeding normalization.
	acc     int64
	accNeg  bool
	maxExp3 int32
	f3      bool

	// Stage 4: normalize record.
	norm normRecord
	f4   bool

	// Output register. valid is set for exactly one edge.
	result uint32
	valid  bool
}

// New returns a processing element with all registers cleared.
func New() State { return State{} }

// Result returns the output register. It holds its value between
// operations; check ResultValid for the one-edge valid window.
func (s State) Result() uint32 { return s.result }

// ResultValid reports whether the output register was written this edge.
func (s State) ResultValid() bool { return s.valid }

// Tick advances the pipeline by one rising clock edge. Every register
// write for the edge happens here; each register has exactly one writer.
func (s State) Tick(in EdgeInput) State {
	var next State

	// Decode and schedule the multiply pass for the phase presented now.
	la := decodeBus(in.A)
	lb := decodeBus(in.B)
	maxExp, shifts := laneExponents(la, lb)
	next.terms = scheduleTerms(la, lb, in.Phase, shifts)
	next.maxExp1 = maxExp
	next.f1 = in.Phase

	// Reduce the registered terms. The phase-0 pass reduces against a
	// zero feedback; the phase-1 pass folds in the registered phase-0
	// sum, completing the 10-term total.
	var feedback int64
	if s.f1 {
		feedback = s.sum
	}
	next.sum, next.sumNeg = reduceTerms(s.terms, feedback)
	next.maxExp2 = s.maxExp1
	next.f2 = s.f1

	// Latch the reduction into the accumulator stage.
	next.acc = s.sum
	next.accNeg = s.sumNeg
	next.maxExp3 = s.maxExp2
	next.f3 = s.f2

	// Normalize once the pipelined phase flag arrives with the complete
	// total behind it.
	if s.f3 {
		next.norm = normalize(s.acc, s.accNeg, s.maxExp3)
	} else {
		next.norm = s.norm
	}
	next.f4 = s.f3

	// Round, pack and register the result.
	if s.f4 {
		next.result = roundPack(s.norm)
		next.valid = true
	} else {
		next.result = s.result
	}

	return next
}

// Run drives one complete operation through the control protocol and
// returns the packed result: phase low one edge, high one edge, then
// ResultLatency idle edges.
func Run(a, b fp32.Bus) uint32 {
	s := New()
	s = s.Tick(EdgeInput{A: a, B: b, Phase: false})
	s = s.Tick(EdgeInput{A: a, B: b, Phase: true})
	idle := EdgeInput{A: a, B: b}
	for i := 0; i < ResultLatency; i++ {
		s = s.Tick(idle)
	}
	return s.Result()
}
