package pe

import "github.com/example/go-pe-sim/internal/fp32"

// EdgeTrace is a snapshot of the visible register state after one rising
// edge, for the trace command and debugging.
type EdgeTrace struct {
	Edge   int    `json:"edge"`
	Phase  bool   `json:"phase"`
	Sum    int64  `json:"sum"`
	Acc    int64  `json:"acc"`
	MaxExp int32  `json:"max_exp"`
	Result uint32 `json:"result"`
	Valid  bool   `json:"valid"`
}

func snapshot(s State, edge int, phase bool) EdgeTrace {
	return EdgeTrace{
		Edge:   edge,
		Phase:  phase,
		Sum:    s.sum,
		Acc:    s.acc,
		MaxExp: s.maxExp2,
		Result: s.result,
		Valid:  s.valid,
	}
}

// RunTrace drives one complete operation like Run and records the register
// state after every edge, from the phase-0 edge through the edge that
// writes the result register.
func RunTrace(a, b fp32.Bus) []EdgeTrace {
	var traces []EdgeTrace
	s := New()

	s = s.Tick(EdgeInput{A: a, B: b, Phase: false})
	traces = append(traces, snapshot(s, 0, false))

	s = s.Tick(EdgeInput{A: a, B: b, Phase: true})
	traces = append(traces, snapshot(s, 1, true))

	idle := EdgeInput{A: a, B: b}
	for i := 0; i < ResultLatency; i++ {
		s = s.Tick(idle)
		traces = append(traces, snapshot(s, 2+i, false))
	}
	return traces
}
