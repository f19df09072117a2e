// Package doctor provides self-checks for the pesim pipeline: a small
// battery of known-answer operations run against the live engine.
package doctor

import (
	"fmt"
	"io"
	"math/rand"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// CheckFunc runs one self-check and returns an error on failure.
type CheckFunc func() error

// Check is a named self-check.
type Check struct {
	Name string
	Run  CheckFunc
}

// Config holds the checks to execute.
type Config struct {
	Checks []Check
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	for _, c := range cfg.Checks {
		if err := c.Run(); err != nil {
			res.fail(fmt.Sprintf("%s: %v", c.Name, err))
			fmt.Fprintf(w, "%s %s: %v\n", FailMark, c.Name, err)
			continue
		}
		fmt.Fprintf(w, "%s %s: ok\n", PassMark, c.Name)
	}

	return res
}

// DefaultConfig returns the standard self-check battery.
func DefaultConfig() Config {
	return Config{
		Checks: []Check{
			{Name: "decode round-trip", Run: checkDecodeRoundTrip},
			{Name: "worked example 5x1.0", Run: checkWorkedExample},
			{Name: "per-lane products", Run: checkPerLaneProducts},
			{Name: "cancellation to zero", Run: checkCancellation},
			{Name: "round to nearest even", Run: checkRounding},
			{Name: "result latency window", Run: checkLatencyWindow},
			{Name: "reference agreement", Run: checkReferenceAgreement},
		},
	}
}

// checkSeed keeps the reference-agreement sweep reproducible across runs.
const checkSeed = 20260831

func newCheckRand() *rand.Rand { return rand.New(rand.NewSource(checkSeed)) }
