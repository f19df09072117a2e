package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/example/go-pe-sim/internal/bench"
	"github.com/example/go-pe-sim/internal/fp32"
	"github.com/example/go-pe-sim/internal/pe"
	"github.com/example/go-pe-sim/internal/ref"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs          int
		ops           int
		seed          int64
		profile       string
		format        string
		rateThreshold float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark dot-product throughput over a fixed operand corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("runs") {
				runs = activeCfg.Bench.Runs
			}
			if !cmd.Flags().Changed("ops") {
				ops = activeCfg.Bench.Ops
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if ops < 1 {
				return fmt.Errorf("--ops must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}
			p, err := ref.ParseProfile(profile)
			if err != nil {
				return err
			}

			corpus, err := sampleCorpus(seed, p, ops)
			if err != nil {
				return err
			}

			results := runBench(corpus, runs)

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, os.Stdout)
			default:
				bench.FormatTable(results, stats, os.Stdout)
			}

			var totalRate float64
			for _, r := range results {
				totalRate += r.OpsPerSec
			}
			meanRate := totalRate / float64(len(results))

			return bench.CheckRateThreshold(meanRate, rateThreshold)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "Number of bench runs (default from config)")
	cmd.Flags().IntVar(&ops, "ops", 0, "Dot products per run (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for the operand corpus")
	cmd.Flags().StringVar(&profile, "profile", "normal", "Operand profile: normal|small|large|mixed")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&rateThreshold, "rate-threshold", 0, "Exit non-zero if mean ops/s falls below this value (0 = disabled)")

	return cmd
}

type benchCase struct {
	a, b fp32.Bus
}

// sampleCorpus pre-draws the operand pairs so the timed loop measures only
// the pipeline, not the generator.
func sampleCorpus(seed int64, p ref.Profile, ops int) ([]benchCase, error) {
	r := rand.New(rand.NewSource(seed))
	corpus := make([]benchCase, ops)
	for i := range corpus {
		a, b, _, err := ref.SampleVecs(r, p, 1000)
		if err != nil {
			return nil, fmt.Errorf("corpus draw %d: %w", i, err)
		}
		corpus[i] = benchCase{a: fp32.PackBus(a), b: fp32.PackBus(b)}
	}
	return corpus, nil
}

var benchSink uint32

func runBench(corpus []benchCase, runs int) []bench.RunResult {
	results := make([]bench.RunResult, 0, runs)

	for i := 0; i < runs; i++ {
		start := time.Now()
		for _, c := range corpus {
			benchSink = pe.Run(c.a, c.b)
		}
		dur := time.Since(start)

		results = append(results, bench.RunResult{
			Index:     i,
			Cold:      i == 0,
			Duration:  dur,
			Ops:       len(corpus),
			OpsPerSec: bench.CalcRate(len(corpus), dur),
		})
	}

	return results
}
