package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/example/go-pe-sim/internal/pe"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	var aSpec string
	var bSpec string
	var format string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run one operation and dump per-edge register state",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, b, err := parseOperands(aSpec, bSpec)
			if err != nil {
				return err
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			traces := pe.RunTrace(a, b)

			fmt.Fprintf(os.Stdout, "A=%s\nB=%s\n", a, b)
			return writeTrace(os.Stdout, format, traces)
		},
	}

	cmd.Flags().StringVar(&aSpec, "a", "", "Operand A: 5 comma-separated lane values (decimal or 0x bits)")
	cmd.Flags().StringVar(&bSpec, "b", "", "Operand B: 5 comma-separated lane values (decimal or 0x bits)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}

func writeTrace(w io.Writer, format string, traces []pe.EdgeTrace) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(traces)
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%-5s  %-5s  %18s  %18s  %7s  %10s  %-5s\n",
		"Edge", "Phase", "Sum", "Acc", "MaxExp", "Result", "Valid")
	fmt.Fprintln(sb, strings.Repeat("-", 78))
	for _, tr := range traces {
		phase := "0"
		if tr.Phase {
			phase = "1"
		}
		valid := ""
		if tr.Valid {
			valid = "yes"
		}
		result := ""
		if tr.Valid {
			result = fmt.Sprintf("0x%08x", tr.Result)
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %#18x  %#18x  %7d  %10s  %-5s\n",
			tr.Edge, phase, tr.Sum, tr.Acc, tr.MaxExp, result, valid)
	}
	if len(traces) > 0 {
		last := traces[len(traces)-1]
		fmt.Fprintf(sb, "result: %v (0x%08x)\n", math.Float32frombits(last.Result), last.Result)
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}
