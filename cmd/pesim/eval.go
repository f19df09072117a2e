package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/example/go-pe-sim/internal/fp32"
	"github.com/example/go-pe-sim/internal/pe"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var aSpec string
	var bSpec string
	var format string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run one dot-product operation",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, b, err := parseOperands(aSpec, bSpec)
			if err != nil {
				return err
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("--format must be 'text' or 'json'")
			}

			bits := pe.Run(a, b)
			return writeEvalResult(os.Stdout, format, bits)
		},
	}

	cmd.Flags().StringVar(&aSpec, "a", "", "Operand A: 5 comma-separated lane values (decimal or 0x bits)")
	cmd.Flags().StringVar(&bSpec, "b", "", "Operand B: 5 comma-separated lane values (decimal or 0x bits)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")

	return cmd
}

func parseOperands(aSpec, bSpec string) (a, b fp32.Bus, err error) {
	if strings.TrimSpace(aSpec) == "" || strings.TrimSpace(bSpec) == "" {
		return a, b, fmt.Errorf("both --a and --b are required")
	}
	if a, err = parseLanes(aSpec); err != nil {
		return a, b, fmt.Errorf("--a: %w", err)
	}
	if b, err = parseLanes(bSpec); err != nil {
		return a, b, fmt.Errorf("--b: %w", err)
	}
	return a, b, nil
}

// parseLanes parses five comma-separated lane values. Each lane is either
// a decimal float or a 0x-prefixed raw bit pattern.
func parseLanes(spec string) (fp32.Bus, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != fp32.Lanes {
		return fp32.Bus{}, fmt.Errorf("want %d lane values, got %d", fp32.Lanes, len(parts))
	}

	var bus fp32.Bus
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "0x") || strings.HasPrefix(p, "0X") {
			v, err := strconv.ParseUint(p[2:], 16, 32)
			if err != nil {
				return fp32.Bus{}, fmt.Errorf("lane %d: %q is not a 32-bit hex value", i, p)
			}
			bus[i] = uint32(v)
			continue
		}
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return fp32.Bus{}, fmt.Errorf("lane %d: %q is not a float value", i, p)
		}
		bus[i] = math.Float32bits(float32(v))
	}
	return bus, nil
}

type evalResult struct {
	Result float32 `json:"result"`
	Bits   string  `json:"bits"`
}

func writeEvalResult(w io.Writer, format string, bits uint32) error {
	res := evalResult{
		Result: math.Float32frombits(bits),
		Bits:   fmt.Sprintf("0x%08x", bits),
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	_, err := fmt.Fprintf(w, "%v (%s)\n", res.Result, res.Bits)
	return err
}
