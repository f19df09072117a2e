package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-pe-sim/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run pipeline self-checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			result := doctor.Run(doctor.DefaultConfig(), os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}
