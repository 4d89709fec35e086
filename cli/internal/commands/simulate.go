package commands

import (
	"github.com/spf13/cobra"

	"github.com/linecalc/linecalc/pkg/compute"
)

func newSimulateCmd(root *rootOptions) *cobra.Command {
	var (
		rate    float64
		n       int
		seed    uint64
		samples bool
	)
	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Monte-Carlo demo of exponential time-to-failure",
		Example: `  linecalc simulate --rate 0.5 --n 10000 --seed 42`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(root.output, OutputTable, OutputJSON); err != nil {
				return err
			}
			sim, err := compute.SimulateExponential(rate, n, seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.output == OutputJSON {
				if !samples {
					sim.Samples = nil
				}
				return writeJSON(out, sim)
			}
			renderSimulation(out, sim)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&rate, "rate", 0, "failure rate λ (failures per unit time)")
	f.IntVar(&n, "n", 1000, "number of samples")
	f.Uint64Var(&seed, "seed", 1, "random seed; equal seeds give equal runs")
	f.BoolVar(&samples, "samples", false, "include raw samples in JSON output")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
